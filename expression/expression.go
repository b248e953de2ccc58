// Package expression compiles string expressions such as "sin(x[0])" into
// fem.Expression values evaluated by an embedded Lua VM.
package expression

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/Shopify/go-lua"
)

var (
	ErrSyntax = errors.New("expression syntax error")
	ErrEval   = errors.New("expression evaluation failed")
)

// Math names available without the math. prefix
const prelude = `
sin, cos, tan = math.sin, math.cos, math.tan
asin, acos, atan = math.asin, math.acos, math.atan
exp, log, sqrt, abs = math.exp, math.log, math.sqrt, math.abs
floor, ceil, min, max = math.floor, math.ceil, math.min, math.max
pi = math.pi
`

var indexed = regexp.MustCompile(`\bx\s*\[\s*([0-2])\s*\]`)

// coordinate globals, x[i] is rewritten to _xi
var coordinates = [3][2]string{{"x", "_x0"}, {"y", "_x1"}, {"z", "_x2"}}

// Expression is a compiled scalar or vector expression of the coordinates
// x[0], x[1], x[2] (or x, y, z). It is safe for concurrent use.
type Expression struct {
	mu      sync.Mutex
	state   *lua.State
	sources []string
}

// Compile parses one expression per component
func Compile(components ...string) (*Expression, error) {
	if len(components) == 0 {
		return nil, fmt.Errorf("%w: no components", ErrSyntax)
	}
	l := lua.NewState()
	lua.OpenLibraries(l)
	if err := lua.DoString(l, prelude); err != nil {
		return nil, fmt.Errorf("loading math prelude: %w", err)
	}

	for i, src := range components {
		if strings.TrimSpace(src) == "" {
			return nil, fmt.Errorf("%w: component %d is empty", ErrSyntax, i)
		}
		chunk := "return (" + indexed.ReplaceAllString(src, "_x$1") + ")"
		if err := lua.LoadString(l, chunk); err != nil {
			return nil, fmt.Errorf("%w: component %d %q: %v", ErrSyntax, i, src, err)
		}
		l.SetGlobal(componentName(i))
	}
	return &Expression{state: l, sources: append([]string(nil), components...)}, nil
}

// MustCompile is Compile that panics on error, for fixed expressions
func MustCompile(components ...string) *Expression {
	e, err := Compile(components...)
	if err != nil {
		panic(err)
	}
	return e
}

func componentName(i int) string { return "__component" + strconv.Itoa(i) }

func (e *Expression) ValueDim() int { return len(e.sources) }

func (e *Expression) Sources() []string { return append([]string(nil), e.sources...) }

func (e *Expression) String() string {
	if len(e.sources) == 1 {
		return e.sources[0]
	}
	return "(" + strings.Join(e.sources, ", ") + ")"
}

// Eval evaluates every component at x
func (e *Expression) Eval(x [3]float64) ([]float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	l := e.state
	for d, names := range coordinates {
		for _, name := range names {
			l.PushNumber(x[d])
			l.SetGlobal(name)
		}
	}
	out := make([]float64, len(e.sources))
	for i, src := range e.sources {
		l.Global(componentName(i))
		if err := l.ProtectedCall(0, 1, 0); err != nil {
			msg, _ := l.ToString(-1)
			l.Pop(1)
			return nil, fmt.Errorf("%w: %q at (%g, %g, %g): %s", ErrEval, src, x[0], x[1], x[2], msg)
		}
		v, ok := l.ToNumber(-1)
		l.Pop(1)
		if !ok {
			return nil, fmt.Errorf("%w: %q did not return a number", ErrEval, src)
		}
		out[i] = v
	}
	return out, nil
}
