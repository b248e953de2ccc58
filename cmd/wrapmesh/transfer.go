package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/notargets/wrapmesh/expression"
	"github.com/notargets/wrapmesh/fem"
	"github.com/notargets/wrapmesh/internal/config"
	"github.com/notargets/wrapmesh/internal/metrics"
	"github.com/notargets/wrapmesh/submesh"
)

func newTransferCmd() *cobra.Command {
	transferCmd := &cobra.Command{
		Use:   "transfer <scenario.yaml>",
		Short: "Run a cut and expand scenario and print field values at the probes",
		Args:  cobra.ExactArgs(1),
		RunE:  runTransfer,
	}
	transferCmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this file (default WRAPMESH_METRICS_FILE)")
	return transferCmd
}

func runTransfer(cmd *cobra.Command, args []string) error {
	sc, err := config.LoadScenario(args[0])
	if err != nil {
		return err
	}
	metricsFile, _ := cmd.Flags().GetString("metrics-file")
	if metricsFile == "" {
		metricsFile = settings.MetricsFile
	}

	m, err := sc.LoadMesh()
	if err != nil {
		return err
	}
	met := metrics.New()
	opts := append(sc.SubmeshOptions(settings.ShellLayers), submesh.WithLogger(logger), submesh.WithObserver(met))
	sub, err := submesh.Create(m, sc.SubmeshSelection(), opts...)
	if err != nil {
		return err
	}

	expr, err := expression.Compile(sc.Expression...)
	if err != nil {
		return err
	}
	family, degree, dim := sc.Family(), sc.Space.Degree, expr.ValueDim()

	// Cut a field interpolated on the shell
	Vshell, err := fem.NewVectorFunctionSpace(sub.WithShell(), family, degree, dim)
	if err != nil {
		return err
	}
	onShell, err := fem.Interpolate(expr, Vshell)
	if err != nil {
		return err
	}
	cut, err := sub.Cut(onShell)
	if err != nil {
		return err
	}

	// Expand a field interpolated on the sub-mesh
	Vsub, err := fem.NewVectorFunctionSpace(sub.Mesh, family, degree, dim)
	if err != nil {
		return err
	}
	onSub, err := fem.Interpolate(expr, Vsub)
	if err != nil {
		return err
	}
	var background *fem.Function
	if len(sc.Background) > 0 {
		Vparent, err := fem.NewVectorFunctionSpace(m, family, degree, dim)
		if err != nil {
			return err
		}
		if background, err = fem.Interpolate(fem.Constant(sc.Background...), Vparent); err != nil {
			return err
		}
	}
	expanded, err := sub.Expand(onSub, background)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, sub.Summary())
	fmt.Fprintf(out, "\nexpression %s, %s\n\n", expr, Vshell)
	if err = printProbes(out, sc.Probes, onShell, cut, expanded); err != nil {
		return err
	}

	if metricsFile != "" {
		if err = met.WriteToTextfile(metricsFile); err != nil {
			return err
		}
		logger.Info("wrote metrics", "path", metricsFile)
	}
	return nil
}

func printProbes(out io.Writer, probes [][3]float64, shell, cut, expanded *fem.Function) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "point\tshell\tcut\texpanded")
	for _, p := range probes {
		fmt.Fprintf(tw, "(%g, %g, %g)", p[0], p[1], p[2])
		for _, f := range []*fem.Function{shell, cut, expanded} {
			v, err := f.Eval(p)
			switch {
			case errors.Is(err, fem.ErrPointOutsideMesh):
				fmt.Fprint(tw, "\toutside")
			case err != nil:
				return err
			default:
				fmt.Fprintf(tw, "\t%s", formatValue(v))
			}
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func formatValue(v []float64) string {
	if len(v) == 1 {
		return fmt.Sprintf("%.8f", v[0])
	}
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%.8f", x)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
