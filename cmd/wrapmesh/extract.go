package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notargets/wrapmesh/internal/config"
	"github.com/notargets/wrapmesh/mesh"
	"github.com/notargets/wrapmesh/submesh"
)

func newExtractCmd() *cobra.Command {
	extractCmd := &cobra.Command{
		Use:   "extract <mesh>",
		Short: "Select cells by label and report the sub-mesh and shell sizes",
		Args:  cobra.ExactArgs(1),
		RunE:  runExtract,
	}
	extractCmd.Flags().IntSlice("label", nil, "Labels to select, repeatable or comma separated")
	extractCmd.Flags().Bool("invert", false, "Select cells carrying none of the labels")
	extractCmd.Flags().Int("shell-layers", 1, "Adjacency layers in the shell, overrides WRAPMESH_SHELL_LAYERS")
	extractCmd.Flags().IntSlice("shell-label", submesh.DefaultShellLabels, "Labels whose cells join the shell")
	extractCmd.Flags().Bool("no-shell-labels", false, "Build the shell from adjacency layers only")
	extractCmd.Flags().Bool("full-shell", false, "Use the whole mesh as the shell")
	extractCmd.Flags().String("adjacency", "vertex", "Shell growth adjacency: vertex or face")
	_ = extractCmd.MarkFlagRequired("label")
	return extractCmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	labels, _ := flags.GetIntSlice("label")
	invert, _ := flags.GetBool("invert")
	layers, _ := flags.GetInt("shell-layers")
	shellLabels, _ := flags.GetIntSlice("shell-label")
	noShellLabels, _ := flags.GetBool("no-shell-labels")
	full, _ := flags.GetBool("full-shell")
	adjName, _ := flags.GetString("adjacency")

	adj, err := config.ParseAdjacency(adjName)
	if err != nil {
		return err
	}
	if !flags.Changed("shell-layers") {
		layers = settings.ShellLayers
	}

	m, err := mesh.ReadMeshFile(args[0])
	if err != nil {
		return err
	}
	opts := []submesh.Option{
		submesh.WithShellLayers(layers),
		submesh.WithShellAdjacency(adj),
		submesh.WithLogger(logger),
	}
	if noShellLabels {
		shellLabels = nil
	}
	opts = append(opts, submesh.WithShellLabels(shellLabels...))
	if full {
		opts = append(opts, submesh.WithFullShell())
	}
	sub, err := submesh.Create(m, submesh.Selection{Labels: labels, Invert: invert}, opts...)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), sub.Summary())
	return nil
}
