package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notargets/wrapmesh/mesh"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <mesh>",
		Short: "Print entity counts, geometry and labels of a mesh file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := mesh.ReadMeshFile(args[0])
			if err != nil {
				return err
			}
			logger.Debug("loaded mesh", "path", args[0], "cells", m.NumCells())
			fmt.Fprint(cmd.OutOrStdout(), m.String())
			return nil
		},
	}
}
