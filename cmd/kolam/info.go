package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ha1tch/kolam-toolkit/pkg/kolam"
)

var infoCmd = &cobra.Command{
	Use:   "info [VARIANT]",
	Short: "Show grid information",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		variants := kolam.Variants
		if len(args) == 1 {
			v, err := kolam.ParseVariant(args[0])
			if err != nil {
				return err
			}
			variants = []kolam.Variant{v}
		}
		for i, v := range variants {
			if i > 0 {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			printGrid(cmd.OutOrStdout(), kolam.GridFor(v))
		}
		return nil
	},
}

func printGrid(w io.Writer, g *kolam.Grid) {
	fmt.Fprintf(w, "Variant:       %s\n", g.Variant)
	fmt.Fprintf(w, "Code length:   %d digits (%d bits)\n", g.CodeLength, g.CodeLength*4)
	fmt.Fprintf(w, "Intersections: %d\n", len(g.Order))
	fmt.Fprintf(w, "Pulli dots:    %d\n", len(g.PulliDots()))
	fmt.Fprintf(w, "Rows:          %v\n", g.RowDots())
	fmt.Fprintf(w, "Boundary arcs: %d\n", len(g.Arcs))
	fmt.Fprintf(w, "Scale:         %d px\n", g.Scale)
	fmt.Fprintf(w, "Image:         %d x %d px\n", g.PixelSize(), g.PixelSize())
}
