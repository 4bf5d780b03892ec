package main

import (
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ha1tch/kolam-toolkit/pkg/kolam"
	"github.com/ha1tch/kolam-toolkit/pkg/kolamfile"
)

var decodeCmd = &cobra.Command{
	Use:   "decode VARIANT CODE",
	Short: "List the state of every intersection for a code",
	Long: `decode applies the decoder as the designers do: short codes are padded
with zeros, long codes are truncated, and characters that are not
hex digits contribute zero bits. Lower-case digits are upper-cased first.`,
	Args: cobra.ExactArgs(2),
	RunE: runDecode,
}

var flagDecodeJSON bool

func init() {
	decodeCmd.Flags().BoolVar(&flagDecodeJSON, "json", false, "print JSON with the intersections in bit order")
}

func runDecode(cmd *cobra.Command, args []string) error {
	v, err := kolam.ParseVariant(args[0])
	if err != nil {
		return err
	}
	code := strings.ToUpper(strings.TrimSpace(args[1]))
	if _, err := kolam.ValidateCode(v, code); err != nil {
		slog.Warn("code is not canonical", "code", args[1], "err", err)
	}
	states := kolam.Decode(v, code)
	p := &kolam.Pattern{Variant: v, Code: kolam.Encode(v, states), States: states}

	out := cmd.OutOrStdout()
	if flagDecodeJSON {
		data, err := kolamfile.ToJSON(p, true, true)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	g := p.Grid()
	fmt.Fprintf(out, "%s  %d crossings, %d loops\n\n", p.Name(), p.Crossings(), p.Loops())
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "BIT\tINTERSECTION\tCLASS\tSTATE")
	for i, c := range g.Order {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i, c, g.ClassOf(c), states[c])
	}
	return tw.Flush()
}
