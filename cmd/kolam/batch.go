package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ha1tch/kolam-toolkit/pkg/kolamfile"
)

var batchCmd = &cobra.Command{
	Use:   "batch FILE",
	Short: "Render every code in a list file",
	Long: `batch reads a list of codes, one "VARIANT CODE [NAME]" per line with
'#' comments, and renders each into the output directory. Use "-" to
read the list from stdin.`,
	Example: `  kolam batch designs.txt -d out -f svg
  printf '151 A5C3 diamond\n' | kolam batch - --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

var (
	flagBatchDir    string
	flagBatchFormat string
	flagDryRun      bool
)

func init() {
	batchCmd.Flags().StringVarP(&flagBatchDir, "dir", "d", ".", "output directory")
	batchCmd.Flags().StringVarP(&flagBatchFormat, "format", "f", "", "png, svg, json or txt (default: from config)")
	batchCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "print the normalised list instead of rendering")
}

func runBatch(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	entries, err := kolamfile.ParseCodes(string(data))
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	if flagDryRun {
		fmt.Fprint(out, kolamfile.FormatCodes(entries))
		return nil
	}

	format := renderFormat(flagBatchFormat, "", cfg.Render.Format)
	opts := renderOptions{Supersample: cfg.Render.Supersample}
	if err := os.MkdirAll(flagBatchDir, 0755); err != nil {
		return err
	}
	for _, e := range entries {
		data, err := encodePattern(e.Pattern(), format, opts)
		if err != nil {
			return err
		}
		path := filepath.Join(flagBatchDir, e.FileName()+"."+format)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Fprintf(out, "Written: %s\n", path)
	}
	return nil
}
