package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gogpu/gg"
	"github.com/spf13/cobra"

	"github.com/ha1tch/kolam-toolkit/internal/config"
)

var (
	flagConfig string
	cfg        *config.Config
	logFile    io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "kolam",
	Short: "Kolam pattern toolkit",
	Long: `kolam decodes hex codes into 1-5-1 and 1-7-1 kolam patterns,
renders them as PNG, SVG, JSON or text, and serves the kolam website.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func Execute() {
	err := rootCmd.Execute()
	closeLog()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: ~/.kolam/config.yaml)")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.DefaultPath()
}

// setup loads the config and installs the logger every command uses.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.LoadOrDefault(configPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg = c

	closeLog()
	logger, f, err := newLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	logFile = f
	slog.SetDefault(logger)
	gg.SetLogger(logger)
	slog.Debug("config loaded", "path", configPath())
	return nil
}

// closeLog closes the log file opened by setup, if any.
func closeLog() {
	if logFile == nil {
		return
	}
	if err := logFile.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "closing log file:", err)
	}
	logFile = nil
}

// newLogger builds a text logger at level. When file is set the logger
// appends to it and the returned closer owns the handle; otherwise it
// writes to stderr and the closer is nil.
func newLogger(level, file string) (*slog.Logger, io.Closer, error) {
	var lvl slog.Level
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, nil, fmt.Errorf("loglevel %q: %w", level, err)
		}
	}
	if file == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil, nil
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: lvl})), f, nil
}
