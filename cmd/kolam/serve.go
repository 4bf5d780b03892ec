package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/mdp/qrterminal/v3"
	"github.com/spf13/cobra"

	"github.com/ha1tch/kolam-toolkit/internal/gallery"
	"github.com/ha1tch/kolam-toolkit/internal/jobs"
	"github.com/ha1tch/kolam-toolkit/internal/site"
	"github.com/ha1tch/kolam-toolkit/pkg/kolamfile"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the kolam website",
	RunE:  runServe,
}

var (
	flagAddr   string
	flagQR     bool
	flagAssets string
	flagDB     string
)

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().BoolVar(&flagQR, "qr", false, "print the site URL as a QR code")
	serveCmd.Flags().StringVar(&flagAssets, "assets", "", "directory with the gallery photographs")
	serveCmd.Flags().StringVar(&flagDB, "db", "", "gallery database (default: ~/.kolam/gallery.db)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if flagAddr != "" {
		cfg.Server.Addr = flagAddr
	}
	if flagAssets != "" {
		cfg.Server.Assets = flagAssets
	}
	if flagDB != "" {
		cfg.Gallery.DB = flagDB
	}

	dbPath := cfg.GalleryPath()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	cat, err := gallery.Open(dbPath)
	if err != nil {
		return err
	}
	defer cat.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cat.Seed(ctx); err != nil {
		return err
	}

	q := jobs.New(cfg.JobDelay(), gallery.RecreateSamples())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		q.Run(ctx)
	}()
	defer wg.Wait()

	srv, err := site.New(cat, q, site.Options{
		Assets: cfg.Server.Assets,
		PNG:    kolamfile.PNGOptions{Supersample: cfg.Render.Supersample},
	})
	if err != nil {
		stop()
		return err
	}

	url := siteURL(cfg.Server.Addr)
	fmt.Fprintf(cmd.OutOrStdout(), "Serving %s\n", url)
	if flagQR || cfg.Server.QR {
		qrterminal.GenerateHalfBlock(url, qrterminal.L, cmd.OutOrStdout())
	}
	slog.Info("kolam started", "addr", cfg.Server.Addr, "db", dbPath, "delay", cfg.JobDelay())

	err = srv.ListenAndServe(ctx, cfg.Server.Addr)
	stop()
	return err
}

// siteURL turns a listen address into a URL a browser can open.
func siteURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr + "/"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + "/"
}
