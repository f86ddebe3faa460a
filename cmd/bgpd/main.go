// Command bgpd is a minimal BGP-4 speaker: one process, one configured
// peer, a LocRib, and a kernel routing-table sync driven off whatever
// the peer learns.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/mgilson/bgpd/bgplog"
	"github.com/mgilson/bgpd/config"
	"github.com/mgilson/bgpd/kernel"
	"github.com/mgilson/bgpd/metrics"
	"github.com/mgilson/bgpd/peer"
	"github.com/mgilson/bgpd/rib"
	"github.com/mgilson/bgpd/transport"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		verbose   bool
		jsonLog   bool
		metricsOn string
	)

	cmd := &cobra.Command{
		Use:   "bgpd <local_as> <local_ip> <remote_as> <remote_ip> <active|passive> [prefix/len...]",
		Short: "Run a minimal BGP-4 speaker for one peer session",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args, verbose, jsonLog, metricsOn)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug-level logging")
	cmd.Flags().BoolVar(&jsonLog, "json-log", false, "emit structured JSON logs instead of terminal-colored text")
	cmd.Flags().StringVar(&metricsOn, "metrics-addr", "", "if set, serve Prometheus metrics on this address (e.g. :9179)")

	return cmd
}

func run(ctx context.Context, args []string, verbose, jsonLog bool, metricsAddr string) error {
	// argv is space-joined and re-split, so the grammar may be given as
	// separate arguments or as one quoted string.
	cfg, err := config.Parse(strings.Fields(strings.Join(args, " ")))
	if err != nil {
		return err
	}

	var log bgplog.Logger
	if jsonLog {
		log = bgplog.NewJSON(verbose)
	} else {
		log = bgplog.New(verbose)
	}

	metrics.Register()
	if metricsAddr != "" {
		go serveMetrics(metricsAddr, log)
	}

	kt := kernel.LinuxTable{}

	loc, err := rib.NewLocRib(cfg.LocalAS, cfg.LocalIP, cfg.Networks, kt)
	if err != nil {
		return fmt.Errorf("building local rib: %w", err)
	}

	p := peer.New(cfg, loc, kt, log)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting peer session",
		"local_as", cfg.LocalAS, "local_ip", cfg.LocalIP,
		"remote_as", cfg.RemoteAS, "remote_ip", cfg.RemoteIP,
		"mode", modeName(cfg))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := p.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("peer session ended", "error", err)
		}
	}()

	<-ctx.Done()
	wg.Wait()

	if js, err := json.MarshalIndent(p.Status(), "", "  "); err == nil {
		fmt.Println(string(js))
	}

	return nil
}

func serveMetrics(addr string, log bgplog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error("metrics server stopped", "error", err)
	}
}

func modeName(cfg config.Config) string {
	if cfg.Mode == transport.Passive {
		return "passive"
	}
	return "active"
}
