package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/axiomesh/axiom-staking/pkg/loggers"
	"github.com/axiomesh/axiom-staking/pkg/repo"
)

var metricsArgs = struct {
	Port int64
}{}

var metricsCMD = &cli.Command{
	Name:   "serve-metrics",
	Usage:  "Open the ledger and expose its metrics over http until interrupted",
	Action: serveMetrics,
	Flags: []cli.Flag{
		&cli.Int64Flag{
			Name:        "port",
			Usage:       "listen port, the monitor port of the config if not set",
			Destination: &metricsArgs.Port,
		},
	},
}

func serveMetrics(ctx *cli.Context) error {
	p, err := getRootPath(ctx)
	if err != nil {
		return err
	}
	r, err := repo.Load(p)
	if err != nil {
		return err
	}
	port := metricsArgs.Port
	if port == 0 {
		port = r.Config.Monitor.Port
	}

	exec, closer, err := prepareExecutor(ctx)
	if err != nil {
		return err
	}
	defer closer()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger := loggers.Logger(loggers.App)
	logger.WithFields(logrus.Fields{
		"port":   port,
		"height": exec.CurrentChainMeta().Height,
	}).Info("Metrics server started")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	select {
	case <-ctx.Context.Done():
		return server.Close()
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
