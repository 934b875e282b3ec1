package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CK6170/sensorcal-go/internal/server"
	"github.com/CK6170/sensorcal-go/modern"
	"github.com/CK6170/sensorcal-go/ui"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

type options struct {
	addr      string
	config    string
	threshold float64
	logLevel  string
}

func createFlagSet(o *options) *pflag.FlagSet {
	pf := pflag.NewFlagSet("server", pflag.ContinueOnError)
	pf.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of server:\nserver [-c calibration.json] [--addr host:port]\n\n%s", pf.FlagUsagesWrapped(10))
	}
	pf.StringVar(&o.addr, "addr", "127.0.0.1:8080", "http listen address")
	pf.StringVarP(&o.config, "config", "c", "", "calibration config (json or yaml); defaults to sensor_0..2.csv in the working directory")
	pf.Float64Var(&o.threshold, "threshold", 0, "override the config THRESHOLD")
	pf.StringVar(&o.logLevel, "log-level", "info", "debug, info, warn or error")
	return pf
}

func parseFlags(args []string) (options, error) {
	var o options
	pf := createFlagSet(&o)
	if err := pf.Parse(args); err != nil {
		return o, err
	}
	if pf.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %v", pf.Args())
	}
	if o.threshold < 0 {
		return o, fmt.Errorf("threshold must be > 0")
	}
	return o, nil
}

func main() {
	o, err := parseFlags(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(o); err != nil {
		ui.L().Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(o options) error {
	level, err := ui.ParseLevel(o.logLevel)
	if err != nil {
		return err
	}
	log := ui.NewLogger(os.Stderr, level)
	ui.SetDefault(log)

	sess, err := modern.Open(o.config)
	if err != nil {
		return err
	}
	if o.threshold > 0 {
		sess.Params.THRESHOLD = o.threshold
	}
	s, err := server.New(sess.Params)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              o.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("serving", "url", "http://"+o.addr+"/", "sensors", len(sess.Params.SENSORS), "threshold", sess.Params.THRESHOLD)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
