// Command rawspool sends a file unmodified to a printer through the host
// print spooler.
//
//	rawspool [flags] <printer-name> <payload-file>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/orrn/rawspool/internal/config"
	"github.com/orrn/rawspool/internal/core"
	"github.com/orrn/rawspool/internal/db"
	"github.com/orrn/rawspool/internal/logger"
	"github.com/orrn/rawspool/internal/spooler"
	"github.com/orrn/rawspool/internal/webhook"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, spooler.NewSystemAPI())
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, api spooler.API) int {
	fs := flag.NewFlagSet("rawspool", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", envOr("RAWSPOOL_CONFIG", "rawspool.yaml"), "read configuration from `file`")
	verbose := fs.Bool("v", false, "log debug diagnostics")
	listOnly := fs.Bool("list", false, "list available printers and exit")
	fs.Usage = func() { printUsage(fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "rawspool: %v\n", err)
		return exitUsage
	}
	cfg.ApplyEnv()
	if *verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "rawspool: invalid configuration: %v\n", err)
		return exitUsage
	}

	log, err := newLogger(cfg.Logging, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "rawspool: failed to open log output: %v\n", err)
		return exitUsage
	}
	defer log.Sync()

	flags := spooler.EnumLocal
	if cfg.Spooler.IncludeConnections {
		flags |= spooler.EnumConnections
	}
	enumerator := spooler.NewEnumerator(api, flags, log)
	transmitter := spooler.NewTransmitter(api, spooler.DocInfo{
		DocName:  cfg.Spooler.DocumentName,
		Datatype: cfg.Spooler.Datatype,
	}, log)

	if *listOnly {
		printPrinters(stdout, enumerator.ListDevices())
		return exitOK
	}

	switch fs.NArg() {
	case 0:
		fmt.Fprintln(stderr, "rawspool: no printer name given")
		printUsage(fs)
		return exitUsage
	case 1:
		fmt.Fprintln(stderr, "rawspool: no filename given")
		printUsage(fs)
		return exitUsage
	}
	printerName, payloadPath := fs.Arg(0), fs.Arg(1)

	opts := []core.Option{
		core.WithLogger(log),
		core.WithDocumentName(cfg.Spooler.DocumentName),
	}
	if cfg.History.Enabled {
		store, err := db.Open(db.Config{Path: cfg.History.Path})
		if err != nil {
			log.Warn("job history disabled", zap.String("path", cfg.History.Path), zap.Error(err))
		} else {
			defer store.Close()
			opts = append(opts, core.WithRecorder(store))
		}
	}
	if cfg.Webhook.URL != "" {
		opts = append(opts, core.WithNotifier(webhook.NewSender(webhook.WebhookConfig{
			URL:        cfg.Webhook.URL,
			Secret:     cfg.Webhook.Secret,
			RetryCount: cfg.Webhook.RetryCount,
			RetryDelay: cfg.Webhook.RetryDelay,
			Timeout:    cfg.Webhook.Timeout,
		}, log)))
	}
	pm := core.NewPrinterManager(enumerator, transmitter, opts...)

	printers, err := pm.Resolve(printerName)
	if err != nil {
		fmt.Fprintf(stdout, "'%s' is not available\n", printerName)
		fmt.Fprintln(stdout, "Available printers are:")
		printPrinters(stdout, printers)
		return exitOK
	}

	payload, err := core.ReadPayload(payloadPath)
	if err != nil {
		fmt.Fprintf(stderr, "rawspool: %v\n", err)
		return exitUsage
	}

	job, err := pm.Print(ctx, printerName, payload)
	if err != nil {
		fmt.Fprintf(stderr, "rawspool: %v\n", err)
		return exitFailure
	}

	fmt.Fprintf(stdout, "wrote %d bytes\n", job.BytesWritten)
	return exitOK
}

func newLogger(cfg config.LoggingConfig, stderr io.Writer) (*zap.Logger, error) {
	lc := &logger.Config{
		Level:  cfg.Level,
		Format: cfg.Format,
		Output: cfg.Output,
	}
	if cfg.Output == "" || cfg.Output == "stderr" {
		return logger.NewWithWriter(lc, stderr), nil
	}
	return logger.New(lc)
}

func printPrinters(w io.Writer, printers []string) {
	for i, name := range printers {
		fmt.Fprintf(w, "%d: %s\n", i+1, name)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
