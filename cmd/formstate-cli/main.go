package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/goliatone/go-formstate/internal/config"
	"github.com/goliatone/go-formstate/internal/logging"
	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/memstore"
	"github.com/goliatone/go-formstate/pkg/session"
)

func main() {
	configPath := flag.String("config", "session.yaml", "session file describing fields and initial values")
	output := flag.String("output", "", "output file (stdout if empty)")
	format := flag.String("format", "", "output format override: json, yaml or pretty")
	flag.Parse()

	logger := logging.Configure(logging.ProfileRuntime, os.Stderr, "formstate-cli")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load session config")
	}

	store := memstore.New(cfg.InitialValues, memstore.WithLogger(logger))
	defer store.Close()

	options := []formstate.Option{formstate.WithLogger(logger)}
	if eager, ok := cfg.EagerOptions(); ok {
		options = append(options, formstate.WithEagerValidation(eager))
	}
	if cfg.Sanitize {
		options = append(options, formstate.WithMarkupSanitizer())
	}
	sync, err := formstate.New(store, options...)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build synchronizer")
	}

	outputFormat := cfg.OutputFormat()
	if *format != "" {
		outputFormat = session.OutputFormat(*format)
	}
	sess, err := session.New(sync, cfg.SessionFields(), session.WithOutputFormat(outputFormat))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build session")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	payload, err := sess.Run(ctx)
	if errors.Is(err, session.ErrAborted) || errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "aborted")
		os.Exit(130)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("session failed")
	}

	if *output != "" {
		if err := os.WriteFile(*output, payload, 0o644); err != nil {
			logger.Fatal().Err(err).Msg("failed to write output")
		}
		fmt.Fprintf(os.Stderr, "Payload (%s) written to %s\n", sess.ContentType(), *output)
		return
	}
	os.Stdout.Write(payload)
}
