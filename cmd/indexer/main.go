package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/aiclinimatch/internal/adapters/catalog"
	"github.com/zatekoja/aiclinimatch/internal/adapters/search"
	"github.com/zatekoja/aiclinimatch/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/aiclinimatch/internal/infrastructure/observability"
	"github.com/zatekoja/aiclinimatch/pkg/config"
)

func main() {
	var reset bool
	var intervalFlag string
	var verify string
	flag.BoolVar(&reset, "reset", false, "delete the specialists collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.StringVar(&verify, "verify", "", "run this query against the index after indexing")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger(cfg.OTEL.ServiceName+"-indexer", cfg.Env)

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatal().Err(err).Str("interval", intervalValue).Msg("invalid interval")
		}
		if interval <= 0 {
			log.Fatal().Msg("interval must be greater than zero")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, cfg, reset, verify); err != nil {
			log.Error().Err(err).Msg("reindex failed")
		}

		if interval <= 0 {
			break
		}

		reset = false
		log.Info().Dur("next_run_in", interval).Msg("reindex complete")

		select {
		case <-ctx.Done():
			log.Info().Msg("reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context, cfg *config.Config, reset bool, verify string) error {
	// The catalog file is re-read each run so edits are picked up.
	specialists, err := catalog.LoadJSONCatalog(cfg.Catalog.SpecialistsPath)
	if err != nil {
		return err
	}

	tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
	if err != nil {
		return err
	}

	if reset || os.Getenv("RESET_TYPESENSE") == "true" {
		log.Info().Str("collection", typesense.SpecialistsCollection).Msg("deleting collection before reindex")
		if _, err := tsClient.Client().Collection(typesense.SpecialistsCollection).Delete(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to delete collection")
		}
	}

	if err := tsClient.InitSchema(ctx); err != nil {
		return err
	}

	all, err := specialists.All(ctx)
	if err != nil {
		return err
	}

	adapter := search.NewTypesenseAdapter(tsClient)
	indexed := 0
	for _, s := range all {
		if err := adapter.Index(ctx, s); err != nil {
			log.Warn().Err(err).Str("specialist_id", s.ID).Msg("failed to index specialist")
			continue
		}
		indexed++
	}
	log.Info().Int("indexed", indexed).Int("total", len(all)).Msg("specialists indexed")

	if verify != "" {
		ids, err := adapter.Search(ctx, search.SearchParams{Text: verify, Limit: 10})
		if err != nil {
			return fmt.Errorf("verify search failed: %w", err)
		}
		log.Info().Str("query", verify).Strs("ids", ids).Msg("verify search")
	}

	return nil
}
