package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/aiclinimatch/internal/adapters/catalog"
	"github.com/zatekoja/aiclinimatch/internal/adapters/providers/geolocation"
	"github.com/zatekoja/aiclinimatch/internal/application/services"
	"github.com/zatekoja/aiclinimatch/internal/evaluation"
	"github.com/zatekoja/aiclinimatch/internal/infrastructure/observability"
	"github.com/zatekoja/aiclinimatch/pkg/config"
)

func main() {
	goldenPath := flag.String("golden", "config/golden_queries.json", "golden query file")
	minRecall := flag.Float64("min-recall", 0.9, "minimum average recall@10")
	minMRR := flag.Float64("min-mrr", 0.8, "minimum average MRR@10")
	minHitRate := flag.Float64("min-hit-rate", 1.0, "minimum share of queries with results")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger(cfg.OTEL.ServiceName+"-evaluate", cfg.Env)

	specialists, err := catalog.LoadJSONCatalog(cfg.Catalog.SpecialistsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load specialist catalog")
	}

	// Postal codes come from the static table so runs are reproducible offline.
	resolver := services.NewGeoResolver(geolocation.NewStaticProvider(nil))
	searchService := services.NewSpecialistSearchService(specialists, resolver, services.NewFilterEngine(), services.NewRankingEngine())

	queries, err := evaluation.LoadGoldenQueries(*goldenPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load golden queries")
	}
	if err := evaluation.ValidateGoldenQueries(queries); err != nil {
		log.Fatal().Err(err).Msg("invalid golden queries")
	}

	summary, err := evaluation.NewRunner(searchService).Run(context.Background(), queries)
	if err != nil {
		log.Fatal().Err(err).Msg("evaluation failed")
	}

	out, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(out))

	guardrails := evaluation.NewGuardrails(evaluation.GuardrailConfig{
		MinAvgRecall: *minRecall,
		MinAvgMRR:    *minMRR,
		MinHitRate:   *minHitRate,
	})
	if violations := guardrails.Check(summary); len(violations) > 0 {
		for _, v := range violations {
			log.Error().Str("violation", v).Msg("search quality below threshold")
		}
		os.Exit(1)
	}
}
