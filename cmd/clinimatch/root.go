package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zatekoja/aiclinimatch/internal/adapters/catalog"
	"github.com/zatekoja/aiclinimatch/internal/adapters/providers/geolocation"
	"github.com/zatekoja/aiclinimatch/internal/application/services"
	"github.com/zatekoja/aiclinimatch/internal/domain/providers"
	"github.com/zatekoja/aiclinimatch/internal/infrastructure/observability"
)

const app = "clinimatch"

// engine bundles the services a subcommand needs. Everything runs in process
// against the local catalog files.
type engine struct {
	specialists *catalog.JSONCatalog
	resolver    *services.GeoResolver
	search      *services.SpecialistSearchService
	intake      *services.ReferralIntakeService
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(app)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           app,
		Short:         "clinimatch finds rare-disease specialists from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			env := "development"
			if v.GetBool("json") {
				env = "production"
			}
			observability.InitLogger(app, env)
			if !v.GetBool("debug") {
				zerolog.SetGlobalLevel(zerolog.WarnLevel)
			}
		},
	}

	root.PersistentFlags().String("catalog", "config/specialists.json", "specialist catalog file")
	root.PersistentFlags().String("matches", "config/condition_matches.json", "condition match catalog file")
	root.PersistentFlags().String("geocoder", "zippopotam", `postal code lookup: "zippopotam" or "static"`)
	root.PersistentFlags().String("geocoder-url", "https://api.zippopotam.us", "zippopotam base URL")
	root.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	root.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	for _, name := range []string{"catalog", "matches", "geocoder", "geocoder-url", "debug", "json"} {
		v.BindPFlag(name, root.PersistentFlags().Lookup(name))
	}

	root.AddCommand(newSearchCmd(v), newIntakeCmd(v), newGeocodeCmd(v))
	return root
}

func loadEngine(v *viper.Viper) (*engine, error) {
	specialists, err := catalog.LoadJSONCatalog(v.GetString("catalog"))
	if err != nil {
		return nil, err
	}
	matches, err := services.LoadMatchCatalog(v.GetString("matches"))
	if err != nil {
		return nil, err
	}

	resolver := services.NewGeoResolver(newGeocoder(v))
	ranking := services.NewRankingEngine()

	return &engine{
		specialists: specialists,
		resolver:    resolver,
		search:      services.NewSpecialistSearchService(specialists, resolver, services.NewFilterEngine(), ranking),
		intake:      services.NewReferralIntakeService(services.NewFieldExtractor(), matches, ranking),
	}, nil
}

func newGeocoder(v *viper.Viper) providers.PostalCodeGeocoder {
	if v.GetString("geocoder") == "static" {
		return geolocation.NewStaticProvider(nil)
	}
	return geolocation.NewZippopotamProviderWithOptions(geolocation.ZippopotamOptions{
		BaseURL:    v.GetString("geocoder-url"),
		HTTPClient: &http.Client{Timeout: 8 * time.Second},
	})
}
