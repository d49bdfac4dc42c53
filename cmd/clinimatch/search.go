package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
)

func newSearchCmd(v *viper.Viper) *cobra.Command {
	var query entities.SpecialistQuery

	cmd := &cobra.Command{
		Use:   "search [text]",
		Short: "Search the specialist catalog",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query.FreeText = strings.Join(args, " ")

			e, err := loadEngine(v)
			if err != nil {
				return err
			}
			resp, err := e.search.Search(cmd.Context(), query)
			if err != nil {
				return err
			}
			printSearchResponse(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	cmd.Flags().StringVarP(&query.Location, "location", "l", "", "city, state or 5-digit ZIP")
	cmd.Flags().StringVarP(&query.RadiusMiles, "radius", "r", "", "radius in miles around a ZIP location")
	cmd.Flags().StringVar(&query.Institution, "institution", "", "institution name")
	cmd.Flags().StringVar(&query.Trials, "trials", "", "clinical trial term")
	cmd.Flags().BoolVar(&query.TelehealthRequired, "telehealth", false, "only specialists offering telehealth")
	cmd.Flags().BoolVar(&query.AcceptingRequired, "accepting", false, "only specialists accepting new patients")

	return cmd
}

func printSearchResponse(w io.Writer, resp *entities.SearchResponse) {
	if resp.ProximityApplied && resp.Origin != nil {
		fmt.Fprintf(w, "Near %.4f, %.4f\n", resp.Origin.Latitude, resp.Origin.Longitude)
	}
	if len(resp.Results) == 0 {
		fmt.Fprintln(w, "No specialists found.")
		return
	}
	for _, r := range resp.Results {
		line := fmt.Sprintf("%-28s %-22s %s", r.Specialist.Name, r.Specialist.Specialty, r.Specialist.Location)
		if r.DistanceMiles != nil {
			line += fmt.Sprintf(" (%.1f mi)", *r.DistanceMiles)
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "%d result(s)\n", len(resp.Results))
}
