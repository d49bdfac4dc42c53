package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zatekoja/aiclinimatch/internal/application/services"
	apperrors "github.com/zatekoja/aiclinimatch/pkg/errors"
)

func newGeocodeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "geocode <zip>",
		Short: "Resolve a 5-digit US postal code to coordinates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !services.IsPostalCode(args[0]) {
				return apperrors.NewInvalidInputError(fmt.Sprintf("%q is not a 5-digit postal code", args[0]))
			}
			resolver := services.NewGeoResolver(newGeocoder(v))
			coord, err := resolver.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.4f\t%.4f\n", args[0], coord.Latitude, coord.Longitude)
			return nil
		},
	}
}
