package cli

import (
	"fmt"

	"github.com/school-georesolver/internal/domain"
	"github.com/spf13/cobra"
)

func newSelectCmd() *cobra.Command {
	var originType, originID string

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Pin an OSM object (node/way/relation) to --lat/--lon",
		RunE: func(cmd *cobra.Command, args []string) error {
			point, err := pointFlags(cmd)
			if err != nil {
				return err
			}

			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer closeRuntime(rt)

			if err := rt.Resolver.SaveOverride(cmd.Context(), point, originType, originID); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Seleção salva: %s/%s em %s\n", originType, originID, point.Key())
			return nil
		},
	}

	addPointFlags(cmd)
	cmd.Flags().StringVar(&originType, "type", "", "OSM type: node, way or relation")
	cmd.Flags().StringVar(&originID, "id", "", "OSM id")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newForgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forget",
		Short: "Remove the pinned selection for --lat/--lon",
		RunE: func(cmd *cobra.Command, args []string) error {
			point, err := pointFlags(cmd)
			if err != nil {
				return err
			}

			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer closeRuntime(rt)

			if err := rt.Resolver.RemoveOverride(cmd.Context(), point); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Seleção removida em %s\n", point.Key())
			return nil
		},
	}

	addPointFlags(cmd)

	return cmd
}

func addPointFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("lat", 0, "Latitude")
	cmd.Flags().Float64("lon", 0, "Longitude")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
}

func pointFlags(cmd *cobra.Command) (domain.Point, error) {
	lat, err := cmd.Flags().GetFloat64("lat")
	if err != nil {
		return domain.Point{}, err
	}
	lon, err := cmd.Flags().GetFloat64("lon")
	if err != nil {
		return domain.Point{}, err
	}

	p := domain.Point{Lat: lat, Lon: lon}
	if !p.Valid() {
		return domain.Point{}, fmt.Errorf("invalid coordinates %.6f,%.6f", lat, lon)
	}
	return p, nil
}
