package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/school-georesolver/internal/domain"
	"github.com/school-georesolver/internal/usecase"
	"github.com/spf13/cobra"
)

const nameWidth = 45

func newResolveCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the school at --lat/--lon",
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

			res, err := rt.Resolver.Resolve(cmd.Context(), point)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}

	addPointFlags(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full result as JSON")

	return cmd
}

// printResult - карточка результата в текстовом виде
func printResult(w io.Writer, r *domain.ResolutionResult) {
	fmt.Fprintf(w, "%s\n", usecase.ShortenName(r.Name, nameWidth))
	fmt.Fprintf(w, "  Tipo:     %s\n", r.Kind)
	fmt.Fprintf(w, "  Setor:    %s (%s)\n", r.Sector.Label, r.Sector.Method)
	fmt.Fprintf(w, "  Endereço: %s\n", r.Address)
	if r.DistMeters != nil {
		fmt.Fprintf(w, "  Distância: %s\n", usecase.FormatDistance(*r.DistMeters))
	}
	if r.Source != "" {
		fmt.Fprintf(w, "  Fonte:    %s\n", r.Source)
	}
	if r.ImageURL != "" {
		fmt.Fprintf(w, "  Foto:     %s\n", r.ImageURL)
	}
	if r.Links.OSMURL != "" {
		fmt.Fprintf(w, "  OSM:      %s\n", r.Links.OSMURL)
	}
	fmt.Fprintf(w, "  Mapa:     %s\n", r.MapsURL())

	if len(r.Candidates) > 1 {
		fmt.Fprintf(w, "  Candidatos:\n")
		for _, c := range r.Candidates {
			fmt.Fprintf(w, "    %-8s %-12s %-*s %s\n",
				c.OriginType, c.OriginID, nameWidth, usecase.ShortenName(c.Name, nameWidth), usecase.FormatDistance(c.DistMeters))
		}
	}
}
