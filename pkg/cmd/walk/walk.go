package walk

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/f1-sectorwalk/log"
	"github.com/mpapenbr/f1-sectorwalk/pkg/cmd/util"
	"github.com/mpapenbr/f1-sectorwalk/pkg/compose"
	"github.com/mpapenbr/f1-sectorwalk/pkg/config"
	"github.com/mpapenbr/f1-sectorwalk/pkg/export"
	"github.com/mpapenbr/f1-sectorwalk/pkg/sector"
)

var appConfig config.Config // holds processed config values

func NewWalkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "walk",
		Short: "composes a track from sectors of a season's circuits",
		Long: `Collects the sectors of the qualifying laps of a season and stitches
a selection of them into one continuous track.

Sectors are picked randomly (--count, --seed) or explicitly by
--pick eventIndex:sector (event index is 0-based, sector 1..3).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd)
		},
	}
	cmd.Flags().IntVar(&appConfig.Year, "year", 2022, "season to process")
	cmd.Flags().IntVar(&appConfig.Limit, "limit", 0,
		"max sector index to collect (0: all)")
	cmd.Flags().IntVar(&appConfig.Count, "count", 0,
		"number of randomly picked sectors (0: all)")
	cmd.Flags().Uint64Var(&appConfig.Seed, "seed", 0,
		"seed for the random selection (0: time based)")
	cmd.Flags().StringSliceVar(&appConfig.Picks, "pick", []string{},
		"explicit picks as eventIndex:sector")
	cmd.Flags().IntVar(&appConfig.FastestLaps, "fastest-laps", sector.DefaultFastestLaps,
		"number of fastest laps used to estimate the sector boundaries")
	cmd.Flags().StringVarP(&appConfig.Output, "output", "o", "",
		"output file (default stdout)")
	cmd.Flags().StringVar(&appConfig.Format, "format", export.FormatJSON,
		"output format (json, csv)")
	cmd.Flags().BoolVar(&appConfig.IncludeJoint, "include-junction", false,
		"keep the duplicate point where two sectors meet")
	cmd.Flags().BoolVar(&appConfig.Precomputed, "precomputed-vectors", false,
		"align sectors by their recorded entry/exit vectors")
	return cmd
}

func run(cmd *cobra.Command) error {
	ctx := util.Context(cmd)
	p, release, err := util.NewProvider()
	if err != nil {
		return err
	}
	defer release()

	dict, report, err := sector.NewBuilder(p, sector.WithBoundaryLaps(appConfig.FastestLaps)).
		Build(ctx, appConfig.Year, appConfig.Limit)
	if report != nil {
		report.Log(log.Default())
	}
	if err != nil {
		return err
	}

	sel := compose.Selection{Count: appConfig.Count, Seed: appConfig.Seed}
	if sel.EventIndexes, sel.Sectors, err = ParsePicks(appConfig.Picks); err != nil {
		log.Warn("invalid picks, using random selection", log.ErrorField(err))
		sel.EventIndexes, sel.Sectors = nil, nil
	}
	records, err := compose.Select(dict, sel)
	if err != nil {
		return err
	}
	opts := []compose.Option{compose.WithJunctionPoint(appConfig.IncludeJoint)}
	if appConfig.Precomputed {
		opts = append(opts, compose.WithPrecomputedVectors())
	}
	track, err := compose.Compose(records, opts...)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if appConfig.Output != "" {
		f, err := os.Create(appConfig.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := export.WriteTrack(w, appConfig.Format, dict, records, track); err != nil {
		return err
	}
	log.Info("track composed",
		log.Int("sectors", len(records)),
		log.Int("points", len(track.Points)),
		log.String("output", appConfig.Output))
	return nil
}

// ParsePicks splits "eventIndex:sector" values into parallel slices
func ParsePicks(picks []string) (eventIndexes, sectors []int, err error) {
	for _, p := range picks {
		ev, sec, found := strings.Cut(p, ":")
		if !found {
			return nil, nil, fmt.Errorf("pick %q: expected eventIndex:sector", p)
		}
		e, err := strconv.Atoi(strings.TrimSpace(ev))
		if err != nil {
			return nil, nil, fmt.Errorf("pick %q: %w", p, err)
		}
		s, err := strconv.Atoi(strings.TrimSpace(sec))
		if err != nil {
			return nil, nil, fmt.Errorf("pick %q: %w", p, err)
		}
		eventIndexes = append(eventIndexes, e)
		sectors = append(sectors, s)
	}
	return eventIndexes, sectors, nil
}
