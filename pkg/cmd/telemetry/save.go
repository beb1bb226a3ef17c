package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/f1-sectorwalk/log"
	"github.com/mpapenbr/f1-sectorwalk/pkg/cmd/util"
	"github.com/mpapenbr/f1-sectorwalk/pkg/export"
	"github.com/mpapenbr/f1-sectorwalk/pkg/model"
	"github.com/mpapenbr/f1-sectorwalk/pkg/provider"
	"github.com/mpapenbr/f1-sectorwalk/pkg/resample"
)

type saveOptions struct {
	year      int
	rounds    []int
	session   string
	channel   string
	interval  time.Duration
	samples   int
	drivers   []string
	outputDir string
}

var saveOpts saveOptions

func newSaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save",
		Short: "resamples the laps of each event and writes one file per event",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := util.Context(cmd)
			p, release, err := util.NewProvider()
			if err != nil {
				return err
			}
			defer release()
			return save(ctx, p, &saveOpts)
		},
	}
	cmd.Flags().IntVar(&saveOpts.year, "year", 2022, "season to process")
	cmd.Flags().IntSliceVar(&saveOpts.rounds, "round", []int{},
		"rounds to process (default: all)")
	cmd.Flags().StringVar(&saveOpts.session, "session", string(model.SessionRace),
		"session to resample")
	cmd.Flags().StringVar(&saveOpts.channel, "channel", string(model.ChannelSpeed),
		"telemetry channel (Speed, Throttle, Brake, RPM, Gear, Distance)")
	cmd.Flags().DurationVar(&saveOpts.interval, "interval", resample.DefaultInterval,
		"width of a grid bin")
	cmd.Flags().IntVar(&saveOpts.samples, "samples", 0,
		"number of grid points (0: next power of two of the longest lap)")
	cmd.Flags().StringSliceVar(&saveOpts.drivers, "drivers", []string{},
		"restrict to these driver codes (default: all)")
	cmd.Flags().StringVarP(&saveOpts.outputDir, "output-dir", "o", "telemetry",
		"directory receiving the files")
	return cmd
}

func save(ctx context.Context, p provider.Provider, o *saveOptions) error {
	events, err := p.Schedule(ctx, o.year)
	if err != nil {
		return err
	}
	if len(o.rounds) > 0 {
		events = lo.Filter(events, func(ev model.Event, _ int) bool {
			return lo.Contains(o.rounds, ev.Round)
		})
	}
	c := resample.NewCollector(p,
		resample.WithSessionKind(model.SessionKind(o.session)),
		resample.WithChannel(model.Channel(o.channel)),
		resample.WithInterval(o.interval),
		resample.WithSamples(o.samples),
		resample.WithDrivers(o.drivers...))
	report := provider.NewReport("telemetry-events")
	for i := range events {
		ev := &events[i]
		t, lapReport, err := c.Collect(ctx, ev)
		if lapReport != nil {
			lapReport.Log(log.Default().Named("resample"))
		}
		if err != nil {
			if !errors.Is(err, resample.ErrUnknownChannel) && provider.Skippable(err) {
				provider.Track(report, provider.Skip[string]("%s: %v", ev.Name, err))
				log.Warn("skipping event", log.String("event", ev.Name), log.ErrorField(err))
				continue
			}
			return err
		}
		name, err := export.SaveTable(o.outputDir, t)
		if err != nil {
			return err
		}
		provider.Track(report, provider.Ok(name))
		log.Info("table saved",
			log.String("event", ev.Name),
			log.String("file", name),
			log.Int("laps", len(t.Columns)))
	}
	report.Log(log.Default())
	return nil
}
