package laps

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/f1-sectorwalk/log"
	"github.com/mpapenbr/f1-sectorwalk/pkg/cmd/util"
	"github.com/mpapenbr/f1-sectorwalk/pkg/model"
	"github.com/mpapenbr/f1-sectorwalk/pkg/provider"
)

type options struct {
	year      int
	round     int
	session   string
	driver    string
	threshold float64
}

var opts options

func NewLapsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "laps",
		Short: "lists the laps of a driver classified as push, skipped, fastest or final",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := util.Context(cmd)
			p, release, err := util.NewProvider()
			if err != nil {
				return err
			}
			defer release()
			res, err := inspect(ctx, p, &opts)
			if err != nil {
				return err
			}
			return Print(os.Stdout, res)
		},
	}
	cmd.Flags().IntVar(&opts.year, "year", 2022, "season")
	cmd.Flags().IntVar(&opts.round, "round", 1, "round of the event")
	cmd.Flags().StringVar(&opts.session, "session", string(model.SessionQualifying),
		"session to inspect")
	cmd.Flags().StringVar(&opts.driver, "driver", "VER", "driver code")
	cmd.Flags().Float64Var(&opts.threshold, "threshold", DefaultThreshold,
		"minimum speed (km/h) of a push lap")
	return cmd
}

func inspect(ctx context.Context, p provider.Provider, o *options) ([]Classified, error) {
	events, err := p.Schedule(ctx, o.year)
	if err != nil {
		return nil, err
	}
	ev, ok := lo.Find(events, func(e model.Event) bool { return e.Round == o.round })
	if !ok {
		return nil, fmt.Errorf("round %d of %d: %w", o.round, o.year, provider.ErrNotFound)
	}
	s, err := p.Session(ctx, &ev, model.SessionKind(o.session))
	if err != nil {
		return nil, err
	}
	drivers, err := p.Drivers(ctx, s)
	if err != nil {
		return nil, err
	}
	d, ok := lo.Find(drivers, func(d model.Driver) bool {
		return strings.EqualFold(d.Code, o.driver)
	})
	if !ok {
		return nil, fmt.Errorf("driver %s in %s: %w", o.driver, ev.Name, provider.ErrNotFound)
	}
	laps, err := p.Laps(ctx, s)
	if err != nil {
		return nil, err
	}
	laps = lo.Filter(laps, func(l model.Lap, _ int) bool {
		return l.DriverNumber == d.Number
	})

	report := provider.NewReport("lap-telemetry")
	tel := map[int]model.Telemetry{}
	for i := range laps {
		t, err := p.LapTelemetry(ctx, s, &laps[i])
		if err != nil {
			if !provider.Skippable(err) {
				return nil, err
			}
			provider.Track(report,
				provider.Skip[model.Telemetry]("lap %d: %v", laps[i].LapNumber, err))
			continue
		}
		tel[laps[i].LapNumber], _ = provider.Track(report, provider.Ok(t))
	}
	report.Log(log.Default().Named("laps"))
	return Classify(laps, tel, o.threshold), nil
}

func Print(w io.Writer, laps []Classified) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LAP\tTIME\tMAX SPEED\tKIND")
	for _, c := range laps {
		lapTime := "-"
		if c.Lap.Duration.IsValue() {
			lapTime = c.Lap.Duration.GetOrZero().String()
		}
		speed := "-"
		if c.MaxSpeed.IsValue() {
			speed = fmt.Sprintf("%.1f", c.MaxSpeed.GetOrZero())
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.Lap.LapNumber, lapTime, speed, c.Kind)
	}
	return tw.Flush()
}
