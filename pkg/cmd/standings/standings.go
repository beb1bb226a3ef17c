package standings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/f1-sectorwalk/pkg/cmd/util"
	"github.com/mpapenbr/f1-sectorwalk/pkg/config"
	"github.com/mpapenbr/f1-sectorwalk/pkg/repository"
	"github.com/mpapenbr/f1-sectorwalk/pkg/repository/analysis"
)

var year int

func NewStandingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "standings",
		Short: "prints the championship standings and the champion's best weekend",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := util.Context(cmd)
			pool, err := util.NewPool(ctx, config.DB)
			if err != nil {
				return err
			}
			defer pool.Close()
			return Print(ctx, os.Stdout, pool, year)
		},
	}
	cmd.Flags().IntVar(&year, "year", 2022, "season to evaluate")
	return cmd
}

// Print writes the standings of year followed by the leader's best weekend
func Print(ctx context.Context, w io.Writer, conn repository.Querier, year int) error {
	standings, err := analysis.Standings(ctx, conn, year)
	if err != nil {
		return err
	}
	if len(standings) == 0 {
		fmt.Fprintf(w, "no results for %d\n", year)
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "POS\tDRIVER\tNAME\tPOINTS\t")
	for _, s := range standings {
		fmt.Fprintf(tw, "%d\t%s\t%s %s\t%s\t\n",
			s.Position, s.DriverCode, s.FirstName, s.LastName, s.Points.String())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	leader := standings[0]
	best, err := analysis.BestWeekend(ctx, conn, year, leader.DriverCode)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nbest weekend of %s: %s (%s, %s, %s) with %s points\n",
		leader.DriverCode, best.EventName, best.Location, best.Format,
		best.RaceDate.Format("2006-01-02"), best.Points.String())
	return nil
}
