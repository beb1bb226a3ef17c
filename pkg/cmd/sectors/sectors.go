package sectors

import (
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s1"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/f1-sectorwalk/log"
	"github.com/mpapenbr/f1-sectorwalk/pkg/cmd/util"
	"github.com/mpapenbr/f1-sectorwalk/pkg/sector"
)

var (
	year        int
	limit       int
	fastestLaps int
)

func NewSectorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sectors",
		Short: "lists the sectors available for composition",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := util.Context(cmd)
			p, release, err := util.NewProvider()
			if err != nil {
				return err
			}
			defer release()
			dict, report, err := sector.NewBuilder(p, sector.WithBoundaryLaps(fastestLaps)).
				Build(ctx, year, limit)
			if report != nil {
				report.Log(log.Default())
			}
			if err != nil {
				return err
			}
			return Print(os.Stdout, dict)
		},
	}
	cmd.Flags().IntVar(&year, "year", 2022, "season to process")
	cmd.Flags().IntVar(&limit, "limit", 0, "max sector index to collect (0: all)")
	cmd.Flags().IntVar(&fastestLaps, "fastest-laps", sector.DefaultFastestLaps,
		"number of fastest laps used to estimate the sector boundaries")
	return cmd
}

// Print writes one line per sector of the dictionary
func Print(w io.Writer, dict *sector.Dictionary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tPICK\tEVENT\tCIRCUIT\tPOINTS\tENTRY\tEXIT")
	for _, k := range dict.Keys() {
		r := dict.Records[k]
		fmt.Fprintf(tw, "%d\t%d:%d\t%s\t%s\t%d\t%.1f°\t%.1f°\n",
			r.Index, r.EventIndex, r.Sector, r.Event.Name, r.Event.Circuit.Name,
			len(r.Points), heading(r.Entry), heading(r.Exit))
	}
	return tw.Flush()
}

func heading(v r2.Point) float64 {
	return (s1.Angle(math.Atan2(v.Y, v.X)) * s1.Radian).Degrees()
}
