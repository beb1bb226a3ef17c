package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/f1-sectorwalk/log"
	"github.com/mpapenbr/f1-sectorwalk/pkg/export"
	"github.com/mpapenbr/f1-sectorwalk/pkg/resample"
)

var (
	loadDir     string
	loadChannel string
	loadYear    int
)

func newLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "reads saved tables and prints an overview",
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := fmt.Sprintf("%s_*_%s.json", globPart(loadChannel), globYear(loadYear))
			tables, err := LoadDir(loadDir, pattern)
			if err != nil {
				return err
			}
			return printTables(os.Stdout, tables)
		},
	}
	cmd.Flags().StringVarP(&loadDir, "dir", "d", "telemetry", "directory holding the files")
	cmd.Flags().StringVar(&loadChannel, "channel", "", "only files of this channel")
	cmd.Flags().IntVar(&loadYear, "year", 0, "only files of this season")
	return cmd
}

func globPart(s string) string {
	if s == "" {
		return "*"
	}
	return s
}

func globYear(y int) string {
	if y <= 0 {
		return "*"
	}
	return fmt.Sprint(y)
}

// LoadDir reads all tables in dir matching pattern. Unreadable files are
// logged and skipped.
func LoadDir(dir, pattern string) ([]*resample.Table, error) {
	names, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, err
	}
	ret := make([]*resample.Table, 0, len(names))
	for _, name := range names {
		t, err := export.LoadTable(name)
		if err != nil {
			log.Warn("skipping file", log.String("file", name), log.ErrorField(err))
			continue
		}
		ret = append(ret, t)
	}
	return ret, nil
}

func printTables(w io.Writer, tables []*resample.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "YEAR\tEVENT\tSESSION\tCHANNEL\tLAPS\tSAMPLES\tINTERVAL")
	for _, t := range tables {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t%s\n",
			t.Year, t.Event, t.Session, t.Channel, len(t.Columns), t.Samples, t.Interval)
	}
	return tw.Flush()
}
