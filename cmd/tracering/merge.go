package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	tracering "github.com/edgerelay/go-trace-ring"
)

var mergeCount int

func init() {
	mergeCmd.Flags().IntVarP(&mergeCount, "count", "n", 20, "maximum records to show")
}

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge recent requests across all processes' trace files",
	Long: `merge reads every trace.<pid>.bin in the trace directory and interleaves
their records by monotonic timestamp. Timestamps come from the shared
machine clock, so ordering across processes on one machine is meaningful.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := traceDir()
		if err != nil {
			return err
		}
		paths, err := traceFiles(dir)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			fmt.Printf("no trace data in %s\n", dir)
			return nil
		}

		recs, err := mergeRecent(paths, mergeCount)
		if err != nil {
			return err
		}
		renderRecords(os.Stdout, fmt.Sprintf("%s (%d files)", dir, len(paths)), recs)
		return nil
	},
}

// mergeRecent reads up to n recent records from each file concurrently,
// then keeps the n newest across all of them, newest first. Each file is
// independent, so per-file reads need no coordination beyond the join.
func mergeRecent(paths []string, n int) ([]tracering.TraceRecord, error) {
	perFile := make([][]tracering.TraceRecord, len(paths))

	var g errgroup.Group
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			buf, err := tracering.OpenFile(path)
			if err != nil {
				// A vanished or half-written file is not fatal to the merge.
				logger.Debug("skipping file", zap.String("path", path), zap.Error(err))
				return nil
			}
			defer buf.Close()
			perFile[i] = buf.Recent(n)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []tracering.TraceRecord
	for _, recs := range perFile {
		all = append(all, recs...)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Timestamp() > all[j].Timestamp()
	})
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}
