package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	tracering "github.com/edgerelay/go-trace-ring"
)

var (
	dumpFile    string
	dumpCount   int
	dumpErrors  bool
	dumpSlowMS  uint32
	dumpPath    string
	dumpMethods string
)

func init() {
	dumpCmd.Flags().StringVar(&dumpFile, "file", "", "trace file to read (default: newest in the trace dir)")
	dumpCmd.Flags().IntVarP(&dumpCount, "count", "n", 20, "maximum records to show")
	dumpCmd.Flags().BoolVar(&dumpErrors, "errors", false, "only records with status >= 400")
	dumpCmd.Flags().Uint32Var(&dumpSlowMS, "slow", 0, "only records slower than this many milliseconds")
	dumpCmd.Flags().StringVar(&dumpPath, "path", "", "only records for exactly this request path")
	dumpCmd.Flags().StringVar(&dumpMethods, "method", "", "only these methods (comma-separated)")
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Show recent requests from one trace file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := targetFile(dumpFile)
		if err != nil {
			return err
		}
		buf, err := tracering.OpenFile(path)
		if err != nil {
			return err
		}
		defer buf.Close()
		logger.Debug("opened trace file",
			zap.String("path", path),
			zap.Uint64("capacity", buf.Capacity()),
			zap.Uint64("appended", buf.Cursor()))

		pred := dumpPredicate()
		var recs []tracering.TraceRecord
		if pred == nil {
			recs = buf.Recent(dumpCount)
		} else {
			recs = buf.Filter(dumpCount, pred)
		}
		renderRecords(os.Stdout, path, recs)
		return nil
	},
}

// dumpPredicate combines the filter flags, or returns nil when no filter
// is active so the cheaper Recent path is used. The --path filter compares
// full-path hashes, so it matches records whose stored path bytes were
// truncated.
func dumpPredicate() func(*tracering.TraceRecord) bool {
	if !dumpErrors && dumpSlowMS == 0 && dumpPath == "" && dumpMethods == "" {
		return nil
	}
	var pathHash uint64
	if dumpPath != "" {
		pathHash = tracering.HashPath(dumpPath)
	}
	methods := parseMethods(dumpMethods)

	return func(r *tracering.TraceRecord) bool {
		if dumpErrors && !r.IsError() {
			return false
		}
		if dumpSlowMS > 0 && !r.IsSlow(dumpSlowMS) {
			return false
		}
		if dumpPath != "" && r.PathHash() != pathHash {
			return false
		}
		if len(methods) > 0 {
			found := false
			for _, m := range methods {
				if r.Method() == m {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	}
}
