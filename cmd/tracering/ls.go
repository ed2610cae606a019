package main

import (
	"fmt"
	"os"
	"path/filepath"

	"code.cloudfoundry.org/bytefmt"
	"fortio.org/safecast"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	tracering "github.com/edgerelay/go-trace-ring"
)

var lsHeader = []string{"PID", "FILE", "SIZE", "SLOTS", "APPENDED", "REQ IDS", "WRAPPED"}

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List trace files and their fill state",
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

		rows, skipped := lsRows(paths)
		if len(rows) > 0 {
			renderTable(os.Stdout, lsHeader, rows, nil)
		}
		for _, msg := range skipped {
			fmt.Println(mutedText.Sprint(msg))
		}
		return nil
	},
}

// lsRows builds one table row per readable trace file. Files that cannot
// be opened are reported separately so a broken file never deforms the
// table.
func lsRows(paths []string) (rows [][]string, skipped []string) {
	for _, path := range paths {
		pid, _ := pidFromName(filepath.Base(path))
		buf, err := tracering.OpenFile(path)
		if err != nil {
			logger.Debug("skipping file", zap.String("path", path), zap.Error(err))
			skipped = append(skipped, fmt.Sprintf("skipped %s: %v", path, err))
			continue
		}
		st := buf.Stats()
		buf.Close()

		size, convErr := safecast.Conv[uint64](st.FileSize)
		if convErr != nil {
			size = 0
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", pid),
			path,
			bytefmt.ByteSize(size),
			fmt.Sprintf("%d", st.Capacity),
			fmt.Sprintf("%d", st.Appended),
			fmt.Sprintf("%d", st.RequestIDs),
			fmt.Sprintf("%v", st.Wrapped),
		})
	}
	return rows, skipped
}
