package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"

	tracering "github.com/edgerelay/go-trace-ring"
)

var (
	exportFile   string
	exportCount  int
	exportFormat string
)

func init() {
	exportCmd.Flags().StringVar(&exportFile, "file", "", "trace file to read (default: newest in the trace dir)")
	exportCmd.Flags().IntVarP(&exportCount, "count", "n", 0, "maximum records to export (0 = everything retained)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "output format: json or msgpack")
}

// exportRecord is the decoded, self-describing form of one trace record
// for downstream tooling.
type exportRecord struct {
	Timestamp   uint64 `json:"timestamp" msgpack:"timestamp"`
	RequestID   uint64 `json:"request_id" msgpack:"request_id"`
	Method      string `json:"method" msgpack:"method"`
	Status      uint16 `json:"status" msgpack:"status"`
	LatencyUS   uint32 `json:"latency_us" msgpack:"latency_us"`
	UpstreamUS  uint32 `json:"upstream_latency_us" msgpack:"upstream_latency_us"`
	BytesIn     uint32 `json:"bytes_in" msgpack:"bytes_in"`
	BytesOut    uint32 `json:"bytes_out" msgpack:"bytes_out"`
	TargetIdx   uint8  `json:"target_idx" msgpack:"target_idx"`
	Flags       uint8  `json:"flags" msgpack:"flags"`
	TraceIDHigh uint64 `json:"trace_id_high" msgpack:"trace_id_high"`
	TraceIDLow  uint64 `json:"trace_id_low" msgpack:"trace_id_low"`
	PathHash    uint64 `json:"path_hash" msgpack:"path_hash"`
	Path        string `json:"path" msgpack:"path"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Stream decoded records to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := targetFile(exportFile)
		if err != nil {
			return err
		}
		buf, err := tracering.OpenFile(path)
		if err != nil {
			return err
		}
		defer buf.Close()

		n := exportCount
		if n <= 0 {
			// Everything the ring still retains.
			n = int(buf.Capacity())
		}
		recs := buf.Recent(n)

		switch exportFormat {
		case "json":
			enc := json.NewEncoder(os.Stdout)
			for i := range recs {
				if err := enc.Encode(toExport(&recs[i])); err != nil {
					return err
				}
			}
		case "msgpack":
			enc := msgpack.NewEncoder(os.Stdout)
			for i := range recs {
				if err := enc.Encode(toExport(&recs[i])); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("unknown format %q (want json or msgpack)", exportFormat)
		}
		return nil
	},
}

func toExport(r *tracering.TraceRecord) exportRecord {
	hi, lo := r.TraceID()
	return exportRecord{
		Timestamp:   r.Timestamp(),
		RequestID:   r.RequestID(),
		Method:      r.Method().String(),
		Status:      r.Status(),
		LatencyUS:   r.LatencyUS(),
		UpstreamUS:  r.UpstreamLatencyUS(),
		BytesIn:     r.BytesIn(),
		BytesOut:    r.BytesOut(),
		TargetIdx:   r.TargetIdx(),
		Flags:       r.Flags(),
		TraceIDHigh: hi,
		TraceIDLow:  lo,
		PathHash:    r.PathHash(),
		Path:        r.Path(),
	}
}
