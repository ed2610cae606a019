package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	tracering "github.com/edgerelay/go-trace-ring"
)

var rootCmd = &cobra.Command{
	Use:   "tracering",
	Short: "Inspect request-trace ring buffers",
	Long: `tracering decodes the memory-mapped trace files written by the proxy
(one trace.<pid>.bin per process) and renders recent traffic: latency,
status, byte counts and paths. It only ever maps files read-only.`,
	SilenceUsage: true,
}

var (
	flagDir     string
	flagConfig  string
	flagVerbose bool

	logger = zap.NewNop()
)

func main() {
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(exportCmd)

	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "trace directory (default: config file, then per-tool config dir)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config.toml")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if flagVerbose {
			l, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			logger = l
		}
		return nil
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// traceDir resolves the directory to inspect: --dir beats the config file,
// which beats the library default.
func traceDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}
	cfgPath := flagConfig
	if cfgPath == "" {
		cfgPath = filepath.Join(tracering.DefaultOptions().Dir, "config.toml")
	}
	opts, err := tracering.LoadConfig(cfgPath)
	if err != nil {
		return "", err
	}
	logger.Debug("resolved trace directory", zap.String("dir", opts.Dir), zap.String("config", cfgPath))
	return opts.Dir, nil
}
