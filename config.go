package tracering

import (
	"fmt"
	"os"

	"code.cloudfoundry.org/bytefmt"
	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
)

// Config is the optional TOML config file shared by the proxy host and the
// reader CLI, e.g.:
//
//	dir = "/var/lib/edgerelay/trace"
//	size = "32M"
//
// Both fields are optional; empty means use the built-in default.
type Config struct {
	Dir  string `toml:"dir"`
	Size string `toml:"size"` // human-readable byte size, e.g. "16M", "1G"
}

// LoadConfig reads path and resolves it against DefaultOptions. A missing
// file is not an error: defaults apply unchanged.
func LoadConfig(path string) (Options, error) {
	opts := DefaultOptions()

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return opts, fmt.Errorf("decode %s: %w", path, err)
	}

	if cfg.Dir != "" {
		opts.Dir = cfg.Dir
	}
	if cfg.Size != "" {
		n, err := bytefmt.ToBytes(cfg.Size)
		if err != nil {
			return opts, fmt.Errorf("parse size %q: %w", cfg.Size, err)
		}
		size, err := safecast.Conv[int64](n)
		if err != nil {
			return opts, fmt.Errorf("size %q out of range: %w", cfg.Size, err)
		}
		opts.Size = size
	}
	return opts, nil
}
