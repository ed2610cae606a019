package tracering

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	opts, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("missing config should not error: %v", err)
	}
	def := DefaultOptions()
	if opts.Dir != def.Dir || opts.Size != def.Size {
		t.Fatalf("missing config should yield defaults, got %+v", opts)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := "dir = \"/var/lib/edgerelay/trace\"\nsize = \"32M\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if opts.Dir != "/var/lib/edgerelay/trace" {
		t.Fatalf("dir: got %q", opts.Dir)
	}
	if opts.Size != 32<<20 {
		t.Fatalf("size: got %d want %d", opts.Size, 32<<20)
	}
}

func TestLoadConfigPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("size = \"1M\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if opts.Dir != DefaultOptions().Dir {
		t.Fatalf("dir should default, got %q", opts.Dir)
	}
	if opts.Size != 1<<20 {
		t.Fatalf("size: got %d", opts.Size)
	}
}

func TestLoadConfigBadSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("size = \"lots\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for unparsable size")
	}
}
