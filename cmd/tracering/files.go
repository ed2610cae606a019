package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// traceFiles lists the per-process trace files in dir, newest modification
// first. An absent directory yields an empty list, not an error: it just
// means no process has traced yet.
func traceFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := pidFromName(e.Name()); ok {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}

	sort.Slice(paths, func(i, j int) bool {
		return fileModTime(paths[i]) > fileModTime(paths[j])
	})
	return paths, nil
}

// pidFromName extracts the process id from a "trace.<pid>.bin" file name.
func pidFromName(name string) (int, bool) {
	rest, ok := strings.CutPrefix(name, "trace.")
	if !ok {
		return 0, false
	}
	rest, ok = strings.CutSuffix(rest, ".bin")
	if !ok {
		return 0, false
	}
	pid, err := strconv.Atoi(rest)
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

func fileModTime(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.ModTime().UnixNano()
}

// targetFile picks the file to inspect: an explicit --file wins, otherwise
// the most recently written file in the trace directory.
func targetFile(file string) (string, error) {
	if file != "" {
		return file, nil
	}
	dir, err := traceDir()
	if err != nil {
		return "", err
	}
	paths, err := traceFiles(dir)
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", fmt.Errorf("no trace data in %s", dir)
	}
	return paths[0], nil
}
