// Package jsonfile writes values as JSON files atomically.
//
// The document is streamed into a temporary file in the target directory,
// synced, and renamed over the target path, so readers see either the old
// file or the complete new one. The file holds the JSON text followed by a
// single LF.
package jsonfile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lattice-substrate/json-mapper/jsonmap"
)

// WriteFile writes v to path through m. A failure of the mapper is returned
// as it came from the mapper: a *jsonerr.MappingError, or the I/O error of
// the temporary file unchanged. The temporary file is removed on any failure.
func WriteFile(path string, m *jsonmap.Mapper, v any) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".jsonmap-*.tmp")
	if err != nil {
		return fmt.Errorf("jsonfile: create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err := m.Write(bw, v); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}

	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("jsonfile: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("jsonfile: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("jsonfile: rename temp to final: %w", err)
	}
	success = true

	syncDir(dir)
	return nil
}

// syncDir attempts to fsync the directory for crash-consistent durability.
// Errors are ignored.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
