package tables

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/thermocycle/pkg/types"
)

// maxJSONLLine bounds a single table line; large PT tables exceed the
// scanner default.
const maxJSONLLine = 64 << 20

// ReadJSONL reads one table per line from r. Blank and malformed lines are
// skipped; the second return value counts the skipped malformed lines.
func ReadJSONL(r io.Reader) ([]types.Table, int, error) {
	var (
		tbls    []types.Table
		skipped int
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxJSONLLine)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var t types.Table
		if err := json.Unmarshal(line, &t); err != nil {
			skipped++
			continue
		}
		tbls = append(tbls, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, fmt.Errorf("scanning tables: %w", err)
	}
	return tbls, skipped, nil
}

// LoadJSONLFile reads a JSONL dataset file and returns a Store over its
// tables.
func LoadJSONLFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	tbls, _, err := ReadJSONL(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(tbls) == 0 {
		return nil, fmt.Errorf("%w: %s", types.ErrNoTables, path)
	}
	return NewStore(tbls), nil
}

// WriteJSONL atomically writes the tables to path, one per line, using the
// temp-file, fsync, rename pattern.
func WriteJSONL(path string, tbls []types.Table) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	fail := func(format string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf(format, err)
	}

	w := bufio.NewWriter(tmp)
	for _, t := range tbls {
		rec, err := json.Marshal(t)
		if err != nil {
			return fail("encoding table: %w", err)
		}
		if _, err := w.Write(rec); err != nil {
			return fail("writing table: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fail("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
