package adapter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	m "gooze.dev/pkg/covfold/internal/model"
)

// IstanbulData is the aggregate coverage file produced by the JS-style
// instrumentation tool: a single JSON object mapping source paths to
// coverage entries. Entries are kept as raw JSON so the statement and
// branch tables pass through untouched; only the map key and the entry's
// embedded "path" field are ever rewritten.
type IstanbulData map[string]json.RawMessage

// istanbulPathField is the embedded per-entry field that duplicates the
// map key and must be remapped independently.
const istanbulPathField = "path"

// IstanbulFile reads and rewrites the JS tool's aggregate coverage file.
type IstanbulFile interface {
	Load(path m.Path) (IstanbulData, error)
	// Save overwrites the coverage file in place. The write is atomic
	// (temp file + rename) so an interrupted run never leaves a
	// half-written file behind.
	Save(path m.Path, data IstanbulData) error
}

// LocalIstanbulFile is the disk-backed IstanbulFile implementation.
type LocalIstanbulFile struct{}

// NewLocalIstanbulFile constructs a LocalIstanbulFile.
func NewLocalIstanbulFile() *LocalIstanbulFile {
	return &LocalIstanbulFile{}
}

// Load decodes the aggregate coverage file.
func (f *LocalIstanbulFile) Load(path m.Path) (IstanbulData, error) {
	raw, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("read coverage data: %w", err)
	}

	var data IstanbulData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode coverage data %s: %w", path, err)
	}

	return data, nil
}

// Save writes the coverage file atomically.
func (f *LocalIstanbulFile) Save(path m.Path, data IstanbulData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode coverage data: %w", err)
	}

	dir := filepath.Dir(string(path))

	tmp, err := os.CreateTemp(dir, ".covfold-*.json")
	if err != nil {
		return fmt.Errorf("create temp coverage file: %w", err)
	}

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("write temp coverage file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp coverage file: %w", err)
	}

	if err := os.Rename(tmp.Name(), string(path)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace coverage file: %w", err)
	}

	return nil
}

// RemapEntry rewrites the entry's embedded "path" field using the rule
// set. Entries without a string "path" field pass through unchanged.
func RemapEntry(entry json.RawMessage, rules m.RuleSet) (json.RawMessage, bool, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(entry, &fields); err != nil {
		return nil, false, fmt.Errorf("decode coverage entry: %w", err)
	}

	rawPath, ok := fields[istanbulPathField]
	if !ok {
		return entry, false, nil
	}

	var embedded string
	if err := json.Unmarshal(rawPath, &embedded); err != nil {
		return entry, false, nil
	}

	remapped, changed := rules.Apply(embedded)
	if !changed {
		return entry, false, nil
	}

	encoded, err := json.Marshal(remapped)
	if err != nil {
		return nil, false, fmt.Errorf("encode coverage entry path: %w", err)
	}

	fields[istanbulPathField] = encoded

	rewritten, err := json.Marshal(fields)
	if err != nil {
		return nil, false, fmt.Errorf("encode coverage entry: %w", err)
	}

	return rewritten, true, nil
}
