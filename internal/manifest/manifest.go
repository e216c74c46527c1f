// Package manifest maintains the append-only audit log of generated
// variants. The log is a single YAML sequence file; it is the system of
// record for what has been generated and the only state shared across
// invocations.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"
)

// FileName is the manifest file inside the output directory.
const FileName = "manifest.yaml"

var (
	// ErrWrite means the manifest could not be persisted. The generation
	// itself has already succeeded when this surfaces; the caller decides
	// whether to keep the variant file or retry the append.
	ErrWrite = errors.New("manifest write error")

	// ErrCorrupt means the existing manifest no longer parses as a record
	// sequence. Fatal for the invocation; never papered over.
	ErrCorrupt = fmt.Errorf("%w: corrupt record sequence", ErrWrite)
)

// Record is one immutable entry in the audit log. Entries are never edited
// or removed; a module id may repeat across many records.
type Record struct {
	ModuleID     string `yaml:"module_id" json:"module_id"`
	ModulePath   string `yaml:"module_path" json:"module_path"`
	Audience     string `yaml:"audience" json:"audience"`
	Locale       string `yaml:"locale" json:"locale"`
	OutputFile   string `yaml:"output_file" json:"output_file"`
	GeneratedAt  string `yaml:"generated_at" json:"generated_at"` // UTC, RFC 3339
	Model        string `yaml:"model" json:"model"`
	InputTokens  int    `yaml:"input_tokens" json:"input_tokens"`
	OutputTokens int    `yaml:"output_tokens" json:"output_tokens"`
}

// Log is the manifest file plus the advisory lock guarding its
// read-modify-write cycle.
type Log struct {
	path string
	lock *flock.Flock
}

// New returns a Log rooted at the given output directory.
func New(outputDir string) *Log {
	p := filepath.Join(outputDir, FileName)
	return &Log{path: p, lock: flock.New(p + ".lock")}
}

// Path returns the manifest file location.
func (l *Log) Path() string { return l.path }

// load reads the full record sequence. A missing file is an empty log.
func (l *Log) load() ([]Record, error) {
	b, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrWrite, l.path, err)
	}
	var recs []Record
	if err := yaml.Unmarshal(b, &recs); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, l.path, err)
	}
	return recs, nil
}

// Append adds one record: read the full sequence, append, write a temp
// file, rename over the original. Prior records are preserved exactly; the
// advisory lock keeps at most one append in flight per manifest path.
func (l *Log) Append(rec Record) error {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create manifest dir: %v", ErrWrite, err)
	}

	if err := l.lock.Lock(); err != nil {
		return fmt.Errorf("%w: lock manifest: %v", ErrWrite, err)
	}
	defer l.lock.Unlock()

	recs, err := l.load()
	if err != nil {
		return err
	}
	recs = append(recs, rec)

	out, err := yaml.Marshal(recs)
	if err != nil {
		return fmt.Errorf("%w: marshal records: %v", ErrWrite, err)
	}

	tmp, err := os.CreateTemp(dir, ".manifest-*")
	if err != nil {
		return fmt.Errorf("%w: create temp manifest: %v", ErrWrite, err)
	}
	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: write manifest: %v", ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: close manifest: %v", ErrWrite, err)
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: rename manifest: %v", ErrWrite, err)
	}
	return nil
}

// All returns every record in append order.
func (l *Log) All() ([]Record, error) {
	return l.load()
}

// ForModule returns every record for a module id, oldest first.
func (l *Log) ForModule(id string) ([]Record, error) {
	recs, err := l.load()
	if err != nil {
		return nil, err
	}
	var out []Record
	for _, r := range recs {
		if r.ModuleID == id {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].GeneratedAt < out[j].GeneratedAt
	})
	return out, nil
}
