// Package loader reads content modules from disk.
//
// A module directory holds exactly two artifacts: base.md (free-text body)
// and metadata.yaml (the structured record described in model.Metadata).
// Loading is purely read-only and validates eagerly so that nothing
// malformed reaches prompt composition.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mtat/variantgen/internal/model"
)

const (
	// BodyFile is the module's free-text content artifact.
	BodyFile = "base.md"
	// MetaFile is the module's structured metadata artifact.
	MetaFile = "metadata.yaml"
)

var (
	// ErrModuleNotFound means the module path does not exist or is not a directory.
	ErrModuleNotFound = errors.New("module not found")
	// ErrMalformedModule means an artifact is missing, unparseable, or fails
	// schema validation.
	ErrMalformedModule = errors.New("malformed module")
)

// Module directories are conventionally sequence-prefixed, e.g. 01-concept.
var seqPrefix = regexp.MustCompile(`^(\d+)-`)

// Load reads the module at dir and validates it.
func Load(dir string) (*model.Module, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, dir)
	}

	body, err := os.ReadFile(filepath.Join(dir, BodyFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: missing %s", ErrMalformedModule, dir, BodyFile)
	}

	raw, err := os.ReadFile(filepath.Join(dir, MetaFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: missing %s", ErrMalformedModule, dir, MetaFile)
	}

	var meta model.Metadata
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("%w: %s: %s: %v", ErrMalformedModule, dir, MetaFile, err)
	}
	if err := meta.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedModule, dir, err)
	}

	base := filepath.Base(filepath.Clean(dir))
	if err := checkSequence(base, meta.ID); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedModule, dir, err)
	}

	return &model.Module{
		Path: dir,
		Dir:  base,
		Body: string(body),
		Meta: meta,
	}, nil
}

// checkSequence ties the metadata id to the module's location. Directory
// names carry a sequence prefix (01-concept) while ids are course-scoped
// (pe-fundamentals-01); the id must end with the directory's sequence.
func checkSequence(dirName, id string) error {
	m := seqPrefix.FindStringSubmatch(dirName)
	if m == nil {
		return nil
	}
	if !strings.HasSuffix(id, "-"+m[1]) {
		return fmt.Errorf("id %q does not match directory sequence %q", id, dirName)
	}
	return nil
}
