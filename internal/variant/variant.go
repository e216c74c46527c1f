// Package variant renders and writes generated variant documents.
package variant

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mtat/variantgen/internal/genai"
	"github.com/mtat/variantgen/internal/markdown"
	"github.com/mtat/variantgen/internal/model"
)

// FrontMatter is the YAML header injected at the top of every variant.
type FrontMatter struct {
	ID                 string   `yaml:"id"`
	Title              string   `yaml:"title"`
	ModuleType         string   `yaml:"module_type"`
	CourseID           string   `yaml:"course_id"`
	Version            string   `yaml:"version"`
	Audience           string   `yaml:"audience"`
	Locale             string   `yaml:"locale"`
	LearningObjectives []string `yaml:"learning_objectives"`
	Tags               []string `yaml:"tags,omitempty"`
	GeneratedFrom      string   `yaml:"generated_from"`
	GeneratedAt        string   `yaml:"generated_at"`
}

// NewFrontMatter builds the header from module metadata plus the adaptation
// parameters of this generation.
func NewFrontMatter(meta model.Metadata, audience, locale string, generatedAt time.Time) FrontMatter {
	return FrontMatter{
		ID:                 meta.ID,
		Title:              meta.Title,
		ModuleType:         string(meta.ModuleType),
		CourseID:           meta.CourseID,
		Version:            meta.Version,
		Audience:           audience,
		Locale:             locale,
		LearningObjectives: meta.LearningObjectives,
		Tags:               meta.Tags,
		GeneratedFrom:      "base",
		GeneratedAt:        generatedAt.UTC().Format(time.RFC3339),
	}
}

// Slug converts an audience name into a filesystem-safe path segment.
// Lowercase, runs of anything outside [a-z0-9] collapse to a single hyphen.
func Slug(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	lastHyphen := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// Path returns the output file for a (module, audience, locale) triple.
// It is a pure function of its inputs: regenerating the same triple
// overwrites the same file.
func Path(outputDir, moduleDir, audience, locale string) string {
	return filepath.Join(outputDir, moduleDir, Slug(audience)+"-"+locale+".md")
}

// Render prepends front matter to the generated body. A body that already
// opens with a front-matter delimiter is a malformed generation and is
// rejected rather than double-wrapped.
func Render(fm FrontMatter, body string) (string, error) {
	if markdown.HasFrontMatter(body) {
		return "", fmt.Errorf("%w: generated content already begins with a front-matter delimiter", genai.ErrRejected)
	}
	head, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("marshal front matter: %w", err)
	}
	return "---\n" + string(head) + "---\n\n" + body, nil
}

// ReadFrontMatter parses the front-matter header of a written variant file.
func ReadFrontMatter(path string) (*FrontMatter, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc := string(b)
	if !markdown.HasFrontMatter(doc) {
		return nil, fmt.Errorf("%s: no front matter", path)
	}
	rest := strings.TrimPrefix(doc, "---\n")
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return nil, fmt.Errorf("%s: unterminated front matter", path)
	}
	var fm FrontMatter
	if err := yaml.Unmarshal([]byte(rest[:end+1]), &fm); err != nil {
		return nil, fmt.Errorf("%s: parse front matter: %w", path, err)
	}
	return &fm, nil
}

// Write writes the finished document atomically: temp file in the target
// directory, then rename. Either a complete file lands at path or nothing
// changes.
func Write(path, doc string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create variant dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".variant-*")
	if err != nil {
		return fmt.Errorf("create temp variant: %w", err)
	}
	if _, err := tmp.WriteString(doc); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write variant: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close variant: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename variant: %w", err)
	}
	return nil
}
