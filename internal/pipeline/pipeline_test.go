package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mtat/variantgen/internal/genai"
	"github.com/mtat/variantgen/internal/loader"
	"github.com/mtat/variantgen/internal/manifest"
	"github.com/mtat/variantgen/internal/markdown"
	"github.com/mtat/variantgen/internal/variant"
)

const testMeta = `id: pe-fundamentals-01
title: Prompt Engineering Fundamentals
module_type: concept
course_id: pe-course
version: "1.0"
locale: en-US
learning_objectives:
  - Explain what a prompt is
  - Identify the components of a well-formed prompt
  - Write a basic prompt for a defined task
`

// mockGen is a canned-response Generator that records what it was sent.
type mockGen struct {
	text  string
	err   error
	calls int

	lastSystem string
	lastUser   string
}

func (m *mockGen) Generate(ctx context.Context, system, user string) (*genai.Result, error) {
	m.calls++
	m.lastSystem = system
	m.lastUser = user
	if m.err != nil {
		return nil, m.err
	}
	return &genai.Result{Text: m.text, Model: "mock-model", InputTokens: 1200, OutputTokens: 800}, nil
}

func (m *mockGen) Model() string { return "mock-model" }

func writeModule(t *testing.T, body string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "01-concept")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, loader.BodyFile), []byte(body), 0o644); err != nil {
		t.Fatalf("write body: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, loader.MetaFile), []byte(testMeta), 0o644); err != nil {
		t.Fatalf("write meta: %v", err)
	}
	return dir
}

func fixedClock(p *Pipeline) {
	p.now = func() time.Time { return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC) }
}

func TestRun_EndToEnd(t *testing.T) {
	modDir := writeModule(t, "# Fundamentals\n\nBase content.\n")
	outDir := t.TempDir()
	gen := &mockGen{text: "# Fundamentals (for developers)\n\nAdapted content.\n"}

	p := New(gen, nil)
	out, err := p.Run(context.Background(), Params{
		ModulePath: modDir,
		Audience:   "developer",
		Locale:     "en-US",
		OutputDir:  outDir,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	want := filepath.Join(outDir, "01-concept", "developer-en-US.md")
	if out.OutputFile != want {
		t.Errorf("expected output %s, got %s", want, out.OutputFile)
	}

	fm, err := variant.ReadFrontMatter(out.OutputFile)
	if err != nil {
		t.Fatalf("read front matter: %v", err)
	}
	if fm.ID != "pe-fundamentals-01" || fm.Audience != "developer" || fm.Locale != "en-US" {
		t.Errorf("front matter wrong: %+v", fm)
	}
	if len(fm.LearningObjectives) != 3 {
		t.Errorf("expected 3 learning objectives in front matter, got %d", len(fm.LearningObjectives))
	}

	recs, err := manifest.New(outDir).ForModule("pe-fundamentals-01")
	if err != nil {
		t.Fatalf("manifest: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 manifest record, got %d", len(recs))
	}
	rec := recs[0]
	if rec.Audience != "developer" || rec.Locale != "en-US" || rec.Model != "mock-model" {
		t.Errorf("record fields wrong: %+v", rec)
	}
	if rec.OutputFile != want || rec.ModulePath != modDir {
		t.Errorf("record paths wrong: %+v", rec)
	}
	if rec.InputTokens <= 0 || rec.OutputTokens <= 0 {
		t.Errorf("token counts must be positive: %+v", rec)
	}
}

func TestRun_Deterministic(t *testing.T) {
	modDir := writeModule(t, "Base content.\n")
	outDir := t.TempDir()
	gen := &mockGen{text: "Adapted.\n"}

	p := New(gen, nil)
	fixedClock(p)

	params := Params{ModulePath: modDir, Audience: "developer", Locale: "en-US", OutputDir: outDir}
	first, err := p.Run(context.Background(), params)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b1, _ := os.ReadFile(first.OutputFile)

	second, err := p.Run(context.Background(), params)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	b2, _ := os.ReadFile(second.OutputFile)

	if first.OutputFile != second.OutputFile {
		t.Error("same triple must map to the same path")
	}
	if string(b1) != string(b2) {
		t.Error("identical inputs and provider output must yield byte-identical variants")
	}

	entries, _ := os.ReadDir(filepath.Dir(first.OutputFile))
	if len(entries) != 1 {
		t.Errorf("regeneration must overwrite, not version: %d files", len(entries))
	}
}

func TestRun_ProviderUnavailable(t *testing.T) {
	modDir := writeModule(t, "Base content.\n")
	outDir := t.TempDir()
	gen := &mockGen{err: fmt.Errorf("%w: connection refused", genai.ErrUnavailable)}

	_, err := New(gen, nil).Run(context.Background(), Params{
		ModulePath: modDir,
		Audience:   "developer",
		OutputDir:  outDir,
	})
	if !errors.Is(err, genai.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}

	if _, err := os.Stat(filepath.Join(outDir, "01-concept")); !os.IsNotExist(err) {
		t.Error("failed generation must not write a variant")
	}
	if _, err := os.Stat(manifest.New(outDir).Path()); !os.IsNotExist(err) {
		t.Error("failed generation must not append a manifest record")
	}
}

func TestRun_MalformedModule(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "01-concept")
	os.MkdirAll(dir, 0o755)
	os.WriteFile(filepath.Join(dir, loader.BodyFile), []byte("body"), 0o644)
	os.WriteFile(filepath.Join(dir, loader.MetaFile), []byte("id: x\n"), 0o644)

	outDir := t.TempDir()
	gen := &mockGen{text: "should never be called"}

	_, err := New(gen, nil).Run(context.Background(), Params{
		ModulePath: dir,
		Audience:   "developer",
		OutputDir:  outDir,
	})
	if !errors.Is(err, loader.ErrMalformedModule) {
		t.Fatalf("expected ErrMalformedModule, got %v", err)
	}
	if gen.calls != 0 {
		t.Error("malformed module must not reach the provider")
	}
}

func TestRun_RejectsDoubleFrontMatter(t *testing.T) {
	modDir := writeModule(t, "Base content.\n")
	outDir := t.TempDir()
	gen := &mockGen{text: "---\nid: sneaky\n---\nbody"}

	_, err := New(gen, nil).Run(context.Background(), Params{
		ModulePath: modDir,
		Audience:   "developer",
		OutputDir:  outDir,
	})
	if !errors.Is(err, genai.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "01-concept")); !os.IsNotExist(err) {
		t.Error("rejected generation must not write a variant")
	}
}

func TestRun_PreservesCodeBlocks(t *testing.T) {
	body := "Intro.\n\n```python\ndef greet(name):\n    return f\"Hello, {name}\"\n```\n\nOutro.\n"
	modDir := writeModule(t, body)
	outDir := t.TempDir()

	// Provider echoes the body, as a faithful translation would for code.
	gen := &mockGen{text: body}

	out, err := New(gen, nil).Run(context.Background(), Params{
		ModulePath: modDir,
		Audience:   "developer",
		Locale:     "fr-FR",
		OutputDir:  outDir,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	written, _ := os.ReadFile(out.OutputFile)
	srcBlocks := markdown.CodeBlocks(body)
	outBlocks := markdown.CodeBlocks(string(written))
	if len(outBlocks) != len(srcBlocks) {
		t.Fatalf("expected %d code blocks, got %d", len(srcBlocks), len(outBlocks))
	}
	if outBlocks[0].Text != srcBlocks[0].Text {
		t.Errorf("code block changed:\nwant %q\ngot  %q", srcBlocks[0].Text, outBlocks[0].Text)
	}
}

func TestRun_CustomAudience(t *testing.T) {
	modDir := writeModule(t, "Base content.\n")
	outDir := t.TempDir()
	gen := &mockGen{text: "Adapted.\n"}

	raw := "healthcare compliance officers, EU region"
	out, err := New(gen, nil).Run(context.Background(), Params{
		ModulePath: modDir,
		Audience:   raw,
		OutputDir:  outDir,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if !strings.Contains(gen.lastUser, raw) {
		t.Error("custom audience description must pass through unchanged")
	}
	wantFile := filepath.Join(outDir, "01-concept", "healthcare-compliance-officers-eu-region-en-US.md")
	if out.OutputFile != wantFile {
		t.Errorf("expected %s, got %s", wantFile, out.OutputFile)
	}
	if out.Record.Audience != raw {
		t.Errorf("manifest must record the raw audience, got %q", out.Record.Audience)
	}
}

func TestRun_DefaultLocale(t *testing.T) {
	modDir := writeModule(t, "Base content.\n")
	outDir := t.TempDir()
	gen := &mockGen{text: "Adapted.\n"}

	out, err := New(gen, nil).Run(context.Background(), Params{
		ModulePath: modDir,
		Audience:   "developer",
		OutputDir:  outDir,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Record.Locale != "en-US" {
		t.Errorf("empty locale should fall back to the module default, got %q", out.Record.Locale)
	}
	if strings.Contains(gen.lastUser, "**Locale:**") {
		t.Error("default locale must not add a translation directive")
	}
}

func TestRun_ManifestCorrupt(t *testing.T) {
	modDir := writeModule(t, "Base content.\n")
	outDir := t.TempDir()
	gen := &mockGen{text: "Adapted.\n"}

	log := manifest.New(outDir)
	os.MkdirAll(outDir, 0o755)
	os.WriteFile(log.Path(), []byte("{{ corrupt"), 0o644)

	out, err := New(gen, nil).Run(context.Background(), Params{
		ModulePath: modDir,
		Audience:   "developer",
		OutputDir:  outDir,
	})
	if !errors.Is(err, manifest.ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
	// The generation itself succeeded; the written variant is reported back
	// so the caller can decide what to do with it.
	if out == nil || out.OutputFile == "" {
		t.Fatal("outcome with the written variant must be returned alongside the error")
	}
	if _, statErr := os.Stat(out.OutputFile); statErr != nil {
		t.Errorf("variant file should exist: %v", statErr)
	}
}

func TestRun_SystemPromptSubstitution(t *testing.T) {
	modDir := writeModule(t, "Base content.\n")
	outDir := t.TempDir()
	gen := &mockGen{text: "Adapted.\n"}

	custom := "# Adaptation System Prompt — v9.9\nDo the thing."
	_, err := New(gen, nil).Run(context.Background(), Params{
		ModulePath: modDir,
		Audience:   "developer",
		OutputDir:  outDir,
		System:     custom,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if gen.lastSystem != custom {
		t.Error("system prompt must be a pure substitution")
	}
}
