// Package pipeline wires the generation stages together:
// load → compose → generate → format → record.
//
// One module per run, strictly sequential, no retries. A failed run leaves
// no variant file and no manifest record; the only exception is a manifest
// append failure after the variant has already been written, which is
// surfaced together with the written file so the caller can decide.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mtat/variantgen/internal/genai"
	"github.com/mtat/variantgen/internal/loader"
	"github.com/mtat/variantgen/internal/manifest"
	"github.com/mtat/variantgen/internal/model"
	"github.com/mtat/variantgen/internal/prompt"
	"github.com/mtat/variantgen/internal/variant"
)

// Params describes one adaptation request.
type Params struct {
	ModulePath string
	Audience   string // preset name or free-text description
	Locale     string // BCP 47; empty means the module default locale
	OutputDir  string
	System     string // system prompt text; empty means prompt.DefaultSystem()
}

// Outcome reports what a run produced.
type Outcome struct {
	Module     *model.Module
	OutputFile string
	Record     manifest.Record
}

// Pipeline runs adaptation requests against one generator.
type Pipeline struct {
	gen genai.Generator
	log *zap.Logger
	now func() time.Time
}

// New creates a pipeline. A nil logger disables logging.
func New(gen genai.Generator, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{gen: gen, log: logger, now: time.Now}
}

// Run executes one generation end to end and returns the written variant
// and its manifest record. When the manifest append fails after the variant
// file has been written, Run returns both a non-nil Outcome and the error.
func (p *Pipeline) Run(ctx context.Context, params Params) (*Outcome, error) {
	aud, err := prompt.ResolveAudience(params.Audience)
	if err != nil {
		return nil, err
	}

	mod, err := loader.Load(params.ModulePath)
	if err != nil {
		return nil, err
	}

	locale := params.Locale
	if locale == "" {
		locale = mod.Meta.DefaultLocaleTag()
	}
	system := params.System
	if system == "" {
		system = prompt.DefaultSystem()
	}

	req := prompt.Compose(mod, aud, locale, system)

	p.log.Info("calling provider",
		zap.String("module", mod.Meta.ID),
		zap.String("audience", aud.Name),
		zap.String("locale", locale),
		zap.String("model", p.gen.Model()),
	)

	res, err := p.gen.Generate(ctx, req.System, req.User)
	if err != nil {
		return nil, err
	}

	p.log.Info("generation complete",
		zap.String("model", res.Model),
		zap.Int("input_tokens", res.InputTokens),
		zap.Int("output_tokens", res.OutputTokens),
	)

	now := p.now().UTC()
	fm := variant.NewFrontMatter(mod.Meta, aud.Name, locale, now)
	doc, err := variant.Render(fm, res.Text)
	if err != nil {
		return nil, err
	}

	outFile := variant.Path(params.OutputDir, mod.Dir, aud.Name, locale)
	if err := variant.Write(outFile, doc); err != nil {
		return nil, err
	}

	rec := manifest.Record{
		ModuleID:     mod.Meta.ID,
		ModulePath:   mod.Path,
		Audience:     aud.Name,
		Locale:       locale,
		OutputFile:   outFile,
		GeneratedAt:  now.Format(time.RFC3339),
		Model:        res.Model,
		InputTokens:  res.InputTokens,
		OutputTokens: res.OutputTokens,
	}
	outcome := &Outcome{Module: mod, OutputFile: outFile, Record: rec}

	if err := manifest.New(params.OutputDir).Append(rec); err != nil {
		return outcome, fmt.Errorf("variant written to %s but not recorded: %w", outFile, err)
	}

	p.log.Info("variant recorded", zap.String("output", outFile))
	return outcome, nil
}
