// Package prompt composes generation requests from a module, an audience
// descriptor, and a versioned system instruction set.
//
// Composition is deterministic and side-effect free: the same module,
// audience, locale, and system prompt always produce the same payload.
package prompt

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mtat/variantgen/internal/markdown"
	"github.com/mtat/variantgen/internal/model"
)

//go:embed adapt.md
var defaultSystem string

// DefaultSystem returns the built-in versioned adaptation system prompt.
// Callers may substitute any other version; the composer treats the system
// text as an opaque input value.
func DefaultSystem() string { return defaultSystem }

// Audience is a tagged audience descriptor: either a named preset with its
// built-in guidance, or a free-text description passed through unchanged.
type Audience struct {
	Name     string // raw value as given; recorded in paths and the manifest
	IsPreset bool
	Guidance string // text injected into the adaptation target
}

// ResolveAudience maps a raw audience value to a preset or custom descriptor.
func ResolveAudience(raw string) (Audience, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Audience{}, errors.New("audience is required")
	}
	if g, ok := Presets[raw]; ok {
		return Audience{Name: raw, IsPreset: true, Guidance: g}, nil
	}
	return Audience{
		Name: raw,
		Guidance: fmt.Sprintf("Custom audience: '%s'. Adapt the content to be most relevant "+
			"and accessible for this group.", raw),
	}, nil
}

// Request is one composed generation payload: system instructions plus a
// single user turn.
type Request struct {
	System string
	User   string
}

// Compose builds the request payload for a module and adaptation target.
// The locale directive is appended only when locale differs from the
// module's default locale.
func Compose(m *model.Module, aud Audience, locale, system string) Request {
	metaBlock, _ := yaml.Marshal(m.Meta)

	var b strings.Builder
	b.WriteString("## Source Module\n\n")
	b.WriteString("**Metadata:**\n```yaml\n")
	b.Write(metaBlock)
	b.WriteString("```\n\n")
	b.WriteString("**Base Content:**\n\n")
	b.WriteString(m.Body)
	b.WriteString("\n\n---\n\n")
	b.WriteString("## Adaptation Target\n\n")
	fmt.Fprintf(&b, "**Audience:** `%s`\n", aud.Name)
	b.WriteString(aud.Guidance)

	if locale != m.Meta.DefaultLocaleTag() {
		fmt.Fprintf(&b, "\n\n**Locale:** %s  \n", locale)
		b.WriteString("Translate the output into the target language. Preserve all Markdown formatting")
		if len(markdown.CodeBlocks(m.Body)) > 0 {
			b.WriteString(" and code blocks exactly — translate comments and string values inside " +
				"code blocks but never alter code syntax or variable names")
		}
		b.WriteString(".")
	}

	b.WriteString("\n\nGenerate the adapted module now.\n")

	return Request{System: system, User: b.String()}
}
