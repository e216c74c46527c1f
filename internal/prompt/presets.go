package prompt

import "sort"

// Presets maps named audience profiles to the adaptation guidance injected
// into the user turn. Extend this map to add new audience types without
// touching the composition logic.
var Presets = map[string]string{
	"developer": "Software engineers and technical practitioners who build with LLMs and APIs. " +
		"They want precision, code examples, edge cases, and integration details. " +
		"They distrust hand-waving — show them the mechanism. Assume comfort with " +
		"technical vocabulary; do not over-explain standard concepts. Favor concrete " +
		"examples over metaphors.",
	"executive": "Senior business leaders who own budget and strategy decisions. They need " +
		"ROI framing, business outcomes, and risk context. Skip implementation details; " +
		"translate every feature into business impact. Lead with 'why it matters' before " +
		"'what it is.' Use industry benchmarks and peer-company examples where relevant.",
	"champion": "Internal enablement champions who will train their own teams. They need " +
		"facilitator notes, discussion prompts, timing guidance, and common participant " +
		"questions. Preserve all learner-facing content but add [FACILITATOR NOTE] " +
		"callouts throughout. Frame content from the perspective of someone who will teach it, " +
		"not just learn it.",
	"technical-writer": "Documentation and content professionals learning to work with LLMs. " +
		"They appreciate analogies to content workflows, structured authoring, and " +
		"information architecture. Connect AI concepts to their existing mental models " +
		"(DITA, structured content, single-sourcing, topic-based authoring, CMS workflows).",
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for n := range Presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
