// Package model defines the core content module data types.
package model

import "fmt"

// ModuleType classifies a training module.
type ModuleType string

const (
	TypeConcept    ModuleType = "concept"
	TypeDemo       ModuleType = "demo"
	TypeExercise   ModuleType = "exercise"
	TypeAssessment ModuleType = "assessment"
)

// ValidTypes are the allowed module types.
var ValidTypes = map[ModuleType]bool{
	TypeConcept:    true,
	TypeDemo:       true,
	TypeExercise:   true,
	TypeAssessment: true,
}

// DefaultLocale is assumed when a module's metadata does not declare one.
const DefaultLocale = "en-US"

// Metadata is the structured record stored in a module's metadata.yaml.
type Metadata struct {
	ID                 string     `yaml:"id"`
	Title              string     `yaml:"title"`
	ModuleType         ModuleType `yaml:"module_type"`
	CourseID           string     `yaml:"course_id"`
	Version            string     `yaml:"version"`
	Audience           string     `yaml:"audience,omitempty"`
	Locale             string     `yaml:"locale,omitempty"`
	EstimatedMinutes   int        `yaml:"estimated_minutes,omitempty"`
	Prerequisites      []string   `yaml:"prerequisites,omitempty"`
	LearningObjectives []string   `yaml:"learning_objectives"`
	Tags               []string   `yaml:"tags,omitempty"`
	LastUpdated        string     `yaml:"last_updated,omitempty"`
}

// Validate checks that required fields are present and enumerations hold.
// It returns the first problem found, named by field.
func (m Metadata) Validate() error {
	switch {
	case m.ID == "":
		return fmt.Errorf("metadata field %q is required", "id")
	case m.Title == "":
		return fmt.Errorf("metadata field %q is required", "title")
	case m.ModuleType == "":
		return fmt.Errorf("metadata field %q is required", "module_type")
	case m.CourseID == "":
		return fmt.Errorf("metadata field %q is required", "course_id")
	case m.Version == "":
		return fmt.Errorf("metadata field %q is required", "version")
	}
	if !ValidTypes[m.ModuleType] {
		return fmt.Errorf("module_type %q is not one of concept, demo, exercise, assessment", m.ModuleType)
	}
	if len(m.LearningObjectives) == 0 {
		return fmt.Errorf("metadata field %q needs at least one entry", "learning_objectives")
	}
	for i, o := range m.LearningObjectives {
		if o == "" {
			return fmt.Errorf("learning_objectives[%d] is empty", i)
		}
	}
	return nil
}

// DefaultLocaleTag returns the module's declared locale, or DefaultLocale.
func (m Metadata) DefaultLocaleTag() string {
	if m.Locale != "" {
		return m.Locale
	}
	return DefaultLocale
}

// Module pairs a module's body text with its metadata.
// The body is opaque to the pipeline and never mutated.
type Module struct {
	Path string // module directory as given
	Dir  string // base name of Path; names the variant subdirectory
	Body string
	Meta Metadata
}
