package domain

import "errors"

// Common validation errors for taxonomy entities.
var (
	ErrEmptyOrganizationName = errors.New("organization name cannot be empty")
	ErrEmptyDifficultyType   = errors.New("difficulty type cannot be empty")
	ErrEmptyDifficultyLabel  = errors.New("difficulty label cannot be empty")
	ErrEmptySubjectType      = errors.New("subject type cannot be empty")
	ErrEmptySubjectLabel     = errors.New("subject label cannot be empty")
	ErrInvalidGradeValue     = errors.New("grade value must be positive")
)

// Organization is a provider of courses, keyed by its unique name.
type Organization struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Validate checks if the Organization has valid data.
func (o *Organization) Validate() error {
	if o.Name == "" {
		return ErrEmptyOrganizationName
	}
	return nil
}

// Difficulty is a curated difficulty tier, keyed by its unique type string
// (e.g. "beginner"). Label, icon and color are presentation metadata.
type Difficulty struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// Validate checks if the Difficulty has valid data.
func (d *Difficulty) Validate() error {
	if d.Type == "" {
		return ErrEmptyDifficultyType
	}
	if d.Label == "" {
		return ErrEmptyDifficultyLabel
	}
	return nil
}

// Subject is a curated subject area, keyed by its unique type string
// (e.g. "programming"). AdditionalDescription is an ordered list of
// free-form description lines.
type Subject struct {
	ID                    int64    `json:"id"`
	Type                  string   `json:"type"`
	Label                 string   `json:"label"`
	Icon                  string   `json:"icon"`
	Color                 string   `json:"color"`
	AdditionalDescription []string `json:"additional_description"`
}

// Validate checks if the Subject has valid data.
func (s *Subject) Validate() error {
	if s.Type == "" {
		return ErrEmptySubjectType
	}
	if s.Label == "" {
		return ErrEmptySubjectLabel
	}
	return nil
}

// Grade is a target school grade level, keyed by its unique integer value.
type Grade struct {
	ID    int64 `json:"id"`
	Value int   `json:"value"`
}

// Validate checks if the Grade has valid data.
func (g *Grade) Validate() error {
	if g.Value <= 0 {
		return ErrInvalidGradeValue
	}
	return nil
}
