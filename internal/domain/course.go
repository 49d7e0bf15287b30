package domain

import (
	"errors"
	"time"
)

// Common validation errors for Course.
var (
	ErrEmptyCourseTitle      = errors.New("course title cannot be empty")
	ErrInvalidCourseDates    = errors.New("course end date cannot precede its start date")
	ErrMissingOrganizationID = errors.New("course must reference an organization")
	ErrMissingDifficultyID   = errors.New("course must reference a difficulty")
)

// Course is an educational course offered by one organization at one
// difficulty tier. The association slices mirror the junction tables and are
// only populated by reads that resolve them explicitly; they are never a
// cache of membership.
type Course struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	URL            string    `json:"url"`
	ImageURL       string    `json:"image_url"`
	OrganizationID int64     `json:"organization_id"`
	DifficultyID   int64     `json:"difficulty_id"`

	Organization Organization `json:"organization"`
	Difficulty   Difficulty   `json:"difficulty"`
	Subjects     []Subject    `json:"subjects"`
	Grades       []Grade      `json:"grades"`
}

// Validate checks if the Course row data is valid. The minimum-one-subject
// rule is not enforced here: subjects may be resolved in the same request
// that creates the course, so the synchronizer owns that check.
func (c *Course) Validate() error {
	if c.Title == "" {
		return ErrEmptyCourseTitle
	}
	if !c.EndDate.IsZero() && !c.StartDate.IsZero() && c.EndDate.Before(c.StartDate) {
		return ErrInvalidCourseDates
	}
	if c.OrganizationID == 0 {
		return ErrMissingOrganizationID
	}
	if c.DifficultyID == 0 {
		return ErrMissingDifficultyID
	}
	return nil
}

// SubjectTypes returns the natural keys of the course's resolved subjects,
// in association order.
func (c *Course) SubjectTypes() []string {
	types := make([]string, 0, len(c.Subjects))
	for _, s := range c.Subjects {
		types = append(types, s.Type)
	}
	return types
}

// GradeValues returns the natural keys of the course's resolved grades,
// in association order.
func (c *Course) GradeValues() []int {
	values := make([]int, 0, len(c.Grades))
	for _, g := range c.Grades {
		values = append(values, g.Value)
	}
	return values
}
