package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/daha-io/catalog-api/internal/domain"
)

// dateLayout is the wire format for calendar dates.
const dateLayout = "2006-01-02"

// Date is a calendar date that marshals to and from "YYYY-MM-DD". Course
// start and end dates have day precision on the wire even though they are
// stored as timestamps.
type Date struct {
	time.Time
}

// NewDate wraps a time.Time as a wire date.
func NewDate(t time.Time) Date {
	return Date{Time: t}
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	d.Time = t
	return nil
}

// CourseResponse is the flattened wire representation of a course. Taxonomy
// associations appear as their natural keys.
type CourseResponse struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	StartDate    Date     `json:"start_date"`
	EndDate      Date     `json:"end_date"`
	URL          string   `json:"url"`
	ImageURL     string   `json:"image_url"`
	Organization string   `json:"organization"`
	Difficulty   string   `json:"difficulty"`
	Subjects     []string `json:"subjects"`
	Grades       []int    `json:"grades"`
}

// courseToResponse converts a domain course to its wire representation.
func courseToResponse(course *domain.Course) CourseResponse {
	return CourseResponse{
		ID:           course.ID,
		Title:        course.Title,
		Description:  course.Description,
		StartDate:    NewDate(course.StartDate),
		EndDate:      NewDate(course.EndDate),
		URL:          course.URL,
		ImageURL:     course.ImageURL,
		Organization: course.Organization.Name,
		Difficulty:   course.Difficulty.Type,
		Subjects:     course.SubjectTypes(),
		Grades:       course.GradeValues(),
	}
}

// coursesToResponse converts a list of domain courses, never returning nil so
// an empty list serializes as [].
func coursesToResponse(courses []*domain.Course) []CourseResponse {
	out := make([]CourseResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, courseToResponse(c))
	}
	return out
}

// CreateCourseRequest is the request body for creating a course. Taxonomy
// references use natural keys.
type CreateCourseRequest struct {
	Title        string   `json:"title"        validate:"required"`
	Description  string   `json:"description"`
	StartDate    Date     `json:"start_date"   validate:"required"`
	EndDate      Date     `json:"end_date"     validate:"required"`
	URL          string   `json:"url"          validate:"omitempty,url"`
	ImageURL     string   `json:"image_url"    validate:"omitempty,url"`
	Organization string   `json:"organization" validate:"required"`
	Difficulty   string   `json:"difficulty"   validate:"required"`
	Subjects     []string `json:"subjects"     validate:"required,min=1,dive,required"`
	Grades       []int    `json:"grades"       validate:"dive,gt=0"`
}

// UpdateCourseRequest is the request body for a partial course update.
// Absent fields are left untouched; a present subjects or grades field
// replaces the whole association set.
type UpdateCourseRequest struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	StartDate    *Date     `json:"start_date"`
	EndDate      *Date     `json:"end_date"`
	URL          *string   `json:"url"          validate:"omitempty,url"`
	ImageURL     *string   `json:"image_url"    validate:"omitempty,url"`
	Organization *string   `json:"organization"`
	Difficulty   *string   `json:"difficulty"`
	Subjects     *[]string `json:"subjects"     validate:"omitempty,dive,required"`
	Grades       *[]int    `json:"grades"       validate:"omitempty,dive,gt=0"`
}

// CreateOrganizationRequest is the request body for creating an organization.
type CreateOrganizationRequest struct {
	Name string `json:"name" validate:"required"`
}

// UpdateOrganizationRequest is the request body for a partial organization
// update.
type UpdateOrganizationRequest struct {
	Name *string `json:"name"`
}

// CreateDifficultyRequest is the request body for creating a difficulty.
type CreateDifficultyRequest struct {
	Type  string `json:"type"  validate:"required"`
	Label string `json:"label" validate:"required"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// UpdateDifficultyRequest is the request body for a partial difficulty
// update.
type UpdateDifficultyRequest struct {
	Type  *string `json:"type"`
	Label *string `json:"label"`
	Icon  *string `json:"icon"`
	Color *string `json:"color"`
}

// CreateSubjectRequest is the request body for creating a subject.
type CreateSubjectRequest struct {
	Type                  string   `json:"type"  validate:"required"`
	Label                 string   `json:"label" validate:"required"`
	Icon                  string   `json:"icon"`
	Color                 string   `json:"color"`
	AdditionalDescription []string `json:"additional_description"`
}

// UpdateSubjectRequest is the request body for a partial subject update.
type UpdateSubjectRequest struct {
	Type                  *string   `json:"type"`
	Label                 *string   `json:"label"`
	Icon                  *string   `json:"icon"`
	Color                 *string   `json:"color"`
	AdditionalDescription *[]string `json:"additional_description"`
}

// CreateGradeRequest is the request body for creating a grade.
type CreateGradeRequest struct {
	Value int `json:"value" validate:"required,gt=0"`
}

// UpdateGradeRequest is the request body for a partial grade update.
type UpdateGradeRequest struct {
	Value *int `json:"value" validate:"omitempty,gt=0"`
}
