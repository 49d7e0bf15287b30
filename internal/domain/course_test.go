package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validCourse() *Course {
	return &Course{
		Title:          "Python Fundamentals",
		StartDate:      time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2026, 12, 20, 0, 0, 0, 0, time.UTC),
		OrganizationID: 1,
		DifficultyID:   2,
	}
}

func TestCourseValidate(t *testing.T) {
	assert.NoError(t, validCourse().Validate())

	missingTitle := validCourse()
	missingTitle.Title = ""
	assert.ErrorIs(t, missingTitle.Validate(), ErrEmptyCourseTitle)

	reversed := validCourse()
	reversed.EndDate = reversed.StartDate.AddDate(0, -1, 0)
	assert.ErrorIs(t, reversed.Validate(), ErrInvalidCourseDates)

	noOrg := validCourse()
	noOrg.OrganizationID = 0
	assert.ErrorIs(t, noOrg.Validate(), ErrMissingOrganizationID)

	noDifficulty := validCourse()
	noDifficulty.DifficultyID = 0
	assert.ErrorIs(t, noDifficulty.Validate(), ErrMissingDifficultyID)
}

func TestCourseNaturalKeyHelpers(t *testing.T) {
	course := validCourse()
	course.Subjects = []Subject{{Type: "programming"}, {Type: "math"}}
	course.Grades = []Grade{{Value: 7}, {Value: 8}}

	assert.Equal(t, []string{"programming", "math"}, course.SubjectTypes())
	assert.Equal(t, []int{7, 8}, course.GradeValues())

	empty := validCourse()
	assert.Empty(t, empty.SubjectTypes())
	assert.NotNil(t, empty.SubjectTypes())
	assert.Empty(t, empty.GradeValues())
}

func TestTaxonomyValidate(t *testing.T) {
	assert.ErrorIs(t, (&Organization{}).Validate(), ErrEmptyOrganizationName)
	assert.NoError(t, (&Organization{Name: "Coding Academy"}).Validate())

	assert.ErrorIs(t, (&Difficulty{Label: "Beginner"}).Validate(), ErrEmptyDifficultyType)
	assert.ErrorIs(t, (&Difficulty{Type: "beginner"}).Validate(), ErrEmptyDifficultyLabel)
	assert.NoError(t, (&Difficulty{Type: "beginner", Label: "Beginner"}).Validate())

	assert.ErrorIs(t, (&Subject{Label: "Math"}).Validate(), ErrEmptySubjectType)
	assert.ErrorIs(t, (&Subject{Type: "math"}).Validate(), ErrEmptySubjectLabel)

	assert.ErrorIs(t, (&Grade{Value: 0}).Validate(), ErrInvalidGradeValue)
	assert.ErrorIs(t, (&Grade{Value: -1}).Validate(), ErrInvalidGradeValue)
	assert.NoError(t, (&Grade{Value: 7}).Validate())
}
