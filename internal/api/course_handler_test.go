package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daha-io/catalog-api/internal/domain"
	"github.com/daha-io/catalog-api/internal/service"
	"github.com/daha-io/catalog-api/internal/store"
)

// stubCourseService lets each test script the service layer.
type stubCourseService struct {
	listFn   func(ctx context.Context, filter store.CourseFilter) ([]*domain.Course, error)
	getFn    func(ctx context.Context, id int64) (*domain.Course, error)
	createFn func(ctx context.Context, input service.CreateCourseInput) (*domain.Course, error)
	updateFn func(ctx context.Context, id int64, patch service.UpdateCoursePatch) (*domain.Course, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (s *stubCourseService) ListCourses(ctx context.Context, filter store.CourseFilter) ([]*domain.Course, error) {
	return s.listFn(ctx, filter)
}

func (s *stubCourseService) GetCourse(ctx context.Context, id int64) (*domain.Course, error) {
	return s.getFn(ctx, id)
}

func (s *stubCourseService) CreateCourse(ctx context.Context, input service.CreateCourseInput) (*domain.Course, error) {
	return s.createFn(ctx, input)
}

func (s *stubCourseService) UpdateCourse(ctx context.Context, id int64, patch service.UpdateCoursePatch) (*domain.Course, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubCourseService) DeleteCourse(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleCourse() *domain.Course {
	return &domain.Course{
		ID:          1,
		Title:       "Python Fundamentals",
		Description: "An introductory programming course",
		StartDate:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 12, 20, 0, 0, 0, 0, time.UTC),
		URL:         "https://example.org/python",
		Organization: domain.Organization{
			ID: 2, Name: "Coding Academy",
		},
		OrganizationID: 2,
		Difficulty: domain.Difficulty{
			ID: 3, Type: "beginner", Label: "Beginner",
		},
		DifficultyID: 3,
		Subjects: []domain.Subject{
			{ID: 4, Type: "programming", Label: "Programming"},
		},
		Grades: []domain.Grade{
			{ID: 5, Value: 7}, {ID: 6, Value: 8},
		},
	}
}

// courseRouter mounts the handler the way the server router does so path
// parameters resolve.
func courseRouter(h *CourseHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/courses", h.List)
	r.Get("/courses/{id}", h.Get)
	r.Post("/courses", h.Create)
	r.Put("/courses/{id}", h.Update)
	r.Delete("/courses/{id}", h.Delete)
	return r
}

func TestCourseHandler_Get_FlattensResponse(t *testing.T) {
	svc := &stubCourseService{
		getFn: func(ctx context.Context, id int64) (*domain.Course, error) {
			assert.Equal(t, int64(1), id)
			return sampleCourse(), nil
		},
	}
	router := courseRouter(NewCourseHandler(svc, testLogger()))

	req := httptest.NewRequest(http.MethodGet, "/courses/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp CourseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "Coding Academy", resp.Organization)
	assert.Equal(t, "beginner", resp.Difficulty)
	assert.Equal(t, []string{"programming"}, resp.Subjects)
	assert.Equal(t, []int{7, 8}, resp.Grades)

	// Dates serialize as plain calendar dates
	assert.Contains(t, rec.Body.String(), `"start_date":"2026-09-01"`)
	assert.Contains(t, rec.Body.String(), `"end_date":"2026-12-20"`)
}

func TestCourseHandler_Get_NotFound(t *testing.T) {
	svc := &stubCourseService{
		getFn: func(ctx context.Context, id int64) (*domain.Course, error) {
			return nil, store.ErrCourseNotFound
		},
	}
	router := courseRouter(NewCourseHandler(svc, testLogger()))

	req := httptest.NewRequest(http.MethodGet, "/courses/42", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Course not found")
}

func TestCourseHandler_Get_InvalidID(t *testing.T) {
	svc := &stubCourseService{}
	router := courseRouter(NewCourseHandler(svc, testLogger()))

	req := httptest.NewRequest(http.MethodGet, "/courses/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCourseHandler_List_ParsesFilters(t *testing.T) {
	var captured store.CourseFilter
	svc := &stubCourseService{
		listFn: func(ctx context.Context, filter store.CourseFilter) ([]*domain.Course, error) {
			captured = filter
			return []*domain.Course{}, nil
		},
	}
	router := courseRouter(NewCourseHandler(svc, testLogger()))

	req := httptest.NewRequest(http.MethodGet,
		"/courses?subject=programming&subject=math&difficulty=beginner"+
			"&organization=Coding+Academy&grade=7&start_date=2026-09-01"+
			"&end_date=2026-12-31&search=python", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"programming", "math"}, captured.Subjects)
	assert.Equal(t, "beginner", captured.Difficulty)
	assert.Equal(t, "Coding Academy", captured.Organization)
	require.NotNil(t, captured.Grade)
	assert.Equal(t, 7, *captured.Grade)
	require.NotNil(t, captured.StartAfter)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), *captured.StartAfter)
	require.NotNil(t, captured.EndBefore)
	assert.Equal(t, "python", captured.Search)

	// Empty list serializes as [], not null
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestCourseHandler_List_InvalidGrade(t *testing.T) {
	svc := &stubCourseService{}
	router := courseRouter(NewCourseHandler(svc, testLogger()))

	req := httptest.NewRequest(http.MethodGet, "/courses?grade=seven", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCourseHandler_Create_Success(t *testing.T) {
	var captured service.CreateCourseInput
	svc := &stubCourseService{
		createFn: func(ctx context.Context, input service.CreateCourseInput) (*domain.Course, error) {
			captured = input
			return sampleCourse(), nil
		},
	}
	router := courseRouter(NewCourseHandler(svc, testLogger()))

	body := `{
		"title": "Python Fundamentals",
		"description": "An introductory programming course",
		"start_date": "2026-09-01",
		"end_date": "2026-12-20",
		"url": "https://example.org/python",
		"organization": "Coding Academy",
		"difficulty": "beginner",
		"subjects": ["programming"],
		"grades": [7, 8]
	}`
	req := httptest.NewRequest(http.MethodPost, "/courses", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Python Fundamentals", captured.Title)
	assert.Equal(t, "Coding Academy", captured.Organization)
	assert.Equal(t, []string{"programming"}, captured.Subjects)
	assert.Equal(t, []int{7, 8}, captured.Grades)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), captured.StartDate)
}

func TestCourseHandler_Create_MissingSubjectsRejectedByValidation(t *testing.T) {
	svc := &stubCourseService{
		createFn: func(ctx context.Context, input service.CreateCourseInput) (*domain.Course, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}
	router := courseRouter(NewCourseHandler(svc, testLogger()))

	body := `{
		"title": "No Subjects",
		"start_date": "2026-09-01",
		"end_date": "2026-12-20",
		"organization": "Coding Academy",
		"difficulty": "beginner",
		"subjects": []
	}`
	req := httptest.NewRequest(http.MethodPost, "/courses", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCourseHandler_Create_UnknownSubjectsListedInResponse(t *testing.T) {
	svc := &stubCourseService{
		createFn: func(ctx context.Context, input service.CreateCourseInput) (*domain.Course, error) {
			return nil, &store.SubjectsNotFoundError{Types: []string{"alchemy", "divination"}}
		},
	}
	router := courseRouter(NewCourseHandler(svc, testLogger()))

	body := `{
		"title": "Hidden Arts",
		"start_date": "2026-09-01",
		"end_date": "2026-12-20",
		"organization": "Coding Academy",
		"difficulty": "beginner",
		"subjects": ["alchemy", "divination"]
	}`
	req := httptest.NewRequest(http.MethodPost, "/courses", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "subjects not found: alchemy, divination")
}

func TestCourseHandler_Create_MalformedJSON(t *testing.T) {
	svc := &stubCourseService{}
	router := courseRouter(NewCourseHandler(svc, testLogger()))

	req := httptest.NewRequest(http.MethodPost, "/courses", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCourseHandler_Update_TranslatesPatch(t *testing.T) {
	var captured service.UpdateCoursePatch
	svc := &stubCourseService{
		updateFn: func(ctx context.Context, id int64, patch service.UpdateCoursePatch) (*domain.Course, error) {
			assert.Equal(t, int64(1), id)
			captured = patch
			return sampleCourse(), nil
		},
	}
	router := courseRouter(NewCourseHandler(svc, testLogger()))

	body := `{"title": "New Title", "subjects": [], "grades": [9]}`
	req := httptest.NewRequest(http.MethodPut, "/courses/1", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured.Title)
	assert.Equal(t, "New Title", *captured.Title)

	// Empty subjects array present in the body clears the set
	require.NotNil(t, captured.Subjects)
	assert.Empty(t, *captured.Subjects)
	require.NotNil(t, captured.Grades)
	assert.Equal(t, []int{9}, *captured.Grades)

	// Absent fields stay nil
	assert.Nil(t, captured.Description)
	assert.Nil(t, captured.StartDate)
	assert.Nil(t, captured.Organization)
}

func TestCourseHandler_Update_DuplicateMapsToConflict(t *testing.T) {
	svc := &stubCourseService{
		updateFn: func(ctx context.Context, id int64, patch service.UpdateCoursePatch) (*domain.Course, error) {
			return nil, store.ErrOrganizationNameExists
		},
	}
	router := courseRouter(NewCourseHandler(svc, testLogger()))

	req := httptest.NewRequest(http.MethodPut, "/courses/1", strings.NewReader(`{"title":"x"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCourseHandler_Delete(t *testing.T) {
	deleted := false
	svc := &stubCourseService{
		deleteFn: func(ctx context.Context, id int64) error {
			deleted = true
			assert.Equal(t, int64(5), id)
			return nil
		},
	}
	router := courseRouter(NewCourseHandler(svc, testLogger()))

	req := httptest.NewRequest(http.MethodDelete, "/courses/5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, deleted)
}

func TestCourseHandler_Delete_NotFound(t *testing.T) {
	svc := &stubCourseService{
		deleteFn: func(ctx context.Context, id int64) error {
			return store.ErrCourseNotFound
		},
	}
	router := courseRouter(NewCourseHandler(svc, testLogger()))

	req := httptest.NewRequest(http.MethodDelete, "/courses/5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
