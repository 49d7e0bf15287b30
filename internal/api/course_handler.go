package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/daha-io/catalog-api/internal/api/shared"
	"github.com/daha-io/catalog-api/internal/domain"
	"github.com/daha-io/catalog-api/internal/platform/logger"
	"github.com/daha-io/catalog-api/internal/service"
	"github.com/daha-io/catalog-api/internal/store"
)

// CourseHandler handles course-related HTTP requests.
type CourseHandler struct {
	courseService service.CourseService
	logger        *slog.Logger
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courseService service.CourseService, logger *slog.Logger) *CourseHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CourseHandler")
	}

	return &CourseHandler{
		courseService: courseService,
		logger:        logger.With(slog.String("component", "course_handler")),
	}
}

// List handles GET /courses requests. All filters are conjunctive; courses
// appear exactly once regardless of how many subjects or grades match.
//
// Supported query parameters: subject (repeatable), difficulty, organization,
// grade, start_date, end_date, search.
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	filter, err := parseCourseFilter(r)
	if err != nil {
		log.Warn("invalid course filter", slog.String("error", err.Error()))
		respondWithMappedError(w, r, err)
		return
	}

	courses, err := h.courseService.ListCourses(r.Context(), filter)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, coursesToResponse(courses))
}

// Get handles GET /courses/{id} requests.
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	course, err := h.courseService.GetCourse(r.Context(), id)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, courseToResponse(course))
}

// Create handles POST /courses requests. The body references taxonomy
// entities by natural key; difficulty and subjects must already exist,
// organization and grades are created on demand.
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateCourseRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		log.Warn("request validation failed", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	course, err := h.courseService.CreateCourse(r.Context(), service.CreateCourseInput{
		Title:        req.Title,
		Description:  req.Description,
		StartDate:    req.StartDate.Time,
		EndDate:      req.EndDate.Time,
		URL:          req.URL,
		ImageURL:     req.ImageURL,
		Organization: req.Organization,
		Difficulty:   req.Difficulty,
		Subjects:     req.Subjects,
		Grades:       req.Grades,
	})
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	log.Debug("course created", slog.Int64("course_id", course.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, courseToResponse(course))
}

// Update handles PUT /courses/{id} requests. Absent fields are left as
// they are; present subjects or grades fields replace the whole set.
func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathID(r, "id")
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	var req UpdateCourseRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		log.Warn("request validation failed", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	patch := service.UpdateCoursePatch{
		Title:        req.Title,
		Description:  req.Description,
		URL:          req.URL,
		ImageURL:     req.ImageURL,
		Organization: req.Organization,
		Difficulty:   req.Difficulty,
		Subjects:     req.Subjects,
		Grades:       req.Grades,
	}
	if req.StartDate != nil {
		patch.StartDate = &req.StartDate.Time
	}
	if req.EndDate != nil {
		patch.EndDate = &req.EndDate.Time
	}

	course, err := h.courseService.UpdateCourse(r.Context(), id, patch)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	log.Debug("course updated", slog.Int64("course_id", id))
	shared.RespondWithJSON(w, r, http.StatusOK, courseToResponse(course))
}

// Delete handles DELETE /courses/{id} requests.
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	if err := h.courseService.DeleteCourse(r.Context(), id); err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseCourseFilter builds a course filter from the request's query
// parameters.
func parseCourseFilter(r *http.Request) (store.CourseFilter, error) {
	q := r.URL.Query()

	filter := store.CourseFilter{
		Subjects:     q["subject"],
		Difficulty:   q.Get("difficulty"),
		Organization: q.Get("organization"),
		Search:       q.Get("search"),
	}

	if raw := q.Get("grade"); raw != "" {
		grade, err := strconv.Atoi(raw)
		if err != nil || grade <= 0 {
			return store.CourseFilter{}, domain.NewValidationError(
				"grade", "must be a positive integer", domain.ErrValidation)
		}
		filter.Grade = &grade
	}

	if raw := q.Get("start_date"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return store.CourseFilter{}, domain.NewValidationError(
				"start_date", "must be formatted as YYYY-MM-DD", domain.ErrValidation)
		}
		filter.StartAfter = &t
	}

	if raw := q.Get("end_date"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return store.CourseFilter{}, domain.NewValidationError(
				"end_date", "must be formatted as YYYY-MM-DD", domain.ErrValidation)
		}
		filter.EndBefore = &t
	}

	return filter, nil
}
