package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"github.com/daha-io/catalog-api/internal/domain"
	"github.com/daha-io/catalog-api/internal/events"
	"github.com/daha-io/catalog-api/internal/store"
)

// catalogState is the shared in-memory backing for the fake stores. It keeps
// just enough bookkeeping to observe what the synchronizer wrote.
type catalogState struct {
	mu     sync.Mutex
	nextID int64

	organizations map[int64]*domain.Organization
	difficulties  map[int64]*domain.Difficulty
	subjects      map[int64]*domain.Subject
	grades        map[int64]*domain.Grade
	courses       map[int64]*domain.Course

	subjectLinks map[int64][]int64
	gradeLinks   map[int64][]int64

	createdOrganizations []string
	createdGrades        []int
}

func newCatalogState() *catalogState {
	return &catalogState{
		organizations: make(map[int64]*domain.Organization),
		difficulties:  make(map[int64]*domain.Difficulty),
		subjects:      make(map[int64]*domain.Subject),
		grades:        make(map[int64]*domain.Grade),
		courses:       make(map[int64]*domain.Course),
		subjectLinks:  make(map[int64][]int64),
		gradeLinks:    make(map[int64][]int64),
	}
}

func (s *catalogState) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *catalogState) seedDifficulty(difficultyType, label string) *domain.Difficulty {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := &domain.Difficulty{ID: s.id(), Type: difficultyType, Label: label}
	s.difficulties[d.ID] = d
	return d
}

func (s *catalogState) seedSubject(subjectType, label string) *domain.Subject {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub := &domain.Subject{ID: s.id(), Type: subjectType, Label: label, AdditionalDescription: []string{}}
	s.subjects[sub.ID] = sub
	return sub
}

// resolveCourse returns a copy of the course with associations populated the
// way a store read would return it.
func (s *catalogState) resolveCourse(id int64) (*domain.Course, error) {
	course, ok := s.courses[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", store.ErrCourseNotFound, id)
	}

	out := *course
	if org, ok := s.organizations[course.OrganizationID]; ok {
		out.Organization = *org
	}
	if diff, ok := s.difficulties[course.DifficultyID]; ok {
		out.Difficulty = *diff
	}

	out.Subjects = []domain.Subject{}
	for _, subjectID := range s.subjectLinks[id] {
		if sub, ok := s.subjects[subjectID]; ok {
			out.Subjects = append(out.Subjects, *sub)
		}
	}
	out.Grades = []domain.Grade{}
	for _, gradeID := range s.gradeLinks[id] {
		if g, ok := s.grades[gradeID]; ok {
			out.Grades = append(out.Grades, *g)
		}
	}
	return &out, nil
}

type fakeOrganizationStore struct{ state *catalogState }

func (f *fakeOrganizationStore) GetAll(ctx context.Context) ([]domain.Organization, error) {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	out := []domain.Organization{}
	for _, org := range f.state.organizations {
		out = append(out, *org)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeOrganizationStore) GetByID(ctx context.Context, id int64) (*domain.Organization, error) {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	org, ok := f.state.organizations[id]
	if !ok {
		return nil, store.ErrOrganizationNotFound
	}
	out := *org
	return &out, nil
}

func (f *fakeOrganizationStore) GetByName(ctx context.Context, name string) (*domain.Organization, error) {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	for _, org := range f.state.organizations {
		if org.Name == name {
			out := *org
			return &out, nil
		}
	}
	return nil, store.ErrOrganizationNotFound
}

func (f *fakeOrganizationStore) Create(ctx context.Context, org *domain.Organization) error {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	for _, existing := range f.state.organizations {
		if existing.Name == org.Name {
			return store.ErrOrganizationNameExists
		}
	}
	org.ID = f.state.id()
	stored := *org
	f.state.organizations[org.ID] = &stored
	f.state.createdOrganizations = append(f.state.createdOrganizations, org.Name)
	return nil
}

func (f *fakeOrganizationStore) Update(ctx context.Context, id int64, patch store.OrganizationPatch) (*domain.Organization, error) {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	org, ok := f.state.organizations[id]
	if !ok {
		return nil, store.ErrOrganizationNotFound
	}
	if patch.Name != nil {
		org.Name = *patch.Name
	}
	out := *org
	return &out, nil
}

func (f *fakeOrganizationStore) Delete(ctx context.Context, id int64) error {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	if _, ok := f.state.organizations[id]; !ok {
		return store.ErrOrganizationNotFound
	}
	delete(f.state.organizations, id)
	return nil
}

func (f *fakeOrganizationStore) GetOrCreate(ctx context.Context, name string) (*domain.Organization, error) {
	if org, err := f.GetByName(ctx, name); err == nil {
		return org, nil
	}
	org := &domain.Organization{Name: name}
	if err := f.Create(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

func (f *fakeOrganizationStore) WithTx(tx *sql.Tx) store.OrganizationStore { return f }

type fakeDifficultyStore struct{ state *catalogState }

func (f *fakeDifficultyStore) GetAll(ctx context.Context) ([]domain.Difficulty, error) {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	out := []domain.Difficulty{}
	for _, d := range f.state.difficulties {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeDifficultyStore) GetByID(ctx context.Context, id int64) (*domain.Difficulty, error) {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	d, ok := f.state.difficulties[id]
	if !ok {
		return nil, store.ErrDifficultyNotFound
	}
	out := *d
	return &out, nil
}

func (f *fakeDifficultyStore) GetByType(ctx context.Context, difficultyType string) (*domain.Difficulty, error) {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	for _, d := range f.state.difficulties {
		if d.Type == difficultyType {
			out := *d
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: type %q", store.ErrDifficultyNotFound, difficultyType)
}

func (f *fakeDifficultyStore) Create(ctx context.Context, difficulty *domain.Difficulty) error {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	difficulty.ID = f.state.id()
	stored := *difficulty
	f.state.difficulties[difficulty.ID] = &stored
	return nil
}

func (f *fakeDifficultyStore) Update(ctx context.Context, id int64, patch store.DifficultyPatch) (*domain.Difficulty, error) {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	d, ok := f.state.difficulties[id]
	if !ok {
		return nil, store.ErrDifficultyNotFound
	}
	if patch.Type != nil {
		d.Type = *patch.Type
	}
	if patch.Label != nil {
		d.Label = *patch.Label
	}
	out := *d
	return &out, nil
}

func (f *fakeDifficultyStore) Delete(ctx context.Context, id int64) error {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	if _, ok := f.state.difficulties[id]; !ok {
		return store.ErrDifficultyNotFound
	}
	delete(f.state.difficulties, id)
	return nil
}

func (f *fakeDifficultyStore) WithTx(tx *sql.Tx) store.DifficultyStore { return f }

type fakeSubjectStore struct{ state *catalogState }

func (f *fakeSubjectStore) GetAll(ctx context.Context) ([]domain.Subject, error) {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	out := []domain.Subject{}
	for _, s := range f.state.subjects {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSubjectStore) GetByID(ctx context.Context, id int64) (*domain.Subject, error) {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	s, ok := f.state.subjects[id]
	if !ok {
		return nil, store.ErrSubjectNotFound
	}
	out := *s
	return &out, nil
}

func (f *fakeSubjectStore) GetByType(ctx context.Context, subjectType string) (*domain.Subject, error) {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	for _, s := range f.state.subjects {
		if s.Type == subjectType {
			out := *s
			return &out, nil
		}
	}
	return nil, store.ErrSubjectNotFound
}

func (f *fakeSubjectStore) GetByTypes(ctx context.Context, subjectTypes []string) ([]domain.Subject, error) {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	out := []domain.Subject{}
	for _, s := range f.state.subjects {
		for _, t := range subjectTypes {
			if s.Type == t {
				out = append(out, *s)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSubjectStore) Create(ctx context.Context, subject *domain.Subject) error {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	subject.ID = f.state.id()
	stored := *subject
	f.state.subjects[subject.ID] = &stored
	return nil
}

func (f *fakeSubjectStore) Update(ctx context.Context, id int64, patch store.SubjectPatch) (*domain.Subject, error) {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	s, ok := f.state.subjects[id]
	if !ok {
		return nil, store.ErrSubjectNotFound
	}
	if patch.Type != nil {
		s.Type = *patch.Type
	}
	if patch.Label != nil {
		s.Label = *patch.Label
	}
	if patch.AdditionalDescription != nil {
		s.AdditionalDescription = *patch.AdditionalDescription
	}
	out := *s
	return &out, nil
}

func (f *fakeSubjectStore) Delete(ctx context.Context, id int64) error {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	if _, ok := f.state.subjects[id]; !ok {
		return store.ErrSubjectNotFound
	}
	delete(f.state.subjects, id)
	return nil
}

func (f *fakeSubjectStore) WithTx(tx *sql.Tx) store.SubjectStore { return f }

type fakeGradeStore struct{ state *catalogState }

func (f *fakeGradeStore) GetAll(ctx context.Context) ([]domain.Grade, error) {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	out := []domain.Grade{}
	for _, g := range f.state.grades {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeGradeStore) GetByID(ctx context.Context, id int64) (*domain.Grade, error) {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	g, ok := f.state.grades[id]
	if !ok {
		return nil, store.ErrGradeNotFound
	}
	out := *g
	return &out, nil
}

func (f *fakeGradeStore) GetByValue(ctx context.Context, value int) (*domain.Grade, error) {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	for _, g := range f.state.grades {
		if g.Value == value {
			out := *g
			return &out, nil
		}
	}
	return nil, store.ErrGradeNotFound
}

func (f *fakeGradeStore) Create(ctx context.Context, grade *domain.Grade) error {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	for _, existing := range f.state.grades {
		if existing.Value == grade.Value {
			return store.ErrGradeValueExists
		}
	}
	grade.ID = f.state.id()
	stored := *grade
	f.state.grades[grade.ID] = &stored
	f.state.createdGrades = append(f.state.createdGrades, grade.Value)
	return nil
}

func (f *fakeGradeStore) Update(ctx context.Context, id int64, patch store.GradePatch) (*domain.Grade, error) {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	g, ok := f.state.grades[id]
	if !ok {
		return nil, store.ErrGradeNotFound
	}
	if patch.Value != nil {
		g.Value = *patch.Value
	}
	out := *g
	return &out, nil
}

func (f *fakeGradeStore) Delete(ctx context.Context, id int64) error {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	if _, ok := f.state.grades[id]; !ok {
		return store.ErrGradeNotFound
	}
	delete(f.state.grades, id)
	return nil
}

func (f *fakeGradeStore) GetOrCreate(ctx context.Context, value int) (*domain.Grade, error) {
	if g, err := f.GetByValue(ctx, value); err == nil {
		return g, nil
	}
	g := &domain.Grade{Value: value}
	if err := f.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (f *fakeGradeStore) WithTx(tx *sql.Tx) store.GradeStore { return f }

type fakeCourseStore struct{ state *catalogState }

func (f *fakeCourseStore) List(ctx context.Context, filter store.CourseFilter) ([]*domain.Course, error) {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	ids := make([]int64, 0, len(f.state.courses))
	for id := range f.state.courses {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := []*domain.Course{}
	for _, id := range ids {
		course, err := f.state.resolveCourse(id)
		if err != nil {
			return nil, err
		}
		out = append(out, course)
	}
	return out, nil
}

func (f *fakeCourseStore) GetByID(ctx context.Context, id int64) (*domain.Course, error) {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	return f.state.resolveCourse(id)
}

func (f *fakeCourseStore) Create(ctx context.Context, course *domain.Course) error {
	if err := course.Validate(); err != nil {
		return err
	}
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	course.ID = f.state.id()
	stored := *course
	f.state.courses[course.ID] = &stored
	return nil
}

func (f *fakeCourseStore) Update(ctx context.Context, course *domain.Course) error {
	if err := course.Validate(); err != nil {
		return err
	}
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	if _, ok := f.state.courses[course.ID]; !ok {
		return store.ErrCourseNotFound
	}
	stored := *course
	f.state.courses[course.ID] = &stored
	return nil
}

func (f *fakeCourseStore) Delete(ctx context.Context, id int64) error {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	if _, ok := f.state.courses[id]; !ok {
		return store.ErrCourseNotFound
	}
	delete(f.state.courses, id)
	delete(f.state.subjectLinks, id)
	delete(f.state.gradeLinks, id)
	return nil
}

func (f *fakeCourseStore) ReplaceSubjectLinks(ctx context.Context, courseID int64, subjectIDs []int64) error {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	f.state.subjectLinks[courseID] = append([]int64{}, subjectIDs...)
	return nil
}

func (f *fakeCourseStore) ReplaceGradeLinks(ctx context.Context, courseID int64, gradeIDs []int64) error {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	f.state.gradeLinks[courseID] = append([]int64{}, gradeIDs...)
	return nil
}

func (f *fakeCourseStore) WithTx(tx *sql.Tx) store.CourseStore { return f }

// recordingEmitter captures emitted events for assertions.
type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.CourseCreatedEvent
	err    error
}

func (e *recordingEmitter) EmitEvent(ctx context.Context, event *events.CourseCreatedEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return e.err
}

func (e *recordingEmitter) emitted() []*events.CourseCreatedEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*events.CourseCreatedEvent{}, e.events...)
}
