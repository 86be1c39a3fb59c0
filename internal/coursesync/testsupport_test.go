package coursesync

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/studypath/studypath-backend/internal/pkg/logger"
	"github.com/studypath/studypath-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

type fakeCourseStore struct {
	course *types.Course
	err    error
}

func (f *fakeCourseStore) GetByID(ctx context.Context, id uuid.UUID) (*types.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.course, nil
}

type fakeModuleStore struct {
	modules []*types.Module
	err     error
}

func (f *fakeModuleStore) GetByCourseID(ctx context.Context, courseID uuid.UUID) ([]*types.Module, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.modules, nil
}

type fakeLessonStore struct {
	mu       sync.Mutex
	byModule map[uuid.UUID][]*types.Lesson

	fetchDelay time.Duration
	fetchErr   map[uuid.UUID]error

	addErr    error
	removeErr error
	// blockWrites makes add/remove wait for ctx cancellation; used to
	// exercise the write timeout.
	blockWrites bool

	addCalls    int32
	removeCalls int32
	// writesInFlight tracks overlapping add/remove calls to verify
	// per-lesson serialization.
	writesInFlight    int32
	maxWritesInFlight int32
}

func (f *fakeLessonStore) GetByModuleID(ctx context.Context, moduleID uuid.UUID) ([]*types.Lesson, error) {
	if f.fetchDelay > 0 {
		select {
		case <-time.After(f.fetchDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := f.fetchErr[moduleID]; err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byModule[moduleID], nil
}

func (f *fakeLessonStore) AddToCompletedBy(ctx context.Context, lessonID, learnerID uuid.UUID) error {
	atomic.AddInt32(&f.addCalls, 1)
	return f.write(ctx, f.addErr)
}

func (f *fakeLessonStore) RemoveFromCompletedBy(ctx context.Context, lessonID, learnerID uuid.UUID) error {
	atomic.AddInt32(&f.removeCalls, 1)
	return f.write(ctx, f.removeErr)
}

func (f *fakeLessonStore) write(ctx context.Context, injected error) error {
	n := atomic.AddInt32(&f.writesInFlight, 1)
	for {
		prev := atomic.LoadInt32(&f.maxWritesInFlight)
		if n <= prev || atomic.CompareAndSwapInt32(&f.maxWritesInFlight, prev, n) {
			break
		}
	}
	defer atomic.AddInt32(&f.writesInFlight, -1)

	if f.blockWrites {
		<-ctx.Done()
		return ctx.Err()
	}
	// Small hold so overlapping calls would actually be observed.
	time.Sleep(2 * time.Millisecond)
	return injected
}

type fakeEnrollmentStore struct {
	rows []*types.Enrollment
	err  error
}

func (f *fakeEnrollmentStore) GetByLearnerID(ctx context.Context, learnerID uuid.UUID) ([]*types.Enrollment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

type fakeAchievementStore struct {
	rows []*types.Achievement
	err  error
}

func (f *fakeAchievementStore) GetByLearnerID(ctx context.Context, learnerID uuid.UUID) ([]*types.Achievement, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

type fakeReviewStore struct {
	rows []*types.Review
	err  error
}

func (f *fakeReviewStore) GetByCourseID(ctx context.Context, courseID uuid.UUID) ([]*types.Review, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

// fixture is a small course: module A with two lessons, module B with one.
type fixture struct {
	learnerID uuid.UUID
	courseID  uuid.UUID
	moduleA   *types.Module
	moduleB   *types.Module
	lessonA1  *types.Lesson
	lessonA2  *types.Lesson
	lessonB1  *types.Lesson

	courses *fakeCourseStore
	modules *fakeModuleStore
	lessons *fakeLessonStore
}

func newFixture() *fixture {
	courseID := uuid.New()
	moduleA := &types.Module{ID: uuid.New(), CourseID: courseID, Index: 0, Title: "Module A"}
	moduleB := &types.Module{ID: uuid.New(), CourseID: courseID, Index: 1, Title: "Module B"}
	lessonA1 := &types.Lesson{ID: uuid.New(), ModuleID: moduleA.ID, Title: "A1"}
	lessonA2 := &types.Lesson{ID: uuid.New(), ModuleID: moduleA.ID, Title: "A2"}
	lessonB1 := &types.Lesson{ID: uuid.New(), ModuleID: moduleB.ID, Title: "B1"}

	return &fixture{
		learnerID: uuid.New(),
		courseID:  courseID,
		moduleA:   moduleA,
		moduleB:   moduleB,
		lessonA1:  lessonA1,
		lessonA2:  lessonA2,
		lessonB1:  lessonB1,
		courses:   &fakeCourseStore{course: &types.Course{ID: courseID, Title: "Intro"}},
		modules:   &fakeModuleStore{modules: []*types.Module{moduleA, moduleB}},
		lessons: &fakeLessonStore{
			byModule: map[uuid.UUID][]*types.Lesson{
				moduleA.ID: {lessonA1, lessonA2},
				moduleB.ID: {lessonB1},
			},
		},
	}
}

func (f *fixture) newSession(t *testing.T, learnerID uuid.UUID) *Session {
	t.Helper()
	s, err := NewSession(SessionConfig{
		LearnerID:    learnerID,
		CourseID:     f.courseID,
		Courses:      f.courses,
		Modules:      f.modules,
		Lessons:      f.lessons,
		Enrollments:  &fakeEnrollmentStore{},
		Achievements: &fakeAchievementStore{},
		Reviews:      &fakeReviewStore{},
		Log:          testLogger(t),
		WriteTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func assertProgress(t *testing.T, got types.Progress, completed, total int) {
	t.Helper()
	if got.CompletedCount != completed || got.TotalCount != total {
		t.Fatalf("progress: want={%d %d} got={%d %d}", completed, total, got.CompletedCount, got.TotalCount)
	}
}
