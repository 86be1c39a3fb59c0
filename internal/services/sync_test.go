package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/studypath/studypath-backend/internal/pkg/logger"
	"github.com/studypath/studypath-backend/internal/types"
)

type stubCourseStore struct{ course *types.Course }

func (s *stubCourseStore) GetByID(ctx context.Context, id uuid.UUID) (*types.Course, error) {
	return s.course, nil
}

type stubModuleStore struct{ modules []*types.Module }

func (s *stubModuleStore) GetByCourseID(ctx context.Context, courseID uuid.UUID) ([]*types.Module, error) {
	return s.modules, nil
}

type stubLessonStore struct{ byModule map[uuid.UUID][]*types.Lesson }

func (s *stubLessonStore) GetByModuleID(ctx context.Context, moduleID uuid.UUID) ([]*types.Lesson, error) {
	return s.byModule[moduleID], nil
}
func (s *stubLessonStore) AddToCompletedBy(ctx context.Context, lessonID, learnerID uuid.UUID) error {
	return nil
}
func (s *stubLessonStore) RemoveFromCompletedBy(ctx context.Context, lessonID, learnerID uuid.UUID) error {
	return nil
}

func newTestService(t *testing.T) (SyncService, uuid.UUID) {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	courseID := uuid.New()
	moduleID := uuid.New()
	svc, err := NewSyncService(SyncStores{
		Courses: &stubCourseStore{course: &types.Course{ID: courseID}},
		Modules: &stubModuleStore{modules: []*types.Module{{ID: moduleID, CourseID: courseID}}},
		Lessons: &stubLessonStore{byModule: map[uuid.UUID][]*types.Lesson{
			moduleID: {{ID: uuid.New(), ModuleID: moduleID}},
		}},
	}, nil, log, 0)
	if err != nil {
		t.Fatalf("NewSyncService: %v", err)
	}
	return svc, courseID
}

func TestGetOrCreateReturnsLoadedSession(t *testing.T) {
	svc, courseID := newTestService(t)
	learnerID := uuid.New()

	session, err := svc.GetOrCreate(context.Background(), learnerID, courseID)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	st := session.State()
	if st.Loading {
		t.Fatalf("fresh session still loading")
	}
	if st.Progress.TotalCount != 1 {
		t.Fatalf("total count: want=1 got=%d", st.Progress.TotalCount)
	}
}

func TestGetOrCreateReusesSession(t *testing.T) {
	svc, courseID := newTestService(t)
	learnerID := uuid.New()
	ctx := context.Background()

	first, err := svc.GetOrCreate(ctx, learnerID, courseID)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	second, err := svc.GetOrCreate(ctx, learnerID, courseID)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if first != second {
		t.Fatalf("sessions not reused")
	}
}

func TestSessionsAreScopedPerLearner(t *testing.T) {
	svc, courseID := newTestService(t)
	ctx := context.Background()

	a, _ := svc.GetOrCreate(ctx, uuid.New(), courseID)
	b, _ := svc.GetOrCreate(ctx, uuid.New(), courseID)
	if a == b {
		t.Fatalf("different learners shared a session")
	}
}

func TestCloseDiscardsSession(t *testing.T) {
	svc, courseID := newTestService(t)
	learnerID := uuid.New()
	ctx := context.Background()

	first, _ := svc.GetOrCreate(ctx, learnerID, courseID)
	svc.Close(learnerID, courseID)
	if _, ok := svc.Get(learnerID, courseID); ok {
		t.Fatalf("session still present after close")
	}
	second, _ := svc.GetOrCreate(ctx, learnerID, courseID)
	if first == second {
		t.Fatalf("closed session was reused")
	}
}

func TestNewSyncServiceValidation(t *testing.T) {
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	if _, err := NewSyncService(SyncStores{}, nil, log, 0); err == nil {
		t.Fatalf("expected error for missing stores")
	}
}
