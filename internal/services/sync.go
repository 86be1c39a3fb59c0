package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/studypath/studypath-backend/internal/coursesync"
	"github.com/studypath/studypath-backend/internal/events"
	"github.com/studypath/studypath-backend/internal/pkg/logger"
	"github.com/studypath/studypath-backend/internal/store"
)

// SyncStores bundles the remote collections the sync engine reads and writes.
type SyncStores struct {
	Courses      store.CourseStore
	Modules      store.ModuleStore
	Lessons      store.LessonStore
	Enrollments  store.EnrollmentStore
	Achievements store.AchievementStore
	Reviews      store.ReviewStore
}

// SyncService owns the live course sessions, one per learner and course,
// mirroring the view lifecycle: a session is created on first access and
// discarded on close.
type SyncService interface {
	GetOrCreate(ctx context.Context, learnerID, courseID uuid.UUID) (*coursesync.Session, error)
	Get(learnerID, courseID uuid.UUID) (*coursesync.Session, bool)
	Close(learnerID, courseID uuid.UUID)
	CloseAll()
}

type sessionKey struct {
	learnerID uuid.UUID
	courseID  uuid.UUID
}

type syncService struct {
	log          *logger.Logger
	stores       SyncStores
	bus          events.Bus
	writeTimeout time.Duration

	mu       sync.Mutex
	sessions map[sessionKey]*coursesync.Session
}

func NewSyncService(stores SyncStores, bus events.Bus, baseLog *logger.Logger, writeTimeout time.Duration) (SyncService, error) {
	if stores.Courses == nil || stores.Modules == nil || stores.Lessons == nil {
		return nil, fmt.Errorf("missing hierarchy stores")
	}
	if baseLog == nil {
		return nil, fmt.Errorf("missing logger")
	}
	if bus == nil {
		bus = events.NewNoopBus()
	}
	return &syncService{
		log:          baseLog.With("service", "SyncService"),
		stores:       stores,
		bus:          bus,
		writeTimeout: writeTimeout,
		sessions:     make(map[sessionKey]*coursesync.Session),
	}, nil
}

// GetOrCreate returns the live session for the learner and course, creating
// and loading it on first access. The initial load runs synchronously so a
// freshly created session is never observed empty.
func (s *syncService) GetOrCreate(ctx context.Context, learnerID, courseID uuid.UUID) (*coursesync.Session, error) {
	key := sessionKey{learnerID: learnerID, courseID: courseID}

	s.mu.Lock()
	if existing, ok := s.sessions[key]; ok {
		s.mu.Unlock()
		return existing, nil
	}
	session, err := coursesync.NewSession(coursesync.SessionConfig{
		LearnerID:    learnerID,
		CourseID:     courseID,
		Courses:      s.stores.Courses,
		Modules:      s.stores.Modules,
		Lessons:      s.stores.Lessons,
		Enrollments:  s.stores.Enrollments,
		Achievements: s.stores.Achievements,
		Reviews:      s.stores.Reviews,
		Bus:          s.bus,
		Log:          s.log,
		WriteTimeout: s.writeTimeout,
	})
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.sessions[key] = session
	s.mu.Unlock()

	session.Refresh(ctx)
	s.log.Debug("session created", "learner_id", learnerID, "course_id", courseID)
	return session, nil
}

func (s *syncService) Get(learnerID, courseID uuid.UUID) (*coursesync.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionKey{learnerID: learnerID, courseID: courseID}]
	return session, ok
}

func (s *syncService) Close(learnerID, courseID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionKey{learnerID: learnerID, courseID: courseID})
}

func (s *syncService) CloseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[sessionKey]*coursesync.Session)
}
