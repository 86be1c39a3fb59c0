package coursesync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/studypath/studypath-backend/internal/events"
	"github.com/studypath/studypath-backend/internal/pkg/logger"
	"github.com/studypath/studypath-backend/internal/store"
	"github.com/studypath/studypath-backend/internal/types"
)

// SessionConfig carries every collaborator a session depends on. Nothing is
// read from ambient context: the learner identity and the stores arrive here
// explicitly.
type SessionConfig struct {
	LearnerID uuid.UUID // uuid.Nil for anonymous learners
	CourseID  uuid.UUID

	Courses      store.CourseStore
	Modules      store.ModuleStore
	Lessons      store.LessonStore
	Enrollments  store.EnrollmentStore
	Achievements store.AchievementStore
	Reviews      store.ReviewStore

	Bus          events.Bus
	Log          *logger.Logger
	WriteTimeout time.Duration
}

// Session is one learner's live view of one course: the state store, the
// hierarchy aggregator, and the mutation coordinator wired together. It lives
// for the duration of the course view and is discarded when the view closes.
//
// Refresh, Complete and Undo never return an error; failures land in the
// store's Err field where consumers already look.
type Session struct {
	learnerID uuid.UUID
	courseID  uuid.UUID

	store *Store
	agg   *Aggregator
	coord *Coordinator

	enrollments  store.EnrollmentStore
	achievements store.AchievementStore
	reviews      store.ReviewStore

	log *logger.Logger
}

func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.CourseID == uuid.Nil {
		return nil, fmt.Errorf("missing course id")
	}
	if cfg.Courses == nil || cfg.Modules == nil || cfg.Lessons == nil {
		return nil, fmt.Errorf("missing hierarchy stores")
	}
	if cfg.Log == nil {
		return nil, fmt.Errorf("missing logger")
	}

	log := cfg.Log.With(
		"component", "CourseSyncSession",
		"course_id", cfg.CourseID,
		"learner_id", cfg.LearnerID,
	)
	st := NewStore()
	return &Session{
		learnerID:    cfg.LearnerID,
		courseID:     cfg.CourseID,
		store:        st,
		agg:          NewAggregator(cfg.Courses, cfg.Modules, cfg.Lessons, cfg.Log),
		coord:        NewCoordinator(st, cfg.Lessons, cfg.Bus, cfg.Log, cfg.WriteTimeout),
		enrollments:  cfg.Enrollments,
		achievements: cfg.Achievements,
		reviews:      cfg.Reviews,
		log:          log,
	}, nil
}

// State returns the current snapshot.
func (s *Session) State() State {
	return s.store.State()
}

// Refresh loads the full hierarchy, runs the resolvers, derives progress and
// populates the store in one atomic batch. An aggregation failure is blocking
// (error set, no partial hierarchy); resolver failures are not — enrollment
// falls back to not-enrolled and achievements/reviews stay empty.
func (s *Session) Refresh(ctx context.Context) {
	s.store.Dispatch(SetLoading{Loading: true}, ResetError{})

	h, err := s.agg.Load(ctx, s.courseID)
	if err != nil {
		s.log.Error("hierarchy load failed", "error", err)
		s.store.Dispatch(SetError{Err: err}, SetLoading{Loading: false})
		return
	}

	enrollment := types.EnrollmentStatusNotEnrolled
	var achievements []*types.Achievement
	if s.learnerID != uuid.Nil {
		if s.enrollments != nil {
			rows, err := s.enrollments.GetByLearnerID(ctx, s.learnerID)
			if err != nil {
				s.log.Warn("enrollment lookup failed, defaulting to not enrolled", "error", err)
			} else {
				for _, e := range rows {
					if e != nil && e.CourseID == s.courseID {
						enrollment = e.Status
						break
					}
				}
			}
		}
		if s.achievements != nil {
			rows, err := s.achievements.GetByLearnerID(ctx, s.learnerID)
			if err != nil {
				s.log.Warn("achievement lookup failed, defaulting to empty", "error", err)
			} else {
				achievements = rows
			}
		}
	}

	var reviews []*types.Review
	if s.reviews != nil {
		rows, err := s.reviews.GetByCourseID(ctx, s.courseID)
		if err != nil {
			s.log.Warn("review lookup failed, defaulting to empty", "error", err)
		} else {
			reviews = rows
		}
	}

	s.store.Dispatch(
		SetCourse{Course: h.Course},
		SetModules{Modules: h.Modules},
		SetLessons{Lessons: h.Lessons},
		SetProgress{Progress: CalculateProgress(h.Lessons, s.learnerID)},
		SetEnrollment{Status: enrollment},
		SetAchievements{Achievements: achievements},
		SetReviews{Reviews: reviews},
		SetLoading{Loading: false},
	)
}

// Complete marks the lesson complete for this session's learner. No-op for
// anonymous sessions.
func (s *Session) Complete(ctx context.Context, lessonID uuid.UUID) {
	s.coord.Complete(ctx, s.learnerID, s.courseID, lessonID)
}

// Undo reverts the learner's completion of the lesson. No-op for anonymous
// sessions.
func (s *Session) Undo(ctx context.Context, lessonID uuid.UUID) {
	s.coord.Undo(ctx, s.learnerID, s.courseID, lessonID)
}

// ClearError clears the non-blocking error surfaced by a failed mutation.
func (s *Session) ClearError() {
	s.store.Dispatch(ResetError{})
}

// ClearUndoSuccess consumes the transient undo-success flag.
func (s *Session) ClearUndoSuccess() {
	s.store.Dispatch(SetUndoSuccess{UndoSuccess: false})
}
