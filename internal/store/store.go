package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/studypath/studypath-backend/internal/types"
)

// The sync engine talks to the remote collections through these interfaces
// only. Implementations must provide single-document atomic writes; reads may
// be eventually consistent.

type CourseStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*types.Course, error)
}

type ModuleStore interface {
	// GetByCourseID returns the course's modules ordered by their index field.
	GetByCourseID(ctx context.Context, courseID uuid.UUID) ([]*types.Module, error)
}

type LessonStore interface {
	GetByModuleID(ctx context.Context, moduleID uuid.UUID) ([]*types.Lesson, error)
	// AddToCompletedBy atomically adds learnerID to the lesson's completed_by
	// set. Adding an already-present learner is a no-op.
	AddToCompletedBy(ctx context.Context, lessonID, learnerID uuid.UUID) error
	// RemoveFromCompletedBy atomically removes learnerID from the lesson's
	// completed_by set. Removing an absent learner is a no-op.
	RemoveFromCompletedBy(ctx context.Context, lessonID, learnerID uuid.UUID) error
}

type EnrollmentStore interface {
	GetByLearnerID(ctx context.Context, learnerID uuid.UUID) ([]*types.Enrollment, error)
}

type AchievementStore interface {
	GetByLearnerID(ctx context.Context, learnerID uuid.UUID) ([]*types.Achievement, error)
}

type ReviewStore interface {
	GetByCourseID(ctx context.Context, courseID uuid.UUID) ([]*types.Review, error)
}
