package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/studypath/studypath-backend/internal/types"
)

const (
	KindLessonCompleted        = "lesson_completed"
	KindLessonCompletionUndone = "lesson_completion_undone"
)

// ProgressEvent is published only after the remote write is confirmed, never
// for optimistic state.
type ProgressEvent struct {
	Kind      string         `json:"kind"`
	LearnerID uuid.UUID      `json:"learner_id"`
	CourseID  uuid.UUID      `json:"course_id"`
	LessonID  uuid.UUID      `json:"lesson_id"`
	Progress  types.Progress `json:"progress"`
	At        time.Time      `json:"at"`
}

type Bus interface {
	Publish(ctx context.Context, event ProgressEvent) error
	Close() error
}

type noopBus struct{}

// NewNoopBus returns a bus that drops every event. Used when no broker is
// configured and in tests.
func NewNoopBus() Bus { return noopBus{} }

func (noopBus) Publish(ctx context.Context, event ProgressEvent) error { return nil }
func (noopBus) Close() error                                           { return nil }
