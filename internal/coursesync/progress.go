package coursesync

import (
	"github.com/google/uuid"

	"github.com/studypath/studypath-backend/internal/types"
)

// CalculateProgress derives the learner's progress over the given lessons.
// Pure: no I/O, no side effects. An anonymous learner (uuid.Nil) has zero
// completions. Callers must store the returned progress together with the
// same lessons slice it was computed from.
func CalculateProgress(lessons []*types.Lesson, learnerID uuid.UUID) types.Progress {
	progress := types.Progress{TotalCount: len(lessons)}
	if learnerID == uuid.Nil {
		return progress
	}
	for _, l := range lessons {
		if hasCompleted(l, learnerID) {
			progress.CompletedCount++
		}
	}
	return progress
}

func hasCompleted(l *types.Lesson, learnerID uuid.UUID) bool {
	if l == nil {
		return false
	}
	for _, id := range l.CompletedBy {
		if id == learnerID {
			return true
		}
	}
	return false
}
