package coursesync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/studypath/studypath-backend/internal/events"
	"github.com/studypath/studypath-backend/internal/pkg/logger"
	"github.com/studypath/studypath-backend/internal/store"
	"github.com/studypath/studypath-backend/internal/types"
)

const defaultWriteTimeout = 10 * time.Second

// mutation is one optimistic command: build derives the optimistic state and
// its compensation from the state it observes, effect is the remote write
// that confirms it, and the compensation is applied if the effect fails.
// Complete and Undo both compile down to this shape.
type mutation struct {
	name string
	// build runs inside the store's critical section, so the snapshot it
	// captures can never race another dispatch.
	build     func(st State) (optimistic, compensate []Action)
	effect    func(ctx context.Context) error
	inFlight  func(on bool) Action
	confirmed []Action
	event     *events.ProgressEvent
}

// Coordinator applies optimistic lesson mutations and reconciles them against
// the remote store. Mutations targeting the same lesson are serialized so
// each snapshot captures the state at the moment its turn starts; mutations
// on different lessons proceed independently.
type Coordinator struct {
	store   *Store
	lessons store.LessonStore
	bus     events.Bus
	log     *logger.Logger
	timeout time.Duration

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewCoordinator(st *Store, lessons store.LessonStore, bus events.Bus, baseLog *logger.Logger, timeout time.Duration) *Coordinator {
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}
	if bus == nil {
		bus = events.NewNoopBus()
	}
	return &Coordinator{
		store:   st,
		lessons: lessons,
		bus:     bus,
		log:     baseLog.With("component", "MutationCoordinator"),
		timeout: timeout,
	}
}

// Complete optimistically marks the lesson complete for the learner, then
// confirms with an atomic set-add on the remote store, rolling back the
// optimistic state if the write fails. Anonymous learners are a no-op.
func (c *Coordinator) Complete(ctx context.Context, learnerID, courseID, lessonID uuid.UUID) {
	if learnerID == uuid.Nil {
		return
	}
	unlock := c.lockLesson(lessonID)
	defer unlock()

	c.execute(ctx, mutation{
		name: "complete lesson",
		build: func(st State) ([]Action, []Action) {
			updated := lessonsWithCompletion(st.Lessons, lessonID, learnerID)
			return []Action{UpdateLesson{Lessons: updated, Progress: CalculateProgress(updated, learnerID)}},
				[]Action{UpdateLesson{Lessons: st.Lessons, Progress: st.Progress}}
		},
		effect: func(ctx context.Context) error {
			return c.lessons.AddToCompletedBy(ctx, lessonID, learnerID)
		},
		inFlight: func(on bool) Action { return SetMutating{Mutating: on} },
		event: &events.ProgressEvent{
			Kind:      events.KindLessonCompleted,
			LearnerID: learnerID,
			CourseID:  courseID,
			LessonID:  lessonID,
		},
	})
}

// Undo is the mirror of Complete: optimistic set-remove, atomic remote
// removal, identical rollback. On success it additionally raises the
// transient undo-success flag for the presentation layer to consume.
func (c *Coordinator) Undo(ctx context.Context, learnerID, courseID, lessonID uuid.UUID) {
	if learnerID == uuid.Nil {
		return
	}
	unlock := c.lockLesson(lessonID)
	defer unlock()

	c.execute(ctx, mutation{
		name: "undo lesson completion",
		build: func(st State) ([]Action, []Action) {
			updated := lessonsWithoutCompletion(st.Lessons, lessonID, learnerID)
			return []Action{UpdateLesson{Lessons: updated, Progress: CalculateProgress(updated, learnerID)}},
				[]Action{UpdateLesson{Lessons: st.Lessons, Progress: st.Progress}}
		},
		effect: func(ctx context.Context) error {
			return c.lessons.RemoveFromCompletedBy(ctx, lessonID, learnerID)
		},
		inFlight:  func(on bool) Action { return SetUndoing{Undoing: on} },
		confirmed: []Action{SetUndoSuccess{UndoSuccess: true}},
		event: &events.ProgressEvent{
			Kind:      events.KindLessonCompletionUndone,
			LearnerID: learnerID,
			CourseID:  courseID,
			LessonID:  lessonID,
		},
	})
}

// execute is the generic optimistic-then-confirm-or-compensate runner. The
// optimistic actions land before the remote write is issued; the remote
// outcome strictly precedes clearing or rolling back the in-flight flag.
func (c *Coordinator) execute(ctx context.Context, m mutation) {
	var compensate []Action
	c.store.Mutate(func(st State) []Action {
		optimistic, comp := m.build(st)
		compensate = comp
		return append(optimistic, m.inFlight(true))
	})

	err := c.runEffect(ctx, m.effect)
	if err != nil {
		c.log.Warn(m.name+" failed, rolling back", "error", err)
		acts := append(compensate,
			SetError{Err: fmt.Errorf("%s: %w", m.name, err)},
			m.inFlight(false),
		)
		c.store.Dispatch(acts...)
		return
	}

	acts := make([]Action, 0, len(m.confirmed)+2)
	acts = append(acts, ResetError{})
	acts = append(acts, m.confirmed...)
	acts = append(acts, m.inFlight(false))
	c.store.Dispatch(acts...)

	if m.event != nil {
		event := *m.event
		event.Progress = c.store.State().Progress
		event.At = time.Now().UTC()
		if err := c.bus.Publish(ctx, event); err != nil {
			c.log.Warn("progress event publish failed", "error", err, "kind", event.Kind)
		}
	}
}

// runEffect bounds the remote write. If the effect does not resolve within
// the timeout the mutation is treated as failed and rolled back; a truly
// stuck effect is abandoned to its goroutine rather than pinning the
// in-flight flag forever.
func (c *Coordinator) runEffect(ctx context.Context, effect func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- effect(ctx) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) lockLesson(lessonID uuid.UUID) func() {
	c.mu.Lock()
	if c.locks == nil {
		c.locks = make(map[uuid.UUID]*sync.Mutex)
	}
	l, ok := c.locks[lessonID]
	if !ok {
		l = &sync.Mutex{}
		c.locks[lessonID] = l
	}
	c.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// lessonsWithCompletion returns a copy of lessons where the target lesson's
// completed_by set gains learnerID. Idempotent: an already-present learner
// changes nothing. Shared lesson values are never mutated.
func lessonsWithCompletion(lessons []*types.Lesson, lessonID, learnerID uuid.UUID) []*types.Lesson {
	out := make([]*types.Lesson, len(lessons))
	for i, l := range lessons {
		if l == nil || l.ID != lessonID || hasCompleted(l, learnerID) {
			out[i] = l
			continue
		}
		clone := *l
		clone.CompletedBy = append(append([]uuid.UUID(nil), l.CompletedBy...), learnerID)
		out[i] = &clone
	}
	return out
}

// lessonsWithoutCompletion is the inverse: the target lesson's completed_by
// set loses learnerID. Removing an absent learner changes nothing.
func lessonsWithoutCompletion(lessons []*types.Lesson, lessonID, learnerID uuid.UUID) []*types.Lesson {
	out := make([]*types.Lesson, len(lessons))
	for i, l := range lessons {
		if l == nil || l.ID != lessonID || !hasCompleted(l, learnerID) {
			out[i] = l
			continue
		}
		clone := *l
		kept := make([]uuid.UUID, 0, len(l.CompletedBy))
		for _, id := range l.CompletedBy {
			if id != learnerID {
				kept = append(kept, id)
			}
		}
		clone.CompletedBy = kept
		out[i] = &clone
	}
	return out
}
