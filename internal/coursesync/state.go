package coursesync

import (
	"sync"

	"github.com/studypath/studypath-backend/internal/types"
)

// State is the session's full view of one course for one learner. Reducers
// replace slice and pointer fields wholesale and never mutate them in place,
// so a State returned by Store.State is safe to read without further locking.
type State struct {
	Course       *types.Course
	Modules      []*types.Module
	Lessons      []*types.Lesson
	Progress     types.Progress
	Enrollment   string
	Achievements []*types.Achievement
	Reviews      []*types.Review
	Loading      bool
	Err          error
	Mutating     bool
	Undoing      bool
	UndoSuccess  bool
}

// Action is the closed set of state transitions. Every change to the Store
// goes through Dispatch with one of these; there is no ad hoc field write.
type Action interface {
	isAction()
}

type SetLoading struct{ Loading bool }
type SetError struct{ Err error }
type ResetError struct{}
type SetCourse struct{ Course *types.Course }
type SetModules struct{ Modules []*types.Module }
type SetLessons struct{ Lessons []*types.Lesson }
type SetProgress struct{ Progress types.Progress }
type SetEnrollment struct{ Status string }
type SetAchievements struct{ Achievements []*types.Achievement }
type SetReviews struct{ Reviews []*types.Review }
type SetMutating struct{ Mutating bool }
type SetUndoing struct{ Undoing bool }
type SetUndoSuccess struct{ UndoSuccess bool }

// UpdateLesson replaces lessons and progress together so observers never see
// one without the other. The rollback path reuses it with the pre-mutation
// snapshot.
type UpdateLesson struct {
	Lessons  []*types.Lesson
	Progress types.Progress
}

func (SetLoading) isAction()      {}
func (SetError) isAction()        {}
func (ResetError) isAction()      {}
func (SetCourse) isAction()       {}
func (SetModules) isAction()      {}
func (SetLessons) isAction()      {}
func (SetProgress) isAction()     {}
func (SetEnrollment) isAction()   {}
func (SetAchievements) isAction() {}
func (SetReviews) isAction()      {}
func (SetMutating) isAction()     {}
func (SetUndoing) isAction()      {}
func (SetUndoSuccess) isAction()  {}
func (UpdateLesson) isAction()    {}

func initialState() State {
	return State{
		Loading:    true,
		Enrollment: types.EnrollmentStatusNotEnrolled,
	}
}

// reduce is the pure transition function. Unknown actions leave the state
// unchanged.
func reduce(s State, a Action) State {
	switch act := a.(type) {
	case SetLoading:
		s.Loading = act.Loading
	case SetError:
		s.Err = act.Err
	case ResetError:
		s.Err = nil
	case SetCourse:
		s.Course = act.Course
	case SetModules:
		s.Modules = act.Modules
	case SetLessons:
		s.Lessons = act.Lessons
	case SetProgress:
		s.Progress = act.Progress
	case SetEnrollment:
		s.Enrollment = act.Status
	case SetAchievements:
		s.Achievements = act.Achievements
	case SetReviews:
		s.Reviews = act.Reviews
	case SetMutating:
		s.Mutating = act.Mutating
	case SetUndoing:
		s.Undoing = act.Undoing
	case SetUndoSuccess:
		s.UndoSuccess = act.UndoSuccess
	case UpdateLesson:
		s.Lessons = act.Lessons
		s.Progress = act.Progress
	}
	return s
}

// Store holds the session state and applies actions under a single lock. A
// multi-action Dispatch is atomic: no observer sees a state between the
// actions of one batch.
type Store struct {
	mu    sync.Mutex
	state State
}

func NewStore() *Store {
	return &Store{state: initialState()}
}

func (s *Store) Dispatch(actions ...Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range actions {
		s.state = reduce(s.state, a)
	}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Mutate lets a caller derive actions from the current state and apply them
// in the same critical section, so the derivation can never race another
// dispatch. fn must not block or dispatch.
func (s *Store) Mutate(fn func(State) []Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range fn(s.state) {
		s.state = reduce(s.state, a)
	}
}
