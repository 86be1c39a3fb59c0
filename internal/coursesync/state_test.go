package coursesync

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/studypath/studypath-backend/internal/types"
)

func TestStoreInitialState(t *testing.T) {
	st := NewStore().State()

	if !st.Loading {
		t.Fatalf("initial loading: want=true got=false")
	}
	if st.Err != nil {
		t.Fatalf("initial error: want=nil got=%v", st.Err)
	}
	if st.Enrollment != types.EnrollmentStatusNotEnrolled {
		t.Fatalf("initial enrollment: want=%q got=%q", types.EnrollmentStatusNotEnrolled, st.Enrollment)
	}
	if len(st.Lessons) != 0 || len(st.Modules) != 0 {
		t.Fatalf("initial collections not empty: modules=%d lessons=%d", len(st.Modules), len(st.Lessons))
	}
}

func TestReduceTransitions(t *testing.T) {
	course := &types.Course{ID: uuid.New(), Title: "Intro"}
	modules := []*types.Module{{ID: uuid.New()}}
	lessons := []*types.Lesson{{ID: uuid.New()}}
	boom := errors.New("boom")

	s := initialState()
	s = reduce(s, SetLoading{Loading: false})
	s = reduce(s, SetCourse{Course: course})
	s = reduce(s, SetModules{Modules: modules})
	s = reduce(s, SetLessons{Lessons: lessons})
	s = reduce(s, SetProgress{Progress: types.Progress{CompletedCount: 0, TotalCount: 1}})
	s = reduce(s, SetEnrollment{Status: types.EnrollmentStatusActive})
	s = reduce(s, SetMutating{Mutating: true})
	s = reduce(s, SetUndoing{Undoing: true})
	s = reduce(s, SetUndoSuccess{UndoSuccess: true})
	s = reduce(s, SetError{Err: boom})

	if s.Loading {
		t.Fatalf("loading: want=false got=true")
	}
	if s.Course != course {
		t.Fatalf("course not set")
	}
	if len(s.Modules) != 1 || len(s.Lessons) != 1 {
		t.Fatalf("collections: modules=%d lessons=%d", len(s.Modules), len(s.Lessons))
	}
	if s.Enrollment != types.EnrollmentStatusActive {
		t.Fatalf("enrollment: want=%q got=%q", types.EnrollmentStatusActive, s.Enrollment)
	}
	if !s.Mutating || !s.Undoing || !s.UndoSuccess {
		t.Fatalf("flags: mutating=%v undoing=%v undoSuccess=%v", s.Mutating, s.Undoing, s.UndoSuccess)
	}
	if !errors.Is(s.Err, boom) {
		t.Fatalf("error: want=%v got=%v", boom, s.Err)
	}

	s = reduce(s, ResetError{})
	if s.Err != nil {
		t.Fatalf("reset error: want=nil got=%v", s.Err)
	}
}

func TestReduceUpdateLessonReplacesBothFields(t *testing.T) {
	learner := uuid.New()
	oldLessons := []*types.Lesson{{ID: uuid.New()}}
	newLessons := []*types.Lesson{{ID: oldLessons[0].ID, CompletedBy: []uuid.UUID{learner}}}

	s := initialState()
	s = reduce(s, SetLessons{Lessons: oldLessons})
	s = reduce(s, SetProgress{Progress: types.Progress{CompletedCount: 0, TotalCount: 1}})
	s = reduce(s, UpdateLesson{Lessons: newLessons, Progress: types.Progress{CompletedCount: 1, TotalCount: 1}})

	if len(s.Lessons) != 1 || len(s.Lessons[0].CompletedBy) != 1 {
		t.Fatalf("lessons not replaced")
	}
	assertProgress(t, s.Progress, 1, 1)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	before := initialState()
	_ = reduce(before, SetLoading{Loading: false})
	if !before.Loading {
		t.Fatalf("reduce mutated its input state")
	}
}

// A multi-action dispatch must be atomic: progress is always derivable from
// the lessons stored alongside it.
func TestDispatchBatchKeepsLessonsAndProgressConsistent(t *testing.T) {
	learner := uuid.New()
	st := NewStore()

	lessons := []*types.Lesson{
		{ID: uuid.New(), CompletedBy: []uuid.UUID{learner}},
		{ID: uuid.New()},
	}
	st.Dispatch(
		SetLessons{Lessons: lessons},
		SetProgress{Progress: CalculateProgress(lessons, learner)},
	)

	got := st.State()
	want := CalculateProgress(got.Lessons, learner)
	if got.Progress != want {
		t.Fatalf("progress stale: want=%+v got=%+v", want, got.Progress)
	}
}
