package coursesync

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	pkgerrors "github.com/studypath/studypath-backend/internal/pkg/errors"
	"github.com/studypath/studypath-backend/internal/pkg/logger"
	"github.com/studypath/studypath-backend/internal/store"
	"github.com/studypath/studypath-backend/internal/types"
)

const (
	StageCourse  = "course"
	StageModules = "modules"
	StageLessons = "lessons"
)

// AggregateError marks which stage of the hierarchy load failed. Any failure
// fails the whole load; callers never receive a partial hierarchy.
type AggregateError struct {
	Stage string
	Err   error
}

func (e *AggregateError) Error() string {
	return fmt.Sprintf("aggregate %s: %v", e.Stage, e.Err)
}

func (e *AggregateError) Unwrap() error { return e.Err }

// Hierarchy is the flattened course outline: lessons are concatenated in
// module order.
type Hierarchy struct {
	Course  *types.Course
	Modules []*types.Module
	Lessons []*types.Lesson
}

type Aggregator struct {
	courses store.CourseStore
	modules store.ModuleStore
	lessons store.LessonStore
	log     *logger.Logger
}

func NewAggregator(courses store.CourseStore, modules store.ModuleStore, lessons store.LessonStore, baseLog *logger.Logger) *Aggregator {
	return &Aggregator{
		courses: courses,
		modules: modules,
		lessons: lessons,
		log:     baseLog.With("component", "Aggregator"),
	}
}

// Load fetches the course, its modules, and every module's lessons. Lesson
// fetches run concurrently, one per module, so total latency is bounded by
// the slowest module rather than the sum. The first failure cancels the
// remaining fetches.
func (a *Aggregator) Load(ctx context.Context, courseID uuid.UUID) (*Hierarchy, error) {
	if courseID == uuid.Nil {
		return nil, &AggregateError{Stage: StageCourse, Err: pkgerrors.ErrInvalidArgument}
	}

	course, err := a.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, &AggregateError{Stage: StageCourse, Err: err}
	}

	modules, err := a.modules.GetByCourseID(ctx, courseID)
	if err != nil {
		return nil, &AggregateError{Stage: StageModules, Err: err}
	}

	perModule := make([][]*types.Lesson, len(modules))
	g, gctx := errgroup.WithContext(ctx)
	for i, m := range modules {
		i, m := i, m
		g.Go(func() error {
			lessons, err := a.lessons.GetByModuleID(gctx, m.ID)
			if err != nil {
				return fmt.Errorf("module %s: %w", m.ID, err)
			}
			perModule[i] = lessons
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, &AggregateError{Stage: StageLessons, Err: err}
	}

	var lessons []*types.Lesson
	for _, batch := range perModule {
		lessons = append(lessons, batch...)
	}

	a.log.Debug("hierarchy loaded",
		"course_id", courseID,
		"modules", len(modules),
		"lessons", len(lessons),
	)
	return &Hierarchy{Course: course, Modules: modules, Lessons: lessons}, nil
}
