package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/studypath/studypath-backend/internal/pkg/errors"
	"github.com/studypath/studypath-backend/internal/pkg/logger"
	"github.com/studypath/studypath-backend/internal/store"
	"github.com/studypath/studypath-backend/internal/types"
)

type lessonStore struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonStore(db *gorm.DB, baseLog *logger.Logger) store.LessonStore {
	return &lessonStore{db: db, log: baseLog.With("store", "LessonStore")}
}

func (s *lessonStore) GetByModuleID(ctx context.Context, moduleID uuid.UUID) ([]*types.Lesson, error) {
	if moduleID == uuid.Nil {
		return nil, fmt.Errorf("module id: %w", pkgerrors.ErrInvalidArgument)
	}
	var lessons []*types.Lesson
	if err := s.db.WithContext(ctx).
		Where("module_id = ?", moduleID).
		Order("created_at ASC").
		Find(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

// AddToCompletedBy appends the learner to completed_by in a single UPDATE.
// The containment guard keeps the jsonb array a set even under concurrent
// writers; there is no read-modify-write on the client side.
func (s *lessonStore) AddToCompletedBy(ctx context.Context, lessonID, learnerID uuid.UUID) error {
	if lessonID == uuid.Nil || learnerID == uuid.Nil {
		return fmt.Errorf("lesson/learner id: %w", pkgerrors.ErrInvalidArgument)
	}
	res := s.db.WithContext(ctx).Exec(`
		UPDATE lesson
		SET completed_by = CASE
			WHEN coalesce(completed_by, '[]'::jsonb) @> to_jsonb(?::text)
				THEN coalesce(completed_by, '[]'::jsonb)
			ELSE coalesce(completed_by, '[]'::jsonb) || to_jsonb(?::text)
		END,
		updated_at = now()
		WHERE id = ? AND deleted_at IS NULL`,
		learnerID.String(), learnerID.String(), lessonID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("lesson %s: %w", lessonID, pkgerrors.ErrNotFound)
	}
	return nil
}

// RemoveFromCompletedBy deletes the learner from completed_by in a single
// UPDATE. jsonb's "- text" operator removes all matching string elements.
func (s *lessonStore) RemoveFromCompletedBy(ctx context.Context, lessonID, learnerID uuid.UUID) error {
	if lessonID == uuid.Nil || learnerID == uuid.Nil {
		return fmt.Errorf("lesson/learner id: %w", pkgerrors.ErrInvalidArgument)
	}
	res := s.db.WithContext(ctx).Exec(`
		UPDATE lesson
		SET completed_by = coalesce(completed_by, '[]'::jsonb) - ?::text,
		updated_at = now()
		WHERE id = ? AND deleted_at IS NULL`,
		learnerID.String(), lessonID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("lesson %s: %w", lessonID, pkgerrors.ErrNotFound)
	}
	return nil
}
