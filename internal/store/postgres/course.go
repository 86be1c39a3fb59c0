package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/studypath/studypath-backend/internal/pkg/errors"
	"github.com/studypath/studypath-backend/internal/pkg/logger"
	"github.com/studypath/studypath-backend/internal/store"
	"github.com/studypath/studypath-backend/internal/types"
)

type courseStore struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseStore(db *gorm.DB, baseLog *logger.Logger) store.CourseStore {
	return &courseStore{db: db, log: baseLog.With("store", "CourseStore")}
}

func (s *courseStore) GetByID(ctx context.Context, id uuid.UUID) (*types.Course, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("course id: %w", pkgerrors.ErrInvalidArgument)
	}
	var course types.Course
	if err := s.db.WithContext(ctx).
		Where("id = ?", id).
		First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("course %s: %w", id, pkgerrors.ErrNotFound)
		}
		return nil, err
	}
	return &course, nil
}
