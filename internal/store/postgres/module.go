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

type moduleStore struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewModuleStore(db *gorm.DB, baseLog *logger.Logger) store.ModuleStore {
	return &moduleStore{db: db, log: baseLog.With("store", "ModuleStore")}
}

func (s *moduleStore) GetByCourseID(ctx context.Context, courseID uuid.UUID) ([]*types.Module, error) {
	if courseID == uuid.Nil {
		return nil, fmt.Errorf("course id: %w", pkgerrors.ErrInvalidArgument)
	}
	var modules []*types.Module
	if err := s.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order(`"index" ASC`).
		Find(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}
