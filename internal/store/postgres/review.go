package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studypath/studypath-backend/internal/pkg/logger"
	"github.com/studypath/studypath-backend/internal/store"
	"github.com/studypath/studypath-backend/internal/types"
)

type reviewStore struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReviewStore(db *gorm.DB, baseLog *logger.Logger) store.ReviewStore {
	return &reviewStore{db: db, log: baseLog.With("store", "ReviewStore")}
}

func (s *reviewStore) GetByCourseID(ctx context.Context, courseID uuid.UUID) ([]*types.Review, error) {
	var results []*types.Review
	if courseID == uuid.Nil {
		return results, nil
	}
	if err := s.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
