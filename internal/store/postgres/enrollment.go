package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studypath/studypath-backend/internal/pkg/logger"
	"github.com/studypath/studypath-backend/internal/store"
	"github.com/studypath/studypath-backend/internal/types"
)

type enrollmentStore struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentStore(db *gorm.DB, baseLog *logger.Logger) store.EnrollmentStore {
	return &enrollmentStore{db: db, log: baseLog.With("store", "EnrollmentStore")}
}

func (s *enrollmentStore) GetByLearnerID(ctx context.Context, learnerID uuid.UUID) ([]*types.Enrollment, error) {
	var results []*types.Enrollment
	if learnerID == uuid.Nil {
		return results, nil
	}
	if err := s.db.WithContext(ctx).
		Where("learner_id = ?", learnerID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
