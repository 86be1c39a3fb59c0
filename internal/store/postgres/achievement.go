package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studypath/studypath-backend/internal/pkg/logger"
	"github.com/studypath/studypath-backend/internal/store"
	"github.com/studypath/studypath-backend/internal/types"
)

type achievementStore struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAchievementStore(db *gorm.DB, baseLog *logger.Logger) store.AchievementStore {
	return &achievementStore{db: db, log: baseLog.With("store", "AchievementStore")}
}

func (s *achievementStore) GetByLearnerID(ctx context.Context, learnerID uuid.UUID) ([]*types.Achievement, error) {
	var results []*types.Achievement
	if learnerID == uuid.Nil {
		return results, nil
	}
	if err := s.db.WithContext(ctx).
		Where("learner_id = ?", learnerID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
