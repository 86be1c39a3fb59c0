package app

import (
	"gorm.io/gorm"

	"github.com/studypath/studypath-backend/internal/pkg/logger"
	"github.com/studypath/studypath-backend/internal/services"
	"github.com/studypath/studypath-backend/internal/store/postgres"
)

func wireStores(db *gorm.DB, log *logger.Logger) services.SyncStores {
	log.Info("Wiring stores...")
	return services.SyncStores{
		Courses:      postgres.NewCourseStore(db, log),
		Modules:      postgres.NewModuleStore(db, log),
		Lessons:      postgres.NewLessonStore(db, log),
		Enrollments:  postgres.NewEnrollmentStore(db, log),
		Achievements: postgres.NewAchievementStore(db, log),
		Reviews:      postgres.NewReviewStore(db, log),
	}
}
