package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Lesson.CompletedBy is an unordered set of learner IDs persisted as a jsonb
// array. Set semantics are enforced both by the store's atomic add/remove
// statements and by the client-side helpers in coursesync; duplicates must
// never be introduced.
type Lesson struct {
	ID              uuid.UUID                      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ModuleID        uuid.UUID                      `gorm:"type:uuid;not null;index" json:"module_id"`
	Module          *Module                        `gorm:"constraint:OnDelete:CASCADE;foreignKey:ModuleID;references:ID" json:"module,omitempty"`
	Title           string                         `gorm:"column:title;not null" json:"title"`
	DurationMinutes int                            `gorm:"column:duration_minutes;not null;default:0" json:"duration_minutes"`
	CompletedBy     datatypes.JSONSlice[uuid.UUID] `gorm:"column:completed_by;type:jsonb" json:"completed_by"`
	CreatedAt       time.Time                      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time                      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt       gorm.DeletedAt                 `gorm:"index" json:"deleted_at,omitempty"`
}

func (Lesson) TableName() string { return "lesson" }
