package models

import (
	"time"

	"github.com/lib/pq"
)

// ProgramCategory is the closed set of catalog categories.
type ProgramCategory string

const (
	ProgramCategoryDevelopment ProgramCategory = "development"
	ProgramCategoryDesign      ProgramCategory = "design"
	ProgramCategoryData        ProgramCategory = "data"
	ProgramCategoryMarketing   ProgramCategory = "marketing"
	ProgramCategoryManagement  ProgramCategory = "management"
)

// ProgramLevel is the closed set of difficulty levels.
type ProgramLevel string

const (
	ProgramLevelBeginner     ProgramLevel = "beginner"
	ProgramLevelIntermediate ProgramLevel = "intermediate"
	ProgramLevelAdvanced     ProgramLevel = "advanced"
)

// ProgramStatus marks whether a program is open for enrollment.
type ProgramStatus string

const (
	ProgramStatusActive   ProgramStatus = "active"
	ProgramStatusInactive ProgramStatus = "inactive"
)

// Program is a catalog entry describing an internship program.
type Program struct {
	ID          string          `db:"id" json:"id"`
	Title       string          `db:"title" json:"title"`
	Summary     string          `db:"summary" json:"summary"`
	Category    ProgramCategory `db:"category" json:"category"`
	Level       ProgramLevel    `db:"level" json:"level"`
	Duration    int             `db:"duration" json:"duration"`
	Rating      float64         `db:"rating" json:"rating"`
	Skills      pq.StringArray  `db:"skills" json:"skills"`
	Price       float64         `db:"price" json:"price"`
	Currency    string          `db:"currency" json:"currency"`
	Status      ProgramStatus   `db:"status" json:"status"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// ProgramFilter captures filtering criteria for listing programs.
type ProgramFilter struct {
	Search    string
	Category  *ProgramCategory
	Level     *ProgramLevel
	Status    *ProgramStatus
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
