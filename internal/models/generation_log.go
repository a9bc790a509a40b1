package models

import (
	"time"

	"github.com/Conceptual-Machines/magda-melody/internal/music/library"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GenerationLog records one generate call: its seed, resolved parameters and
// the resulting score. RequestedShape and Patterns keep the inputs the seed
// draws from, so the melody can be composed again.
type GenerationLog struct {
	ID               uuid.UUID               `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt        time.Time               `gorm:"index" json:"created_at"`
	RequestID        string                  `gorm:"index" json:"request_id"`
	UserID           string                  `gorm:"index" json:"user_id"`
	Seed             int64                   `gorm:"not null" json:"seed"`
	Key              string                  `gorm:"not null" json:"key"`
	Scale            string                  `gorm:"not null" json:"scale"`
	Shape            string                  `gorm:"not null" json:"shape"`
	RequestedShape   string                  `json:"requested_shape"`
	Complexity       string                  `json:"complexity"`
	Mood             string                  `json:"mood"`
	Length           int                     `gorm:"not null" json:"length"`
	Tempo            float64                 `gorm:"not null" json:"tempo"`
	ChordProgression string                  `json:"chord_progression"` // comma separated
	LearnedPatterns  bool                    `gorm:"default:false" json:"learned_patterns"`
	Patterns         library.LearnedPatterns `gorm:"type:jsonb;serializer:json" json:"patterns"`
	NoteCount        int                     `gorm:"not null" json:"note_count"`
	Overall          float64                 `gorm:"not null" json:"overall"`
	Contour          float64                 `json:"contour"`
	Rhythm           float64                 `json:"rhythm"`
	Harmony          float64                 `json:"harmony"`
	Repetition       float64                 `json:"repetition"`
	Range            float64                 `json:"range"`
	Refined          bool                    `gorm:"default:false;index" json:"refined"`
	DurationMS       int64                   `json:"duration_ms"`
}

// BeforeCreate assigns an id when none is set
func (g *GenerationLog) BeforeCreate(_ *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
