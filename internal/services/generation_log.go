package services

import (
	"context"
	"errors"
	"time"

	"github.com/Conceptual-Machines/magda-melody/internal/models"
	"gorm.io/gorm"
)

// ErrLoggingDisabled is returned by queries when no database is configured
var ErrLoggingDisabled = errors.New("generation logging is disabled")

const defaultHistoryLimit = 20

type GenerationLogService struct {
	db *gorm.DB
}

func NewGenerationLogService(db *gorm.DB) *GenerationLogService {
	return &GenerationLogService{db: db}
}

// Enabled reports whether a database is configured
func (s *GenerationLogService) Enabled() bool {
	return s != nil && s.db != nil
}

// Record stores one generation. Without a database it does nothing.
func (s *GenerationLogService) Record(ctx context.Context, entry *models.GenerationLog) error {
	if !s.Enabled() {
		return nil
	}
	return s.db.WithContext(ctx).Create(entry).Error
}

// Recent returns the latest generations, newest first, optionally for one user
func (s *GenerationLogService) Recent(ctx context.Context, userID string, limit int) ([]models.GenerationLog, error) {
	if !s.Enabled() {
		return nil, ErrLoggingDisabled
	}
	if limit <= 0 || limit > maxHistoryPageSize {
		limit = defaultHistoryLimit
	}

	query := s.db.WithContext(ctx).Model(&models.GenerationLog{})
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var logs []models.GenerationLog
	if err := query.Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// Find returns one generation by id. With a userID, another user's generation
// is reported as gorm.ErrRecordNotFound.
func (s *GenerationLogService) Find(ctx context.Context, userID, id string) (*models.GenerationLog, error) {
	if !s.Enabled() {
		return nil, ErrLoggingDisabled
	}

	query := s.db.WithContext(ctx).Where("id = ?", id)
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var entry models.GenerationLog
	if err := query.First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// Stats aggregates generations in an optional time window, optionally for one user
func (s *GenerationLogService) Stats(ctx context.Context, userID string, from, to time.Time) (*GenerationStats, error) {
	if !s.Enabled() {
		return nil, ErrLoggingDisabled
	}

	var stats GenerationStats
	query := s.db.WithContext(ctx).Model(&models.GenerationLog{})
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if !from.IsZero() {
		query = query.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("created_at <= ?", to)
	}

	if err := query.Select(
		"COUNT(*) as total_generations",
		"COALESCE(SUM(CASE WHEN refined THEN 1 ELSE 0 END), 0) as refined_generations",
		"COALESCE(SUM(note_count), 0) as total_notes",
		"COALESCE(AVG(overall), 0) as avg_overall",
		"COALESCE(AVG(duration_ms), 0) as avg_duration_ms",
	).Scan(&stats).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}

type GenerationStats struct {
	TotalGenerations   int64   `json:"total_generations"`
	RefinedGenerations int64   `json:"refined_generations"`
	TotalNotes         int64   `json:"total_notes"`
	AvgOverall         float64 `json:"avg_overall"`
	AvgDurationMS      float64 `json:"avg_duration_ms"`
}
