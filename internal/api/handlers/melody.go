package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Conceptual-Machines/magda-melody/internal/api/middleware"
	"github.com/Conceptual-Machines/magda-melody/internal/config"
	"github.com/Conceptual-Machines/magda-melody/internal/logger"
	"github.com/Conceptual-Machines/magda-melody/internal/metrics"
	"github.com/Conceptual-Machines/magda-melody/internal/models"
	"github.com/Conceptual-Machines/magda-melody/internal/music/composer"
	"github.com/Conceptual-Machines/magda-melody/internal/music/counterpoint"
	"github.com/Conceptual-Machines/magda-melody/internal/music/evaluate"
	"github.com/Conceptual-Machines/magda-melody/internal/music/library"
	"github.com/Conceptual-Machines/magda-melody/internal/music/melody"
	"github.com/Conceptual-Machines/magda-melody/internal/music/motif"
	"github.com/Conceptual-Machines/magda-melody/internal/music/ornament"
	"github.com/Conceptual-Machines/magda-melody/internal/music/refine"
	"github.com/Conceptual-Machines/magda-melody/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MelodyHandler struct {
	cfg        *config.Config
	defaults   composer.Defaults
	learned    library.LearnedPatterns
	logs       *services.GenerationLogService
	cloudwatch *metrics.Client
	sentry     *metrics.SentryMetrics
}

// NewMelodyHandler wires the composer to the API. learned is the server-wide
// pattern pool used when a request brings none; it may be empty.
func NewMelodyHandler(
	cfg *config.Config,
	learned library.LearnedPatterns,
	logs *services.GenerationLogService,
	cloudwatch *metrics.Client,
) *MelodyHandler {
	defaults := composer.StandardDefaults
	defaults.Tempo = cfg.DefaultTempo
	defaults.Length = cfg.DefaultLength

	return &MelodyHandler{
		cfg:        cfg,
		defaults:   defaults,
		learned:    learned,
		logs:       logs,
		cloudwatch: cloudwatch,
		sentry:     metrics.NewSentryMetrics(),
	}
}

type CounterpointOptions struct {
	Species string `json:"species"`
}

type GenerateRequest struct {
	Key              string                   `json:"key"`
	Scale            string                   `json:"scale"`
	Length           *int                     `json:"length" binding:"omitempty,gt=0"`
	Tempo            float64                  `json:"tempo" binding:"gte=0"`
	Shape            string                   `json:"shape"`
	Complexity       string                   `json:"complexity"`
	Mood             string                   `json:"mood"`
	ChordProgression []string                 `json:"chord_progression"`
	Seed             *int64                   `json:"seed"`
	LearnedPatterns  *library.LearnedPatterns `json:"learned_patterns"`
	Counterpoint     *CounterpointOptions     `json:"counterpoint"`
	Ornaments        *ornament.Options        `json:"ornaments"`
}

type GenerateResponse struct {
	RequestID      string             `json:"request_id"`
	Seed           int64              `json:"seed"`
	Notes          []models.NoteEvent `json:"notes"`
	Score          evaluate.Score     `json:"score"`
	Refined        bool               `json:"refined"`
	Refinement     *refine.Report     `json:"refinement,omitempty"`
	Options        composer.Resolved  `json:"options"`
	PrimaryMotif   motif.Motif        `json:"primary_motif"`
	PrimaryLearned bool               `json:"primary_learned"`
	Segments       []motif.Segment    `json:"segments,omitempty"`
	Counterpoint   []models.NoteEvent `json:"counterpoint,omitempty"`
	Species        string             `json:"species,omitempty"`
	Ornaments      *ornament.Report   `json:"ornaments,omitempty"`
	LogID          string             `json:"log_id,omitempty"`
}

// Generate composes a melody, then optionally derives a counterpoint voice
// from it and ornaments it
func (h *MelodyHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Length != nil && (*req.Length <= 0 || *req.Length > h.cfg.MaxMelodyLength) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("length must be between 1 and %d", h.cfg.MaxMelodyLength),
		})
		return
	}

	startTime := time.Now()
	seed := seedOrNew(req.Seed)
	rng := composer.NewRNG(seed)

	params := composer.Params{
		Key:              req.Key,
		Scale:            req.Scale,
		Tempo:            req.Tempo,
		Shape:            req.Shape,
		Complexity:       req.Complexity,
		Mood:             req.Mood,
		ChordProgression: req.ChordProgression,
		Learned:          h.learned,
	}
	if req.Length != nil {
		params.Length = *req.Length
	}
	if req.LearnedPatterns != nil {
		params.Learned = req.LearnedPatterns.Clean()
	}

	result := composer.GenerateWith(rng, params, h.defaults)

	resp := GenerateResponse{
		RequestID:      c.GetString("request_id"),
		Seed:           seed,
		Score:          result.Score,
		Refined:        result.Refined,
		Refinement:     result.Refinement,
		Options:        result.Options,
		PrimaryMotif:   result.Primary,
		PrimaryLearned: result.PrimaryLearned,
		Segments:       result.Segments,
	}

	if req.Counterpoint != nil {
		species, _ := counterpoint.Resolve(req.Counterpoint.Species)
		resp.Species = species
		resp.Counterpoint = models.NoteEventsFromMelody(counterpoint.Generate(rng, result.Melody, species))
	}

	notes := result.Melody
	if req.Ornaments != nil {
		var report ornament.Report
		notes, report = ornament.Apply(rng, notes, *req.Ornaments)
		resp.Ornaments = &report
	}
	resp.Notes = models.NoteEventsFromMelody(notes)

	duration := time.Since(startTime)
	fields := logger.WithContext(c)
	fields["seed"] = seed
	fields["scale"] = result.Options.Scale
	fields["notes"] = len(result.Melody)
	fields["refined"] = result.Refined
	if len(result.Options.Fallbacks) > 0 {
		fields["fallbacks"] = len(result.Options.Fallbacks)
	}
	logger.LogComposition(c.Request.Context(), result.Options.Shape, duration, scoreAxes(result.Score), fields)

	resp.LogID = h.recordGeneration(c, seed, params, result, duration)

	c.JSON(http.StatusOK, resp)
}

// recordGeneration reports metrics and stores the generation log. Failures
// are logged and never fail the request.
func (h *MelodyHandler) recordGeneration(c *gin.Context, seed int64, params composer.Params, result composer.Result, duration time.Duration) string {
	summary := metrics.Generation{
		Endpoint:   c.FullPath(),
		Scale:      result.Options.Scale,
		Shape:      result.Options.Shape,
		Notes:      len(result.Melody),
		Refined:    result.Refined,
		Duration:   duration,
		Overall:    result.Score.Overall,
		Contour:    result.Score.Contour,
		Rhythm:     result.Score.Rhythm,
		Harmony:    result.Score.Harmony,
		Repetition: result.Score.Repetition,
		Range:      result.Score.Range,
	}
	h.sentry.RecordGeneration(c.Request.Context(), summary)
	h.cloudwatch.RecordGeneration(summary)

	if !h.logs.Enabled() {
		return ""
	}

	userID, _ := middleware.GetUserIDFromGateway(c)
	entry := newGenerationLog(seed, params, result, duration)
	entry.RequestID = c.GetString("request_id")
	entry.UserID = userID
	if err := h.logs.Record(context.WithoutCancel(c.Request.Context()), entry); err != nil {
		logger.Error("Failed to store generation log", err, logger.WithContext(c))
		return ""
	}
	return entry.ID.String()
}

// newGenerationLog captures what a replay needs: the seed, the resolved
// parameters that draw nothing from the seed, the requested shape and the
// learned pool that was in effect.
func newGenerationLog(seed int64, params composer.Params, result composer.Result, duration time.Duration) *models.GenerationLog {
	return &models.GenerationLog{
		Seed:             seed,
		Key:              result.Options.Key,
		Scale:            result.Options.Scale,
		Shape:            result.Options.Shape,
		RequestedShape:   params.Shape,
		Complexity:       result.Options.Complexity,
		Mood:             result.Options.Mood,
		Length:           result.Options.Length,
		Tempo:            result.Options.Tempo,
		ChordProgression: strings.Join(params.ChordProgression, ","),
		LearnedPatterns:  !params.Learned.IsEmpty(),
		Patterns:         params.Learned,
		NoteCount:        len(result.Melody),
		Overall:          result.Score.Overall,
		Contour:          result.Score.Contour,
		Rhythm:           result.Score.Rhythm,
		Harmony:          result.Score.Harmony,
		Repetition:       result.Score.Repetition,
		Range:            result.Score.Range,
		Refined:          result.Refined,
		DurationMS:       duration.Milliseconds(),
	}
}

// replayParams rebuilds the composer parameters of a stored generation
func replayParams(entry *models.GenerationLog) composer.Params {
	var progression []string
	if entry.ChordProgression != "" {
		progression = strings.Split(entry.ChordProgression, ",")
	}
	return composer.Params{
		Key:              entry.Key,
		Scale:            entry.Scale,
		Length:           entry.Length,
		Tempo:            entry.Tempo,
		Shape:            entry.RequestedShape,
		Complexity:       entry.Complexity,
		Mood:             entry.Mood,
		ChordProgression: progression,
		Learned:          entry.Patterns,
	}
}

// Replay composes a stored generation again from its seed. Counterpoint and
// ornaments are not part of the log and are not replayed.
func (h *MelodyHandler) Replay(c *gin.Context) {
	if !h.logs.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": services.ErrLoggingDisabled.Error()})
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid generation id"})
		return
	}

	userID, _ := middleware.GetUserIDFromGateway(c)
	entry, err := h.logs.Find(c.Request.Context(), userID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Generation not found"})
		return
	}
	if err != nil {
		logger.Error("Failed to load generation", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load generation"})
		return
	}

	result := composer.GenerateWith(composer.NewRNG(entry.Seed), replayParams(entry), h.defaults)
	c.JSON(http.StatusOK, GenerateResponse{
		RequestID:      c.GetString("request_id"),
		Seed:           entry.Seed,
		Notes:          models.NoteEventsFromMelody(result.Melody),
		Score:          result.Score,
		Refined:        result.Refined,
		Refinement:     result.Refinement,
		Options:        result.Options,
		PrimaryMotif:   result.Primary,
		PrimaryLearned: result.PrimaryLearned,
		Segments:       result.Segments,
		LogID:          entry.ID.String(),
	})
}

type EvaluateRequest struct {
	Notes            []models.NoteEvent `json:"notes" binding:"required,min=1,dive"`
	ChordProgression []string           `json:"chord_progression"`
}

type EvaluateResponse struct {
	Score     evaluate.Score `json:"score"`
	NoteCount int            `json:"note_count"`
}

// Evaluate scores a caller-supplied melody
func (h *MelodyHandler) Evaluate(c *gin.Context) {
	var req EvaluateRequest
	if !h.bindNotes(c, &req, func() int { return len(req.Notes) }) {
		return
	}

	m := models.MelodyFromNoteEvents(req.Notes)
	c.JSON(http.StatusOK, EvaluateResponse{
		Score:     evaluate.Evaluate(m, req.ChordProgression),
		NoteCount: len(m),
	})
}

type RefineRequest struct {
	Notes            []models.NoteEvent `json:"notes" binding:"required,min=1,dive"`
	ChordProgression []string           `json:"chord_progression"`
	Seed             *int64             `json:"seed"`
}

type RefineResponse struct {
	Seed       int64              `json:"seed"`
	Score      evaluate.Score     `json:"score"`
	Refined    bool               `json:"refined"`
	Refinement *refine.Report     `json:"refinement,omitempty"`
	Notes      []models.NoteEvent `json:"notes"`
}

// Refine scores a melody and, when the overall score is under threshold,
// applies one refinement pass. The returned score is the one taken before
// refinement.
func (h *MelodyHandler) Refine(c *gin.Context) {
	var req RefineRequest
	if !h.bindNotes(c, &req, func() int { return len(req.Notes) }) {
		return
	}

	seed := seedOrNew(req.Seed)
	m := models.MelodyFromNoteEvents(req.Notes)
	score := evaluate.Evaluate(m, req.ChordProgression)

	resp := RefineResponse{Seed: seed, Score: score}
	if score.Overall < refine.OverallThreshold {
		refined, report := refine.Refine(composer.NewRNG(seed), m, score, req.ChordProgression)
		m = refined
		resp.Refined = true
		resp.Refinement = &report
	}
	resp.Notes = models.NoteEventsFromMelody(m)

	c.JSON(http.StatusOK, resp)
}

type CounterpointRequest struct {
	Notes   []models.NoteEvent `json:"notes" binding:"required,min=1,dive"`
	Species string             `json:"species"`
	Seed    *int64             `json:"seed"`
}

type CounterpointResponse struct {
	Seed    int64              `json:"seed"`
	Species string             `json:"species"`
	Notes   []models.NoteEvent `json:"notes"`
}

// Counterpoint derives a second voice against the supplied cantus firmus
func (h *MelodyHandler) Counterpoint(c *gin.Context) {
	var req CounterpointRequest
	if !h.bindNotes(c, &req, func() int { return len(req.Notes) }) {
		return
	}

	seed := seedOrNew(req.Seed)
	species, _ := counterpoint.Resolve(req.Species)
	voice := counterpoint.Generate(composer.NewRNG(seed), models.MelodyFromNoteEvents(req.Notes), species)

	c.JSON(http.StatusOK, CounterpointResponse{
		Seed:    seed,
		Species: species,
		Notes:   models.NoteEventsFromMelody(voice),
	})
}

type OrnamentRequest struct {
	Notes []models.NoteEvent `json:"notes" binding:"required,min=1,dive"`
	Kinds []string           `json:"kinds"`
	Seed  *int64             `json:"seed"`
}

type OrnamentResponse struct {
	Seed   int64              `json:"seed"`
	Report ornament.Report    `json:"report"`
	Notes  []models.NoteEvent `json:"notes"`
}

// Ornament adds trills, grace notes and turns. Unknown kinds are ignored.
func (h *MelodyHandler) Ornament(c *gin.Context) {
	var req OrnamentRequest
	if !h.bindNotes(c, &req, func() int { return len(req.Notes) }) {
		return
	}

	seed := seedOrNew(req.Seed)
	out, report := ornament.Apply(composer.NewRNG(seed), models.MelodyFromNoteEvents(req.Notes), ornament.ParseKinds(req.Kinds))

	c.JSON(http.StatusOK, OrnamentResponse{
		Seed:   seed,
		Report: report,
		Notes:  models.NoteEventsFromMelody(out),
	})
}

type TransformRequest struct {
	Notes     []models.NoteEvent `json:"notes" binding:"required,min=1,dive"`
	Operation string             `json:"operation"`
	Semitones int                `json:"semitones"`
	Factor    float64            `json:"factor"`
}

type TransformResponse struct {
	Operation string             `json:"operation"`
	Applied   bool               `json:"applied"`
	Notes     []models.NoteEvent `json:"notes"`
}

// Transform applies transpose, invert, retrograde, augment or diminish. An
// unknown operation returns the notes unchanged with applied=false.
func (h *MelodyHandler) Transform(c *gin.Context) {
	var req TransformRequest
	if !h.bindNotes(c, &req, func() int { return len(req.Notes) }) {
		return
	}

	op := strings.ToLower(strings.TrimSpace(req.Operation))
	out, ok := melody.Apply(models.MelodyFromNoteEvents(req.Notes), op, req.Semitones, req.Factor)

	c.JSON(http.StatusOK, TransformResponse{
		Operation: op,
		Applied:   ok,
		Notes:     models.NoteEventsFromMelody(out),
	})
}

// bindNotes binds a notes request and enforces the melody length limit
func (h *MelodyHandler) bindNotes(c *gin.Context, req any, count func() int) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	if n := count(); n > h.cfg.MaxMelodyLength {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("at most %d notes are accepted, got %d", h.cfg.MaxMelodyLength, n),
		})
		return false
	}
	return true
}

func seedOrNew(seed *int64) int64 {
	if seed != nil {
		return *seed
	}
	return composer.NewSeed()
}

func scoreAxes(s evaluate.Score) map[string]float64 {
	return map[string]float64{
		"overall":    s.Overall,
		"contour":    s.Contour,
		"rhythm":     s.Rhythm,
		"harmony":    s.Harmony,
		"repetition": s.Repetition,
		"range":      s.Range,
	}
}
