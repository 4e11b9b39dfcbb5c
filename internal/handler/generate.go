package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusplan/timetable-engine/internal/csp"
	"github.com/campusplan/timetable-engine/internal/generator"
	"github.com/campusplan/timetable-engine/internal/store"
	"github.com/campusplan/timetable-engine/internal/telemetry"
	appErrors "github.com/campusplan/timetable-engine/pkg/errors"
	"github.com/campusplan/timetable-engine/pkg/response"
)

const maxCatalogueBytes = 1 << 20 // 1 MiB

// generateRequest is the POST /timetables/generate payload.
type generateRequest struct {
	Catalogue      map[string]interface{} `json:"catalogue" binding:"required"`
	MaxAttempts    int                    `json:"maxAttempts"`
	TimeoutSeconds int                    `json:"timeoutSeconds"`
}

type slotAssignment struct {
	CourseID   string       `json:"courseId"`
	Level      int          `json:"level"`
	Time       csp.TimeSlot `json:"time"`
	Room       string       `json:"room"`
	Instructor string       `json:"instructor"`
}

type generateResponse struct {
	ProposalID string                   `json:"proposalId"`
	Timetable  map[int][]slotAssignment `json:"timetable"`
	Stats      generator.GeneratorStats `json:"stats"`
	CreatedAt  time.Time                `json:"createdAt"`
}

// GenerateHandler exposes the timetable generation endpoint. One handler
// instance is shared across requests; each request builds its own
// csp.Domain from the store so concurrent solves never share mutable
// availability state, per the engine's independent-domain-per-solve
// requirement.
type GenerateHandler struct {
	store   store.Store
	cache   *proposalCache
	mirror  *store.ProposalCache
	metrics *telemetry.Metrics
	logger  *zap.Logger

	defaultTimeout     time.Duration
	defaultMaxAttempts int
}

// NewGenerateHandler constructs a GenerateHandler. mirror may be nil to
// disable the Redis proposal mirror.
func NewGenerateHandler(
	st store.Store,
	cacheTTL time.Duration,
	mirror *store.ProposalCache,
	metrics *telemetry.Metrics,
	logger *zap.Logger,
	defaultTimeout time.Duration,
	defaultMaxAttempts int,
) *GenerateHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerateHandler{
		store:              st,
		cache:              newProposalCache(cacheTTL),
		mirror:             mirror,
		metrics:            metrics,
		logger:             logger,
		defaultTimeout:     defaultTimeout,
		defaultMaxAttempts: defaultMaxAttempts,
	}
}

// Generate godoc
// @Summary Generate a conflict-free timetable from a level catalogue
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body generateRequest true "Level catalogue and solver overrides"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /api/v1/timetables/generate [post]
func (h *GenerateHandler) Generate(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxCatalogueBytes)

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}

	catalogueJSON, err := marshalCatalogue(req.Catalogue)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "catalogue must be a JSON object"))
		return
	}

	maxAttempts := req.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = h.defaultMaxAttempts
	}
	timeout := time.Duration(req.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = h.defaultTimeout
	}

	ctx := c.Request.Context()
	domain, err := generator.BuildDomain(ctx, h.store)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to load scheduling domain"))
		return
	}

	gen := generator.NewTimetableGenerator(h.store, domain, h.logger)
	result := gen.Generate(ctx, catalogueJSON, maxAttempts, timeout)

	for _, stats := range result.Stats.PerLevel {
		h.metrics.ObserveSolverStats(stats.Runtime, stats.Backtracks, stats.Assignments)
	}

	if !result.Success {
		h.metrics.ObserveGenerateFailure(classifyFailure(result.Error))
		response.Error(c, translateGenerateError(result.Error))
		return
	}

	payload := generateResponse{
		ProposalID: uuid.NewString(),
		Timetable:  flattenTimetable(result.Timetable),
		Stats:      result.Stats,
		CreatedAt:  time.Now().UTC(),
	}

	h.cache.Save(payload.ProposalID, payload)
	if h.mirror != nil {
		mirrorCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.mirror.Set(mirrorCtx, payload.ProposalID, payload, h.cache.ttl); err != nil {
			h.logger.Warn("failed to mirror proposal to redis", zap.Error(err), zap.String("proposal_id", payload.ProposalID))
		}
	}

	response.JSON(c, http.StatusOK, payload)
}

// GetProposal godoc
// @Summary Fetch a previously generated timetable proposal
// @Tags Timetables
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /api/v1/timetables/{id} [get]
func (h *GenerateHandler) GetProposal(c *gin.Context) {
	id := c.Param("id")

	if cached, ok := h.cache.Get(id); ok {
		response.JSON(c, http.StatusOK, cached)
		return
	}

	if h.mirror != nil {
		var cached generateResponse
		if err := h.mirror.Get(c.Request.Context(), id, &cached); err == nil {
			h.cache.Save(id, cached)
			response.JSON(c, http.StatusOK, cached)
			return
		}
	}

	response.Error(c, appErrors.ErrNotFound)
}

func marshalCatalogue(doc map[string]interface{}) ([]byte, error) {
	return json.Marshal(doc)
}

func flattenTimetable(timetable map[int][]*csp.Variable) map[int][]slotAssignment {
	flat := make(map[int][]slotAssignment, len(timetable))
	for level, variables := range timetable {
		assignments := make([]slotAssignment, 0, len(variables))
		for _, v := range variables {
			a, ok := v.Assignment()
			if !ok {
				continue
			}
			assignments = append(assignments, slotAssignment{
				CourseID:   v.CourseID,
				Level:      v.Level,
				Time:       a.Time,
				Room:       a.Room,
				Instructor: a.Instructor,
			})
		}
		flat[level] = assignments
	}
	return flat
}

func classifyFailure(message string) string {
	switch {
	case message == "":
		return "unknown"
	case containsAny(message, "catalogue", "level key", "course id", "not found in backing store"):
		return "catalogue"
	case containsAny(message, "timeout", "exceeded"):
		return "timeout"
	default:
		return "infeasible"
	}
}

func translateGenerateError(message string) *appErrors.Error {
	switch classifyFailure(message) {
	case "catalogue":
		return appErrors.Clone(appErrors.ErrCatalogue, message)
	case "timeout":
		return appErrors.Clone(appErrors.ErrGenerateTimeout, message)
	default:
		return appErrors.Clone(appErrors.ErrInfeasible, message)
	}
}

func containsAny(haystack string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
