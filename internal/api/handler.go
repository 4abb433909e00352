package api

import (
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ShayestehHS/apidock/internal/authhook"
	"github.com/ShayestehHS/apidock/internal/cards"
	"github.com/ShayestehHS/apidock/internal/executor"
	"github.com/ShayestehHS/apidock/internal/filter"
	"github.com/ShayestehHS/apidock/internal/history"
	"github.com/ShayestehHS/apidock/internal/models"
	"github.com/ShayestehHS/apidock/internal/permissions"
	"github.com/ShayestehHS/apidock/internal/settings"
	"github.com/ShayestehHS/apidock/internal/stats"
)

// Handler handles portal API requests
type Handler struct {
	engine          *filter.Engine
	controller      *filter.Controller
	permissionList  []permissions.Entry
	settingsService *settings.Service
	authHook        authhook.Hook
	execService     *executor.Executor
	historyService  *history.Service
	statsCollector  *stats.Collector
	log             zerolog.Logger

	byOperationID map[string]*models.EndpointCard
	inFlight      atomic.Bool
}

// NewHandler creates a new portal API handler
func NewHandler(engine *filter.Engine, controller *filter.Controller, settingsService *settings.Service, authHook authhook.Hook, execService *executor.Executor, historyService *history.Service, statsCollector *stats.Collector, log zerolog.Logger) *Handler {
	byOp := make(map[string]*models.EndpointCard)
	for _, card := range engine.Cards() {
		byOp[card.OperationID] = card
	}

	return &Handler{
		engine:          engine,
		controller:      controller,
		permissionList:  permissions.Resolve(engine.Cards()),
		settingsService: settingsService,
		authHook:        authHook,
		execService:     execService,
		historyService:  historyService,
		statsCollector:  statsCollector,
		log:             log,
		byOperationID:   byOp,
	}
}

// ListCards returns every endpoint card
func (h *Handler) ListCards(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Cards())
}

// GetCard returns a single card by operation id
func (h *Handler) GetCard(c *gin.Context) {
	id := c.Param("operationId")

	card, ok := h.byOperationID[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
		return
	}

	c.JSON(http.StatusOK, card)
}

// ListGroups returns the cards grouped by app and by view
func (h *Handler) ListGroups(c *gin.Context) {
	all := h.engine.Cards()
	c.JSON(http.StatusOK, gin.H{
		"apps":  cards.GroupByApp(all),
		"views": cards.GroupByView(all),
	})
}

// filterRequest is the POST body for a filter pass
type filterRequest struct {
	State   models.FilterState `json:"state"`
	Editing string             `json:"editing,omitempty"`
}

// ApplyFilter applies a filter state immediately and returns the result
func (h *Handler) ApplyFilter(c *gin.Context) {
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.controller.ApplyNow(req.State, req.Editing))
}

// FilterFromQuery restores filter state from a URL query string. This is
// the page-load path: the query parameters are the facet values.
func (h *Handler) FilterFromQuery(c *gin.Context) {
	state := filter.Decode(c.Request.URL.Query())
	c.JSON(http.StatusOK, h.controller.ApplyNow(state, ""))
}

// ClearFilter resets the filter to its zero state
func (h *Handler) ClearFilter(c *gin.Context) {
	c.JSON(http.StatusOK, h.controller.Clear())
}

// ListPermissions returns the permission checklist, optionally narrowed by
// a search term
func (h *Handler) ListPermissions(c *gin.Context) {
	term := c.Query("search")
	c.JSON(http.StatusOK, permissions.Search(h.permissionList, term))
}

// GetSettings returns the effective try-console settings
func (h *Handler) GetSettings(c *gin.Context) {
	current, err := h.settingsService.Get()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, current)
}

// UpdateSettings applies a partial settings change
func (h *Handler) UpdateSettings(c *gin.Context) {
	var update models.SettingsUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.settingsService.Update(update)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// ClearSessionSettings drops session-only header state
func (h *Handler) ClearSessionSettings(c *gin.Context) {
	h.settingsService.ClearSession()
	c.JSON(http.StatusOK, gin.H{"message": "Session settings cleared"})
}

// GetAuthDefault runs the configured auth hook and returns the generated
// header as an editable default. It never touches stored settings.
func (h *Handler) GetAuthDefault(c *gin.Context) {
	if h.authHook == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Auth hook not configured"})
		return
	}

	header, err := h.authHook.Generate(c.Request.Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("auth hook failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Auth hook failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, header)
}

// Execute runs one try-console invocation. One invocation at a time; the
// result is recorded in history and statistics either way.
func (h *Handler) Execute(c *gin.Context) {
	var input models.ExecutionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	card, ok := h.byOperationID[input.OperationID]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
		return
	}
	if input.Method == "" {
		input.Method = card.Method
	}
	if input.PathTmpl == "" {
		input.PathTmpl = card.Path
	}

	if !h.inFlight.CompareAndSwap(false, true) {
		c.JSON(http.StatusConflict, gin.H{"error": "An execution is already in progress"})
		return
	}
	defer h.inFlight.Store(false)

	stored, err := h.settingsService.Get()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	spec, result, err := h.execService.Execute(c.Request.Context(), input, card.PathParams, stored)
	if err != nil {
		var validationErr *executor.ValidationError
		var buildErr *executor.BuildError
		switch {
		case errors.As(err, &validationErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "missing": validationErr.Missing})
		case errors.As(err, &buildErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "unresolved": buildErr.Unresolved})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	h.historyService.Record(&models.ExecutionRecord{
		OperationID: input.OperationID,
		Request:     spec,
		Result:      result,
	})
	h.statsCollector.RecordExecution(input.OperationID, spec.Method, card.Path,
		time.Duration(result.ElapsedMs)*time.Millisecond, result.State == models.StateFailed)

	c.JSON(http.StatusOK, gin.H{"request": spec, "result": result})
}

// ListHistory returns execution records matching the query filters
func (h *Handler) ListHistory(c *gin.Context) {
	filter := &models.HistoryFilter{
		OperationID: c.Query("operationId"),
		Method:      c.Query("method"),
	}

	if code := c.Query("statusCode"); code != "" {
		if parsed, err := strconv.Atoi(code); err == nil {
			filter.StatusCode = parsed
		}
	}
	if failed := c.Query("failed"); failed != "" {
		if parsed, err := strconv.ParseBool(failed); err == nil {
			filter.Failed = &parsed
		}
	}
	if limit := c.Query("limit"); limit != "" {
		if parsed, err := strconv.Atoi(limit); err == nil {
			filter.Limit = parsed
		}
	}
	if start := c.Query("startTime"); start != "" {
		if parsed, err := time.Parse(time.RFC3339, start); err == nil {
			filter.StartTime = parsed
		}
	}
	if end := c.Query("endTime"); end != "" {
		if parsed, err := time.Parse(time.RFC3339, end); err == nil {
			filter.EndTime = parsed
		}
	}

	c.JSON(http.StatusOK, h.historyService.GetRecords(filter))
}

// GetHistoryRecord returns a single execution record
func (h *Handler) GetHistoryRecord(c *gin.Context) {
	record := h.historyService.GetRecord(c.Param("id"))
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}

	c.JSON(http.StatusOK, record)
}

// ClearHistory removes all execution records
func (h *Handler) ClearHistory(c *gin.Context) {
	h.historyService.Clear()
	c.JSON(http.StatusOK, gin.H{"message": "History cleared"})
}

// GetStats returns aggregated console statistics
func (h *Handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.statsCollector.GetConsoleStats())
}

// GetOperationStats returns statistics for one operation
func (h *Handler) GetOperationStats(c *gin.Context) {
	stat := h.statsCollector.GetOperationStats(c.Param("operationId"))
	if stat == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No statistics for operation"})
		return
	}

	c.JSON(http.StatusOK, stat)
}

// ResetStats resets all statistics
func (h *Handler) ResetStats(c *gin.Context) {
	h.statsCollector.Reset()
	c.JSON(http.StatusOK, gin.H{"message": "Statistics reset"})
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"endpoints": len(h.byOperationID),
	})
}
