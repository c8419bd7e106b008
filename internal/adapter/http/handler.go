package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/insurepro/regcalc-backend/internal/domain"
	"github.com/insurepro/regcalc-backend/internal/usecase/suite"
)

// CalculationHandler exposes the suite service over REST.
type CalculationHandler struct {
	Service *suite.Service
	Logger  *zap.Logger
}

// NewCalculationHandler creates a new CalculationHandler instance
func NewCalculationHandler(service *suite.Service, logger *zap.Logger) *CalculationHandler {
	return &CalculationHandler{
		Service: service,
		Logger:  logger,
	}
}

// Create handles POST /api/v1/calculations: bind, convert, run the
// suite, persist and return the full result.
func (h *CalculationHandler) Create(c *gin.Context) {
	var dto CalculationRequestDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "request validation failed",
				Field: verrs[0].Field(),
			})
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "malformed request body"})
		return
	}

	result, err := h.Service.Calculate(c.Request.Context(), dto.ToDomain())
	if err != nil {
		if verr, ok := domain.IsValidationError(err); ok {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error: verr.Reason,
				Field: verr.Field,
			})
			return
		}
		h.Logger.Error("suite calculation failed",
			zap.String("tenant_id", dto.TenantID),
			zap.String("portfolio_id", dto.PortfolioID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "calculation failed"})
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Get handles GET /api/v1/calculations/:id.
func (h *CalculationHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "run id must be a UUID", Field: "id"})
		return
	}

	run, err := h.Service.GetRun(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "calculation run not found"})
			return
		}
		h.Logger.Error("fetch calculation run failed", zap.String("run_id", id.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "lookup failed"})
		return
	}

	c.JSON(http.StatusOK, toRunResponse(run))
}

// List handles GET /api/v1/calculations?tenant_id=...&limit=N.
func (h *CalculationHandler) List(c *gin.Context) {
	tenantID := c.Query("tenant_id")
	if tenantID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "tenant_id is required", Field: "tenant_id"})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be between 1 and 100", Field: "limit"})
			return
		}
		limit = parsed
	}

	runs, err := h.Service.ListRuns(c.Request.Context(), tenantID, limit)
	if err != nil {
		h.Logger.Error("list calculation runs failed", zap.String("tenant_id", tenantID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "lookup failed"})
		return
	}

	responses := make([]RunResponse, 0, len(runs))
	for _, run := range runs {
		responses = append(responses, toRunResponse(run))
	}
	c.JSON(http.StatusOK, gin.H{"runs": responses})
}

// Health handles GET /healthz.
func (h *CalculationHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func toRunResponse(run *domain.CalculationRun) RunResponse {
	return RunResponse{
		ID:              run.ID.String(),
		TenantID:        run.TenantID,
		PortfolioID:     run.PortfolioID,
		CalculationDate: run.CalculationDate,
		InputHash:       run.InputHash,
		Status:          string(run.Status),
		Result:          run.Result,
		CreatedAt:       run.CreatedAt,
	}
}
