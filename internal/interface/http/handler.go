package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/fitness-wizard/internal/domain/bonus"
	"github.com/yanqian/fitness-wizard/internal/domain/wizard"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	wizardSvc wizard.Service
	bonusSvc  bonus.Service
	logger    *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(wizardSvc wizard.Service, bonusSvc bonus.Service, logger *slog.Logger) *Handler {
	return &Handler{
		wizardSvc: wizardSvc,
		bonusSvc:  bonusSvc,
		logger:    logger.With("component", "http.handler"),
	}
}

// GeneratePlan runs the plan pipeline for one wizard submission.
func (h *Handler) GeneratePlan(c *gin.Context) {
	var req wizard.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "Invalid request body", err))
		return
	}
	req.RequestID = c.GetString(requestIDKey)

	resp, err := h.wizardSvc.GeneratePlan(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromAppError(err, "Failed to generate plan"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GenerateBonus renders and sends the bonus roadmap on request of the client.
func (h *Handler) GenerateBonus(c *gin.Context) {
	var req bonus.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "Invalid request body", err))
		return
	}
	req.Source = bonus.SourceClient

	resp, err := h.bonusSvc.Generate(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromAppError(err, "Failed to generate bonus"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
