package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/san-kum/calclab/internal/calculus"
	"github.com/san-kum/calclab/internal/config"
)

const (
	// MaxSamples caps n for sampled curves.
	MaxSamples = config.MaxSamples
	// MaxRiemannN caps the number of rectangles of a Riemann sum.
	MaxRiemannN = 1_000_000
)

func HealthCheckHandle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type HttpEndpoints struct {
	budget     time.Duration
	samples    int
	step       float64
	higherStep float64
	riemannN   int
	logger     *slog.Logger
}

func NewHTTPHandler(cfg *config.Config, logger *slog.Logger) *HttpEndpoints {
	budget := cfg.Budget
	if budget <= 0 {
		budget = config.DefaultBudget
	}
	return &HttpEndpoints{
		budget:     budget,
		samples:    cfg.Samples,
		step:       cfg.Step,
		higherStep: cfg.HigherStep,
		riemannN:   cfg.RiemannN,
		logger:     logger,
	}
}

func (h *HttpEndpoints) AddRoutes(rg *gin.RouterGroup) {
	api := rg.Group("/api/v1")

	api.POST("/evaluate", h.evaluate)
	api.POST("/points", h.points)
	api.POST("/derivative", h.derivative)
	api.POST("/higher-derivative", h.higherDerivative)
	api.POST("/integral", h.integral)
}

// withBudget bounds the evaluation work of a request by the configured budget.
func (h *HttpEndpoints) withBudget(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.budget)
}

// overBudget answers 503 when err is a budget overrun and reports whether
// it did. Other errors travel in the response body.
func (h *HttpEndpoints) overBudget(c *gin.Context, op string, err error) bool {
	if !errors.Is(err, calculus.ErrBudgetExceeded) {
		return false
	}
	h.logger.Warn(op+": budget exceeded", slog.Duration("budget", h.budget))
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	return true
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
