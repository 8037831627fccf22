// Package handlers adapts the herd views and write commands to HTTP.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/cattlehealth/internal/domain/models"
	"github.com/mamadbah2/cattlehealth/internal/repository/mongodb"
	"github.com/mamadbah2/cattlehealth/internal/server/middleware"
	"github.com/mamadbah2/cattlehealth/internal/service/commands"
	"github.com/mamadbah2/cattlehealth/internal/service/herd"
	"github.com/mamadbah2/cattlehealth/internal/service/notify"
	"github.com/mamadbah2/cattlehealth/pkg/auth"
)

// TokenIssuer signs session tokens after a successful login.
type TokenIssuer interface {
	Issue(session models.Session) (*auth.Token, error)
}

// Handler serves the dashboard API.
type Handler struct {
	views     *herd.Service
	commands  commands.Dispatcher
	tokens    TokenIssuer
	reports   mongodb.ReportRepository
	messenger notify.Messenger
	logger    *zap.Logger
	now       func() time.Time
}

// Option customizes a Handler.
type Option func(*Handler)

// WithReports enables the stored digest history.
func WithReports(reports mongodb.ReportRepository) Option {
	return func(h *Handler) { h.reports = reports }
}

// WithMessenger enables admin notifications.
func WithMessenger(m notify.Messenger) Option {
	return func(h *Handler) { h.messenger = m }
}

// New constructs the HTTP handler adapter.
func New(views *herd.Service, dispatcher commands.Dispatcher, tokens TokenIssuer, logger *zap.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		views:    views,
		commands: dispatcher,
		tokens:   tokens,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// respondCommand answers a write. Refusals by the script are 200 with
// success=false; transport failures are 502.
func (h *Handler) respondCommand(c *gin.Context, op string, result *models.CommandResult, err error) {
	switch {
	case errors.Is(err, commands.ErrInvalidArguments):
		respondError(c, http.StatusBadRequest, err.Error())
	case err != nil:
		h.logger.Error("command failed", zap.String("op", op), zap.Error(err))
		respondError(c, http.StatusBadGateway, "spreadsheet service unavailable")
	default:
		c.JSON(http.StatusOK, result)
	}
}

func session(c *gin.Context) models.Session {
	s, _ := middleware.SessionFrom(c)
	return s
}
