package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/cattlehealth/internal/domain/models"
	"github.com/mamadbah2/cattlehealth/internal/service/notify"
)

const defaultReportLimit = 7

// ListReports returns the stored daily digests, newest first.
func (h *Handler) ListReports(c *gin.Context) {
	if h.reports == nil {
		respondError(c, http.StatusServiceUnavailable, "report storage is not configured")
		return
	}

	limit := int64(defaultReportLimit)
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			respondError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	reports, err := h.reports.RecentReports(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("list reports failed", zap.Error(err))
		respondError(c, http.StatusBadGateway, "report storage unavailable")
		return
	}
	c.JSON(http.StatusOK, reports)
}

// TodayReport returns the digest the scheduler would send now.
func (h *Handler) TodayReport(c *gin.Context) {
	c.JSON(http.StatusOK, h.views.DailyReport(c.Request.Context()))
}

// Notify sends a WhatsApp text message.
func (h *Handler) Notify(c *gin.Context) {
	var req models.OutboundMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "to and message are required")
		return
	}

	if h.messenger == nil {
		respondError(c, http.StatusServiceUnavailable, notify.ErrDisabled.Error())
		return
	}

	id, err := h.messenger.SendOutbound(c.Request.Context(), req)
	switch {
	case errors.Is(err, notify.ErrDisabled):
		respondError(c, http.StatusServiceUnavailable, err.Error())
	case err != nil:
		respondError(c, http.StatusBadGateway, "message could not be sent")
	default:
		c.JSON(http.StatusOK, gin.H{"success": true, "messageId": id})
	}
}
