package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/cattlehealth/internal/service/herd"
)

// ListCattle returns the session's herd.
func (h *Handler) ListCattle(c *gin.Context) {
	c.JSON(http.StatusOK, h.views.CattleFor(c.Request.Context(), session(c)))
}

// ListLogs returns the session's reader events.
func (h *Handler) ListLogs(c *gin.Context) {
	c.JSON(http.StatusOK, h.views.LogsFor(c.Request.Context(), session(c)))
}

// ListMilk returns the session's milkings.
func (h *Handler) ListMilk(c *gin.Context) {
	c.JSON(http.StatusOK, h.views.MilkFor(c.Request.Context(), session(c)))
}

// ListOwners returns every owner.
func (h *Handler) ListOwners(c *gin.Context) {
	c.JSON(http.StatusOK, h.views.Records().FetchOwners(c.Request.Context()))
}

// ListHealth returns every checkup.
func (h *Handler) ListHealth(c *gin.Context) {
	c.JSON(http.StatusOK, h.views.Records().FetchHealthRecords(c.Request.Context()))
}

// ListHealthAlerts returns the flagged checkups.
func (h *Handler) ListHealthAlerts(c *gin.Context) {
	c.JSON(http.StatusOK, h.views.GetHealthAlerts(c.Request.Context()))
}

// ListTreatments returns every treatment.
func (h *Handler) ListTreatments(c *gin.Context) {
	c.JSON(http.StatusOK, h.views.Records().FetchTreatments(c.Request.Context()))
}

// CattleResume returns the printable record of one animal.
func (h *Handler) CattleResume(c *gin.Context) {
	resume, err := h.views.CattleResume(c.Request.Context(), c.Param("rfid"))
	if errors.Is(err, herd.ErrCattleNotFound) {
		respondError(c, http.StatusNotFound, "Cattle not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	s := session(c)
	if s.IsFarmer() && (s.Unlinked() || resume.Cattle.OwnerID != s.OwnerID) {
		respondError(c, http.StatusNotFound, "Cattle not found")
		return
	}
	c.JSON(http.StatusOK, resume)
}

// Dashboard returns the landing view.
func (h *Handler) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.views.Dashboard(c.Request.Context(), session(c)))
}

// MilkAnalytics returns the analytics page figures.
func (h *Handler) MilkAnalytics(c *gin.Context) {
	c.JSON(http.StatusOK, h.views.MilkAnalytics(c.Request.Context(), session(c)))
}

// HealthAnalytics returns the checkup distribution.
func (h *Handler) HealthAnalytics(c *gin.Context) {
	records := h.views.Records().FetchHealthRecords(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"distribution": herd.HealthDistribution(records)})
}
