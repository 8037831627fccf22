package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/cattlehealth/internal/domain/models"
)

// AddCattle registers an animal. Farmers can only add to their own herd.
func (h *Handler) AddCattle(c *gin.Context) {
	var cattle models.Cattle
	if err := c.ShouldBindJSON(&cattle); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if s := session(c); s.IsFarmer() {
		if !requireHerd(c, s) {
			return
		}
		cattle.OwnerID = s.OwnerID
	}
	if cattle.HealthStatus == "" {
		cattle.HealthStatus = models.HealthHealthy
	}

	result, err := h.commands.AddCattle(c.Request.Context(), cattle)
	h.respondCommand(c, "add_cattle", result, err)
}

// UpdateCattle applies a partial update to one animal.
func (h *Handler) UpdateCattle(c *gin.Context) {
	var update models.CattleUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if s := session(c); s.IsFarmer() {
		if !requireHerd(c, s) || !h.ownsCattle(c, s, c.Param("rfid")) {
			return
		}
		update.OwnerID = nil
	}

	result, err := h.commands.UpdateCattle(c.Request.Context(), c.Param("rfid"), update)
	h.respondCommand(c, "update_cattle", result, err)
}

// DeleteCattle removes one animal.
func (h *Handler) DeleteCattle(c *gin.Context) {
	if s := session(c); s.IsFarmer() && (!requireHerd(c, s) || !h.ownsCattle(c, s, c.Param("rfid"))) {
		return
	}

	result, err := h.commands.DeleteCattle(c.Request.Context(), c.Param("rfid"))
	h.respondCommand(c, "delete_cattle", result, err)
}

// AddMilkRecord records a milking, attributed to the caller by default.
func (h *Handler) AddMilkRecord(c *gin.Context) {
	var record models.MilkRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	s := session(c)
	if s.IsFarmer() && (!requireHerd(c, s) || !h.ownsCattle(c, s, record.RFID)) {
		return
	}
	if record.RecordedBy == "" {
		record.RecordedBy = s.OwnerID
		if record.RecordedBy == "" {
			record.RecordedBy = s.UserID
		}
	}

	result, err := h.commands.AddMilkRecord(c.Request.Context(), record)
	h.respondCommand(c, "add_milk_record", result, err)
}

// AddHealthRecord records a checkup.
func (h *Handler) AddHealthRecord(c *gin.Context) {
	var record models.HealthRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if record.RecordedBy == "" {
		record.RecordedBy = session(c).UserID
	}

	result, err := h.commands.AddHealthRecord(c.Request.Context(), record)
	h.respondCommand(c, "add_health_record", result, err)
}

// AddTreatment records a medication course.
func (h *Handler) AddTreatment(c *gin.Context) {
	var record models.TreatmentRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if record.AdministeredBy == "" {
		record.AdministeredBy = session(c).UserID
	}

	result, err := h.commands.AddTreatment(c.Request.Context(), record)
	h.respondCommand(c, "add_treatment", result, err)
}

// requireHerd answers 403 and returns false for a farmer without an owner.
func requireHerd(c *gin.Context, s models.Session) bool {
	if s.Unlinked() {
		respondError(c, http.StatusForbidden, "Account is not linked to an owner")
		return false
	}
	return true
}

// ownsCattle answers 404 and returns false when rfid is not in the farmer's herd.
func (h *Handler) ownsCattle(c *gin.Context, s models.Session, rfid string) bool {
	for _, cattle := range h.views.GetCattleByOwner(c.Request.Context(), s.OwnerID) {
		if cattle.RFID == rfid {
			return true
		}
	}
	respondError(c, http.StatusNotFound, "Cattle not found")
	return false
}
