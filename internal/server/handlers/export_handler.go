package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/cattlehealth/internal/service/export"
)

// Export downloads a dataset as CSV (default) or XLSX.
func (h *Handler) Export(c *gin.Context) {
	ctx := c.Request.Context()
	s := session(c)

	var (
		records any
		stem    string
	)
	switch c.Param("dataset") {
	case "cattle":
		records, stem = h.views.CattleFor(ctx, s), "cattle_database"
	case "logs":
		records, stem = h.views.LogsFor(ctx, s), "rfid_logs"
	case "milk":
		records, stem = h.views.MilkFor(ctx, s), "milk_records"
	case "owners":
		records, stem = h.views.Records().FetchOwners(ctx), "owners"
	case "health":
		records, stem = h.views.Records().FetchHealthRecords(ctx), "health_records"
	case "treatments":
		records, stem = h.views.Records().FetchTreatments(ctx), "treatments"
	default:
		respondError(c, http.StatusNotFound, "unknown dataset")
		return
	}

	var (
		file *export.File
		err  error
	)
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		file, err = export.CSV(records, stem, h.now())
	case "xlsx":
		file, err = export.XLSX(records, stem, h.now())
	default:
		respondError(c, http.StatusBadRequest, "format must be csv or xlsx")
		return
	}
	if errors.Is(err, export.ErrNoData) {
		respondError(c, http.StatusNotFound, "No data to export")
		return
	}
	if err != nil {
		h.logger.Error("export failed", zap.String("dataset", stem), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "export failed")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
