package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"bitbucket.org/khsdfiscal/icecube_backend/config"
	"bitbucket.org/khsdfiscal/icecube_backend/recon"
	"bitbucket.org/khsdfiscal/icecube_backend/staging"
	"bitbucket.org/khsdfiscal/icecube_backend/utils"
)

var tracer = otel.Tracer("icecube-backend")

const maxUploadSizeBytes int64 = 10 * 1024 * 1024

// importIceCubeHandler ingests one reconciliation spreadsheet: decode,
// process (delete-then-insert for the period), then kick a best-effort
// staging sync for the same month.
func importIceCubeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()
		ctx, span := tracer.Start(c.Request.Context(), "recon.import")
		defer span.End()

		month, err := parseMonth(c.PostForm("month"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "month format must be YYYY-MM"})
			return
		}
		plan := strings.ToUpper(strings.TrimSpace(c.PostForm("pension_plan")))

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		if fileHeader.Size > maxUploadSizeBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds 10MB limit"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			config.LogError(logger, "recon_import.go", "importIceCubeHandler", "fileHeader.Open", nil, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxUploadSizeBytes+1))
		if err != nil {
			config.LogError(logger, "recon_import.go", "importIceCubeHandler", "io.ReadAll", nil, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
			return
		}
		if int64(len(data)) > maxUploadSizeBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds 10MB limit"})
			return
		}

		table, err := recon.DecodeTable(data, fileHeader.Filename)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := recon.ProcessUpload(ctx, config.GetDB(), table, month, plan)
		if err != nil {
			switch {
			case errors.Is(err, recon.ErrInvalidPlan), errors.Is(err, recon.ErrPlanMismatch):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				config.LogError(logger, "recon_import.go", "importIceCubeHandler", "recon.ProcessUpload", gin.H{
					"plan":  plan,
					"month": month.Format("2006-01"),
				}, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
			}
			return
		}

		// Staging sync is auxiliary: a failure is reported alongside the
		// committed upload, never used to fail it.
		stagingSynced := true
		if _, syncErr := staging.Sync(ctx, config.GetDB(), config.GetUpstreamDB(), month); syncErr != nil {
			stagingSynced = false
			config.LogError(logger, "recon_import.go", "importIceCubeHandler", "staging.Sync", gin.H{
				"month": month.Format("2006-01"),
			}, syncErr)
		}

		cid, _ := utils.GetCorrelationIdFromContext(ctx)
		logger.WithFields(logrus.Fields{
			"correlation_id": cid,
			"plan":           result.Plan,
			"recon_period":   result.ReconPeriod,
			"rows_attempted": result.RowsAttempted,
			"rows_inserted":  result.RowsInserted,
			"rows_skipped":   result.RowsSkipped,
			"staging_synced": stagingSynced,
		}).Info("[recon.import]")

		c.JSON(http.StatusOK, gin.H{
			"message":        fmt.Sprintf("Upload successful: %d rows inserted", result.RowsInserted),
			"rows_inserted":  result.RowsInserted,
			"rows_attempted": result.RowsAttempted,
			"rows_skipped":   result.RowsSkipped,
			"staging_synced": stagingSynced,
		})
	}
}

// importPayrollStagingHandler triggers a staging sync on demand.
func importPayrollStagingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()
		ctx, span := tracer.Start(c.Request.Context(), "staging.sync")
		defer span.End()

		raw := c.PostForm("month")
		if raw == "" {
			raw = c.Query("month")
		}
		month, err := parseMonth(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "month format must be YYYY-MM"})
			return
		}

		rowsSynced, err := staging.Sync(ctx, config.GetDB(), config.GetUpstreamDB(), month)
		if err != nil {
			config.LogError(logger, "recon_import.go", "importPayrollStagingHandler", "staging.Sync", gin.H{
				"month": month.Format("2006-01"),
			}, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "staging sync failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Payroll data copied",
			"rows_inserted": rowsSynced,
		})
	}
}

func parseMonth(raw string) (time.Time, error) {
	return time.Parse("2006-01", strings.TrimSpace(raw))
}
