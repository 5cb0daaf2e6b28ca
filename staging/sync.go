package staging

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"bitbucket.org/khsdfiscal/icecube_backend/config"
	"bitbucket.org/khsdfiscal/icecube_backend/models"
	"bitbucket.org/khsdfiscal/icecube_backend/utils"
)

// deductionCodes is the fixed allow-list of retirement deduction codes the
// reconciliation cares about. Anything else on the paycheck is noise here.
var deductionCodes = []string{
	"PERPB2", "PERPBD", "PERS", "PERSAJ", "PERSP", "PERSPB",
	"STRPB2", "STRPBY", "STRS", "STRSAJ", "STRSPB",
}

// upstreamQuery joins paychecks to their deductions. The join key is the
// full check identity (page, line, pay end date, pay group, off-cycle,
// separate-check); LEFT JOIN keeps checks that carried no retirement
// deduction at all.
const upstreamQuery = `
SELECT
    C.EMPLID,
    C.PAY_END_DT,
    C.PAGE_NUM,
    C.LINE_NUM,
    C.PAYGROUP,
    C.OFF_CYCLE,
    C.SEPCHK,
    D.DEDCD,
    D.DED_CLASS,
    D.DED_CUR
FROM PS_PAY_CHECK C
LEFT JOIN PS_PAY_DEDUCTION D
    ON D.PAGE_NUM = C.PAGE_NUM
    AND D.LINE_NUM = C.LINE_NUM
    AND D.PAY_END_DT = C.PAY_END_DT
    AND D.PAYGROUP = C.PAYGROUP
    AND D.OFF_CYCLE = C.OFF_CYCLE
    AND D.SEPCHK = C.SEPCHK
    AND D.DEDCD IN (?)
WHERE
    C.PAY_END_DT >= ? AND C.PAY_END_DT < ?
`

// Window is the 3-calendar-month staging window around a reporting month:
// [first day of month-1, first day of month+2).
func Window(month time.Time) (time.Time, time.Time) {
	start := time.Date(month.Year(), month.Month()-1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(month.Year(), month.Month()+2, 1, 0, 0, 0, 0, time.UTC)
	return start, end
}

// Sync reconciles the local staging cache against the upstream payroll
// source for the window around month. When the cached row count already
// matches upstream the sync is a no-op; otherwise the window's rows are
// replaced wholesale with the freshly pulled set. Months outside the window
// are never touched.
//
// Both reads happen before any write, so a timeout or upstream failure
// leaves the cache exactly as it was. Returns the upstream row count.
func Sync(ctx context.Context, local, upstream *gorm.DB, month time.Time) (int, error) {
	logger := config.GetLogger().WithFields(logFields(ctx))
	start, end := Window(month)

	ctx, cancel := context.WithTimeout(ctx, syncTimeout())
	defer cancel()

	var existingCount int64
	err := local.WithContext(ctx).
		Model(&models.PayStaging{}).
		Where("PAY_END_DT >= ? AND PAY_END_DT < ?", start, end).
		Count(&existingCount).Error
	if err != nil {
		return 0, err
	}

	var pulled []*models.PayStaging
	err = upstream.WithContext(ctx).
		Raw(upstreamQuery, deductionCodes, start, end).
		Scan(&pulled).Error
	if err != nil {
		return 0, err
	}

	if existingCount == int64(len(pulled)) {
		logger.WithFields(logrus.Fields{
			"month":        month.Format("2006-01"),
			"window_start": start.Format("2006-01-02"),
			"window_end":   end.Format("2006-01-02"),
			"rows":         len(pulled),
		}).Info("[staging.sync] counts match, nothing to do")
		return len(pulled), nil
	}

	logger.WithFields(logrus.Fields{
		"month":    month.Format("2006-01"),
		"existing": existingCount,
		"upstream": len(pulled),
	}).Warn("[staging.sync] count mismatch, replacing window")

	err = local.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("PAY_END_DT >= ? AND PAY_END_DT < ?", start, end).
			Delete(&models.PayStaging{}).Error; err != nil {
			return err
		}
		if len(pulled) == 0 {
			return nil
		}
		// Pulled rows may carry upstream identity values in ID after Scan;
		// zero them so the local table assigns its own keys.
		for _, row := range pulled {
			row.ID = 0
		}
		return tx.CreateInBatches(pulled, 500).Error
	})
	if err != nil {
		return 0, err
	}

	return len(pulled), nil
}

func logFields(ctx context.Context) logrus.Fields {
	fields := logrus.Fields{}
	if cid, ok := utils.GetCorrelationIdFromContext(ctx); ok {
		fields["correlation_id"] = cid
	}
	if caller, ok := utils.GetCallerFromContext(ctx); ok {
		fields["caller"] = caller
	}
	return fields
}

func syncTimeout() time.Duration {
	seconds := 60
	if v := strings.TrimSpace(os.Getenv("STAGING_SYNC_TIMEOUT_SECONDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			seconds = n
		}
	}
	return time.Duration(seconds) * time.Second
}
