package recon

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"bitbucket.org/khsdfiscal/icecube_backend/config"
	"bitbucket.org/khsdfiscal/icecube_backend/models"
)

// UploadResult reports what happened to an upload. RowsAttempted vs
// RowsInserted is the operator's signal for silent under-insertion: skipped
// rows are logged individually but only the counts travel back to the caller.
type UploadResult struct {
	Plan          string `json:"plan"`
	ReconPeriod   string `json:"recon_period"`
	RowsAttempted int    `json:"rows_attempted"`
	RowsInserted  int    `json:"rows_inserted"`
	RowsSkipped   int    `json:"rows_skipped"`
}

// Period renders a reporting month as the recon-period tag.
func Period(month time.Time) string {
	return month.Format("2006-01")
}

// ProcessUpload replaces one plan's records for one recon period with the
// rows of a decoded upload.
//
// The delete and the insert run in a single transaction, serialized per
// (plan, period) with a MySQL advisory lock held on the transaction's
// connection. GET_LOCK is connection-scoped, so the lock must be taken on
// the same *gorm.DB that runs the statements.
func ProcessUpload(ctx context.Context, db *gorm.DB, table Table, month time.Time, plan string) (*UploadResult, error) {
	logger := config.GetLogger()

	if plan != PlanPers && plan != PlanStrs {
		return nil, ErrInvalidPlan
	}
	if detected := DetectPlan(table.Headers); detected != "" && detected != plan {
		return nil, fmt.Errorf("%w: declared %s, headers look like %s", ErrPlanMismatch, plan, detected)
	}

	period := Period(month)

	// Best-effort cross-instance hint when Redis is configured. The advisory
	// lock below is what actually guarantees serialization.
	if redisLock := config.GetRedisLock(); redisLock != nil {
		if lock, err := redisLock.Obtain(ctx, "recon:"+plan+":"+period, 2*time.Minute, nil); err == nil {
			defer lock.Release(context.Background())
		}
	}

	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := acquireReconLock(tx, plan, period); err != nil {
		tx.Rollback()
		return nil, err
	}

	result := &UploadResult{Plan: plan, ReconPeriod: period}

	rows := fieldRows(table, plan)
	result.RowsAttempted = len(rows)

	var insertErr error
	switch plan {
	case PlanPers:
		records := make([]*models.ReconPers, 0, len(rows))
		for i, row := range rows {
			rec, err := buildPersRecord(row, month, period)
			if err != nil {
				logSkippedRow(logger, plan, period, i, err)
				result.RowsSkipped++
				continue
			}
			records = append(records, rec)
		}
		result.RowsInserted = len(records)
		insertErr = replaceRecords(tx, &models.ReconPers{}, period, records)
	case PlanStrs:
		records := make([]*models.ReconStrs, 0, len(rows))
		for i, row := range rows {
			rec, err := buildStrsRecord(row, period)
			if err != nil {
				logSkippedRow(logger, plan, period, i, err)
				result.RowsSkipped++
				continue
			}
			records = append(records, rec)
		}
		result.RowsInserted = len(records)
		insertErr = replaceRecords(tx, &models.ReconStrs{}, period, records)
	}
	if insertErr != nil {
		releaseReconLock(tx, plan, period)
		tx.Rollback()
		return nil, insertErr
	}

	// Advisory locks are connection-scoped, not transaction-scoped: release
	// must happen on the transaction's connection, so it goes right before
	// the commit. Any contender unblocked here still waits on our row locks.
	releaseReconLock(tx, plan, period)
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"plan":           plan,
		"recon_period":   period,
		"rows_attempted": result.RowsAttempted,
		"rows_inserted":  result.RowsInserted,
		"rows_skipped":   result.RowsSkipped,
	}).Info("[recon.upload]")

	return result, nil
}

// replaceRecords is the exact-tag replacement policy: delete everything
// carrying this recon period, then insert the fresh set. Period isolation
// follows directly from the WHERE clause; records of other periods are
// never touched.
func replaceRecords[T any](tx *gorm.DB, model *T, period string, records []*T) error {
	if err := tx.Where("RECON_PERIOD = ?", period).Delete(model).Error; err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	return tx.CreateInBatches(records, 500).Error
}

// fieldRows maps each data row into canonical-field → raw-cell form. When a
// header maps to no canonical field it is simply never read. Duplicate
// headers keep the first occurrence.
func fieldRows(table Table, plan string) []map[string]string {
	fields := MapColumns(NormalizeHeaders(table.Headers), plan)
	out := make([]map[string]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		m := make(map[string]string, len(fields))
		for i, field := range fields {
			if _, seen := m[field]; seen {
				continue
			}
			m[field] = table.Cell(row, i)
		}
		out = append(out, m)
	}
	return out
}

func buildPersRecord(row map[string]string, month time.Time, period string) (*models.ReconPers, error) {
	contributionCode, err := ToInt(row["contribution_code"])
	if err != nil {
		return nil, fmt.Errorf("contribution_code: %w", err)
	}

	// Check date is stamped from the declared reporting month, not the file:
	// PERS exports carry no usable check date column.
	checkDate := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)

	return &models.ReconPers{
		EmplId:           CleanCode(row["empl_id"], 6),
		FirstName:        CleanString(row["first_name"]),
		LastName:         CleanString(row["last_name"]),
		ServicePeriod:    ToDate(row["service_period"]),
		EmplRcd:          CleanCode(row["empl_rcd"], 2),
		EarningsCode:     CleanString(row["earnings_code"]),
		ErnRate:          ToFloat(row["ern_rate"]),
		Earnings:         ToFloat(row["earnings"]),
		ContributionRate: ToFloat(row["contribution_rate"]),
		ContributionAmt:  ToFloat(row["contribution_amt"]),
		Erncd:            CleanString(row["erncd"]),
		ContributionCode: contributionCode,
		WorkScheduleCode: CleanCode(row["work_schedule_code"], 2),
		UserSource:       CleanString(row["user_source"]),
		RetirementCode:   CleanString(row["retirement_code"]),
		CheckDate:        &checkDate,
		ReconPeriod:      &period,
	}, nil
}

func buildStrsRecord(row map[string]string, period string) (*models.ReconStrs, error) {
	memberCode, err := ToInt(row["member_code"])
	if err != nil {
		return nil, fmt.Errorf("member_code: %w", err)
	}
	assignment, err := ToInt(row["assignment"])
	if err != nil {
		return nil, fmt.Errorf("assignment: %w", err)
	}
	contributionCode, err := ToInt(row["contribution_code"])
	if err != nil {
		return nil, fmt.Errorf("contribution_code: %w", err)
	}
	payCode, err := ToInt(row["pay_code"])
	if err != nil {
		return nil, fmt.Errorf("pay_code: %w", err)
	}
	verified, err := ToBool(row["verified"])
	if err != nil {
		return nil, fmt.Errorf("verified: %w", err)
	}

	return &models.ReconStrs{
		EmplId:           CleanCode(row["empl_id"], 6),
		FirstName:        CleanString(row["first_name"]),
		LastName:         CleanString(row["last_name"]),
		CheckDate:        ToDate(row["check_date"]),
		EmplRcd:          CleanCode(row["empl_rcd"], 2),
		MemberCode:       memberCode,
		EarningsCode:     CleanString(row["earnings_code"]),
		EarningsBegin:    ToDate(row["earnings_begin"]),
		EarningsEnd:      ToDate(row["earnings_end"]),
		ErnRate:          ToFloat(row["ern_rate"]),
		Earnings:         ToFloat(row["earnings"]),
		ContributionRate: ToFloat(row["contribution_rate"]),
		ContributionAmt:  ToFloat(row["contribution_amt"]),
		Assignment:       assignment,
		ContributionCode: contributionCode,
		PayCode:          payCode,
		InputSource:      CleanString(row["input_source"]),
		RetirementType:   CleanString(row["retirement_type"]),
		Verified:         verified,
		ReconPeriod:      &period,
	}, nil
}

func logSkippedRow(logger *logrus.Logger, plan, period string, rowIdx int, err error) {
	// +2: 1-based numbering plus the header row, matching the row the
	// operator sees in Excel.
	logger.WithFields(logrus.Fields{
		"plan":         plan,
		"recon_period": period,
		"row":          rowIdx + 2,
		"reason":       err.Error(),
	}).Warn("[recon.row_skipped]")
}

// acquireReconLock serializes uploads per (plan, period) across instances
// using MySQL advisory locks.
func acquireReconLock(tx *gorm.DB, plan, period string) error {
	lockName := fmt.Sprintf("recon:%s:%s", plan, period)
	var ok int
	if err := tx.Raw("SELECT GET_LOCK(?, 30)", lockName).Scan(&ok).Error; err != nil {
		return err
	}
	if ok != 1 {
		return fmt.Errorf("could not acquire recon lock for %s %s", plan, period)
	}
	return nil
}

func releaseReconLock(tx *gorm.DB, plan, period string) {
	lockName := fmt.Sprintf("recon:%s:%s", plan, period)
	var released int
	_ = tx.Raw("SELECT RELEASE_LOCK(?)", lockName).Scan(&released).Error
}
