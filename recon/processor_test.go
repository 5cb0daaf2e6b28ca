package recon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		DisableAutomaticPing: true,
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return gdb, mock
}

func persTable() Table {
	return Table{
		Headers: []string{"EMPLOYEE ID", "FIRST NAME", "LAST NAME", "SERVICE PERIOD", "EMPLOYEE RECORD", "EARNINGS", "CONTRIBUTION CODE"},
		Rows: [][]string{
			{"1234", "Ada", "Lovelace", "2024-03-15", "0", "1500.00", "1"},
			{"5678", "Grace", "Hopper", "2024-03-15", "1", "not-a-number", "2"},
			{"9999", "Edsger", "Dijkstra", "2024-03-15", "0", "900.00", "XX"},
		},
	}
}

func expectReplace(mock sqlmock.Sqlmock, tableName, period string, inserted int64) {
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT GET_LOCK").
		WillReturnRows(sqlmock.NewRows([]string{"lock"}).AddRow(1))
	mock.ExpectExec("DELETE FROM `" + tableName + "`").
		WithArgs(period).
		WillReturnResult(sqlmock.NewResult(0, 3))
	if inserted > 0 {
		mock.ExpectExec("INSERT INTO `" + tableName + "`").
			WillReturnResult(sqlmock.NewResult(1, inserted))
	}
	mock.ExpectQuery("SELECT RELEASE_LOCK").
		WillReturnRows(sqlmock.NewRows([]string{"lock"}).AddRow(1))
	mock.ExpectCommit()
}

func TestProcessUploadPersReplacesPeriod(t *testing.T) {
	db, mock := newMockDB(t)
	month := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	// Row 3 has a non-numeric contribution code and must be skipped; the
	// unparseable earnings cell in row 2 is best-effort and survives as null.
	expectReplace(mock, "ICE_CUBE_RECON_PERS", "2024-03", 2)

	result, err := ProcessUpload(context.Background(), db, persTable(), month, PlanPers)
	if err != nil {
		t.Fatalf("ProcessUpload: %v", err)
	}
	if result.RowsAttempted != 3 || result.RowsInserted != 2 || result.RowsSkipped != 1 {
		t.Fatalf("result = %+v, want 3 attempted / 2 inserted / 1 skipped", result)
	}
	if result.ReconPeriod != "2024-03" {
		t.Fatalf("period = %q", result.ReconPeriod)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestProcessUploadStrs(t *testing.T) {
	db, mock := newMockDB(t)
	month := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	table := Table{
		Headers: []string{"EMPLOYEE ID", "ASSIGNMENT", "PAY CODE", "STRS", "VERIFIED", "CONTRIBUTION CODE"},
		Rows: [][]string{
			{"42", "57", "1", "2", "1", "3"},
		},
	}

	expectReplace(mock, "ICE_CUBE_RECON_STRS", "2024-07", 1)

	result, err := ProcessUpload(context.Background(), db, table, month, PlanStrs)
	if err != nil {
		t.Fatalf("ProcessUpload: %v", err)
	}
	if result.RowsInserted != 1 || result.RowsSkipped != 0 {
		t.Fatalf("result = %+v", result)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestProcessUploadPlanMismatchTouchesNothing(t *testing.T) {
	db, mock := newMockDB(t)
	month := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	table := Table{
		Headers: []string{"ASSIGNMENT", "PAY CODE", "STRS"},
		Rows:    [][]string{{"1", "2", "3"}},
	}

	_, err := ProcessUpload(context.Background(), db, table, month, PlanPers)
	if !errors.Is(err, ErrPlanMismatch) {
		t.Fatalf("err = %v, want ErrPlanMismatch", err)
	}

	// No expectations were registered: any DB statement would have failed
	// the mock. The existing rows for the period are untouched.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected DB activity: %v", err)
	}
}

func TestProcessUploadInvalidPlan(t *testing.T) {
	db, mock := newMockDB(t)
	month := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := ProcessUpload(context.Background(), db, persTable(), month, "PARS")
	if !errors.Is(err, ErrInvalidPlan) {
		t.Fatalf("err = %v, want ErrInvalidPlan", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected DB activity: %v", err)
	}
}

func TestProcessUploadInconclusiveDetectionUsesDeclaredPlan(t *testing.T) {
	db, mock := newMockDB(t)
	month := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	// No keyword overlap at all: detection returns nothing and the upload
	// proceeds with the declared plan.
	table := Table{
		Headers: []string{"EMPLOYEE ID", "FIRST NAME", "LAST NAME"},
		Rows:    [][]string{{"1234", "Ada", "Lovelace"}},
	}

	expectReplace(mock, "ICE_CUBE_RECON_PERS", "2024-03", 1)

	result, err := ProcessUpload(context.Background(), db, table, month, PlanPers)
	if err != nil {
		t.Fatalf("ProcessUpload: %v", err)
	}
	if result.RowsInserted != 1 {
		t.Fatalf("result = %+v", result)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestProcessUploadEmptyFileStillClearsPeriod(t *testing.T) {
	db, mock := newMockDB(t)
	month := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	table := Table{
		Headers: []string{"SERVICE PERIOD", "EMPLOYEE RECORD"},
	}

	expectReplace(mock, "ICE_CUBE_RECON_PERS", "2024-03", 0)

	result, err := ProcessUpload(context.Background(), db, table, month, PlanPers)
	if err != nil {
		t.Fatalf("ProcessUpload: %v", err)
	}
	if result.RowsAttempted != 0 || result.RowsInserted != 0 {
		t.Fatalf("result = %+v", result)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPeriod(t *testing.T) {
	if got := Period(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)); got != "2024-12" {
		t.Fatalf("Period = %q", got)
	}
}
