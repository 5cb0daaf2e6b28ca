package models

import (
	"time"
)

// ReconPers is one row of the PERS reconciliation table. The upstream table
// predates this service; column names must stay exactly as the reporting
// tooling expects them, hence the explicit ALL-CAPS column tags.
//
// There is no natural key. Uniqueness is operational: every upload for a
// recon period replaces the whole period (delete-then-insert).
type ReconPers struct {
	ID               int        `gorm:"column:ID;primaryKey;autoIncrement" json:"id"`
	EmplId           *string    `gorm:"column:EMPL_ID;size:10" json:"empl_id"`
	FirstName        *string    `gorm:"column:FIRST_NAME" json:"first_name"`
	LastName         *string    `gorm:"column:LAST_NAME" json:"last_name"`
	ServicePeriod    *time.Time `gorm:"column:SERVICE_PERIOD;type:date" json:"service_period"`
	EmplRcd          *string    `gorm:"column:EMPL_RCD;size:2" json:"empl_rcd"`
	EarningsCode     *string    `gorm:"column:EARNINGS_CODE;size:10" json:"earnings_code"`
	ErnRate          *float64   `gorm:"column:ERN_RATE" json:"ern_rate"`
	Earnings         *float64   `gorm:"column:EARNINGS" json:"earnings"`
	ContributionRate *float64   `gorm:"column:CONTRIBUTION_RATE" json:"contribution_rate"`
	ContributionAmt  *float64   `gorm:"column:CONTRIBUTION_AMT" json:"contribution_amt"`
	Erncd            *string    `gorm:"column:ERNCD;size:10" json:"erncd"`
	ContributionCode *int       `gorm:"column:CONTRIBUTION_CODE" json:"contribution_code"`
	WorkScheduleCode *string    `gorm:"column:WORK_SCHEDULE_CODE;size:2" json:"work_schedule_code"`
	UserSource       *string    `gorm:"column:USER_SOURCE" json:"user_source"`
	RetirementCode   *string    `gorm:"column:RETIREMENT_CODE;size:10" json:"retirement_code"`
	CheckDate        *time.Time `gorm:"column:CHECK_DATE;type:date" json:"check_date"`
	ReconPeriod      *string    `gorm:"column:RECON_PERIOD;size:7;index" json:"recon_period"`
}

func (ReconPers) TableName() string {
	return "ICE_CUBE_RECON_PERS"
}
