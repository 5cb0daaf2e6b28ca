package models

import (
	"time"
)

// ReconStrs is one row of the STRS reconciliation table. Same replacement
// policy as ReconPers: the recon period is the unit of replacement.
//
// RETIREMENT_CODE exists in the table but is never fed by the STRS column
// map; it is kept so AutoMigrate does not drop a column reporting relies on.
type ReconStrs struct {
	ID               int        `gorm:"column:ID;primaryKey;autoIncrement" json:"id"`
	EmplId           *string    `gorm:"column:EMPL_ID;size:10" json:"empl_id"`
	FirstName        *string    `gorm:"column:FIRST_NAME" json:"first_name"`
	LastName         *string    `gorm:"column:LAST_NAME" json:"last_name"`
	CheckDate        *time.Time `gorm:"column:CHECK_DATE;type:date" json:"check_date"`
	EmplRcd          *string    `gorm:"column:EMPL_RCD;size:2" json:"empl_rcd"`
	MemberCode       *int       `gorm:"column:MEMBER_CODE" json:"member_code"`
	EarningsCode     *string    `gorm:"column:EARNINGS_CODE;size:10" json:"earnings_code"`
	EarningsBegin    *time.Time `gorm:"column:EARNINGS_BEGIN;type:date" json:"earnings_begin"`
	EarningsEnd      *time.Time `gorm:"column:EARNINGS_END;type:date" json:"earnings_end"`
	ErnRate          *float64   `gorm:"column:ERN_RATE" json:"ern_rate"`
	Earnings         *float64   `gorm:"column:EARNINGS" json:"earnings"`
	ContributionRate *float64   `gorm:"column:CONTRIBUTION_RATE" json:"contribution_rate"`
	ContributionAmt  *float64   `gorm:"column:CONTRIBUTION_AMT" json:"contribution_amt"`
	Assignment       *int       `gorm:"column:ASSIGNMENT" json:"assignment"`
	ContributionCode *int       `gorm:"column:CONTRIBUTION_CODE" json:"contribution_code"`
	PayCode          *int       `gorm:"column:PAY_CODE" json:"pay_code"`
	InputSource      *string    `gorm:"column:INPUT_SOURCE" json:"input_source"`
	RetirementType   *string    `gorm:"column:RETIREMENT_TYPE;size:10" json:"retirement_type"`
	RetirementCode   *string    `gorm:"column:RETIREMENT_CODE;size:10" json:"retirement_code"`
	Verified         *bool      `gorm:"column:VERIFIED" json:"verified"`
	ReconPeriod      *string    `gorm:"column:RECON_PERIOD;size:7;index" json:"recon_period"`
}

func (ReconStrs) TableName() string {
	return "ICE_CUBE_RECON_STRS"
}
