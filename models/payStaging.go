package models

import (
	"time"
)

// PayStaging is a local cache of payroll check/deduction rows pulled from the
// upstream payroll database. Rows are replaced wholesale per sync window and
// never edited in place.
type PayStaging struct {
	ID       int        `gorm:"column:ID;primaryKey;autoIncrement" json:"id"`
	EmplId   *string    `gorm:"column:EMPLID;size:10" json:"emplid"`
	PayEndDt *time.Time `gorm:"column:PAY_END_DT;type:date;index" json:"pay_end_dt"`
	PageNum  *int       `gorm:"column:PAGE_NUM" json:"page_num"`
	LineNum  *int       `gorm:"column:LINE_NUM" json:"line_num"`
	Paygroup *string    `gorm:"column:PAYGROUP;size:10" json:"paygroup"`
	OffCycle *string    `gorm:"column:OFF_CYCLE;size:10" json:"off_cycle"`
	Sepchk   *int       `gorm:"column:SEPCHK" json:"sepchk"`
	Dedcd    *string    `gorm:"column:DEDCD;size:10" json:"dedcd"`
	DedClass *string    `gorm:"column:DED_CLASS;size:10" json:"ded_class"`
	DedCur   *float64   `gorm:"column:DED_CUR" json:"ded_cur"`
}

func (PayStaging) TableName() string {
	return "ICE_CUBE_PAY_DATA_STAGING"
}
