package postgres

import (
	"time"

	"github.com/shopspring/decimal"
)

// ObservationRecord is one row of the flat merged table as persisted per
// run. Values stay textual: coercion is the reconciler's concern and the
// raw artifact keeps whatever the API served.
type ObservationRecord struct {
	ID uint `gorm:"primaryKey"`

	// unique index: one row per vintage per release listing per run.
	// ReleaseID is part of the key because a series listed under several
	// releases merges into one row per listing.
	RunID         string    `gorm:"type:text;not null;index:idx_obs_run;index:idx_obs_natural,unique"`
	SeriesID      string    `gorm:"type:text;not null;index:idx_obs_natural,unique"`
	Date          time.Time `gorm:"not null;index:idx_obs_natural,unique"`
	RealtimeStart time.Time `gorm:"not null;index:idx_obs_natural,unique"`
	ReleaseID     int       `gorm:"not null;index:idx_obs_natural,unique"`

	RealtimeEnd time.Time `gorm:"not null"`
	Year        int       `gorm:"not null"`
	Month       int       `gorm:"not null"`
	Value       string    `gorm:"type:text;not null"`

	Title                   string `gorm:"type:text;not null"`
	Frequency               string `gorm:"type:varchar(20);not null"`
	SeasonalAdjustmentShort string `gorm:"type:varchar(10);not null"`
	ReleaseName             string `gorm:"type:text;not null"`

	RecordedAt time.Time `gorm:"autoCreateTime"`
}

// TableName overrides the default table name for GORM.
func (ObservationRecord) TableName() string {
	return "observation_record"
}

// ReconciliationRecord is one reconciled date as persisted per run.
type ReconciliationRecord struct {
	ID uint `gorm:"primaryKey"`

	RunID string    `gorm:"type:text;not null;index:idx_recon_natural,unique"`
	Date  time.Time `gorm:"not null;index:idx_recon_natural,unique"`

	CalculatedTotal decimal.Decimal `gorm:"type:numeric;not null"`
	PulledTotal     decimal.Decimal `gorm:"type:numeric;not null"`
	Difference      decimal.Decimal `gorm:"type:numeric;not null"`

	RecordedAt time.Time `gorm:"autoCreateTime"`
}

// TableName overrides the default table name for GORM.
func (ReconciliationRecord) TableName() string {
	return "reconciliation_record"
}
