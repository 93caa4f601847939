package postgres

import (
	"context"
	"fmt"
	"time"

	"fredrecon/internal/fred/dataset"
	"fredrecon/internal/fred/reconcile"

	"gorm.io/gorm/clause"
)

const insertBatchSize = 500

// SaveRun persists both artifacts of one pipeline run under the given
// run id. Rows already present (same run id and natural key) are left
// untouched, so a retried save is harmless.
func (p *PostgresClient) SaveRun(ctx context.Context, runID string, merged []dataset.MergedRecord, rec reconcile.Result) error {
	if err := p.insertObservations(ctx, runID, merged); err != nil {
		return fmt.Errorf("save merged table: %w", err)
	}
	if err := p.insertReconciliation(ctx, runID, rec); err != nil {
		return fmt.Errorf("save reconciliation table: %w", err)
	}
	return nil
}

func (p *PostgresClient) insertObservations(ctx context.Context, runID string, merged []dataset.MergedRecord) error {
	if len(merged) == 0 {
		return nil
	}

	records := make([]ObservationRecord, 0, len(merged))
	for _, m := range merged {
		records = append(records, ToObservationRecord(runID, m))
	}

	tx := p.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "run_id"},
			{Name: "series_id"},
			{Name: "date"},
			{Name: "realtime_start"},
			{Name: "release_id"},
		},
		DoNothing: true,
	}).CreateInBatches(records, insertBatchSize)

	return tx.Error
}

func (p *PostgresClient) insertReconciliation(ctx context.Context, runID string, rec reconcile.Result) error {
	if len(rec.Rows) == 0 {
		return nil
	}

	records := make([]ReconciliationRecord, 0, len(rec.Rows))
	for _, row := range rec.Rows {
		records = append(records, ReconciliationRecord{
			RunID:           runID,
			Date:            row.Date,
			CalculatedTotal: row.CalculatedTotal,
			PulledTotal:     row.PulledTotal,
			Difference:      row.Difference,
		})
	}

	tx := p.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "run_id"},
			{Name: "date"},
		},
		DoNothing: true,
	}).CreateInBatches(records, insertBatchSize)

	return tx.Error
}

// CountRunObservations reports how many merged rows a run persisted.
func (p *PostgresClient) CountRunObservations(ctx context.Context, runID string) (int64, error) {
	var n int64
	err := p.DB.WithContext(ctx).
		Model(&ObservationRecord{}).
		Where("run_id = ?", runID).
		Count(&n).Error
	return n, err
}

// DeleteRunsBefore removes artifacts of runs recorded before the cutoff.
func (p *PostgresClient) DeleteRunsBefore(ctx context.Context, cutoff time.Time) error {
	if err := p.DB.WithContext(ctx).
		Where("recorded_at < ?", cutoff).
		Delete(&ObservationRecord{}).Error; err != nil {
		return err
	}
	return p.DB.WithContext(ctx).
		Where("recorded_at < ?", cutoff).
		Delete(&ReconciliationRecord{}).Error
}

// ToObservationRecord converts one merged row into its DB representation.
func ToObservationRecord(runID string, m dataset.MergedRecord) ObservationRecord {
	return ObservationRecord{
		RunID:                   runID,
		SeriesID:                m.SeriesID,
		Date:                    m.Date,
		RealtimeStart:           m.RealtimeStart,
		RealtimeEnd:             m.RealtimeEnd,
		Year:                    m.Year,
		Month:                   m.Month,
		Value:                   m.Value,
		Title:                   m.Title,
		Frequency:               m.Frequency,
		SeasonalAdjustmentShort: m.SeasonalAdjustmentShort,
		ReleaseID:               m.ReleaseID,
		ReleaseName:             m.ReleaseName,
	}
}
