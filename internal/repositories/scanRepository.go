package repositories

import (
	"errors"
	"strings"

	"CryptoScannerBot/internal/models"

	"gorm.io/gorm"
)

type ScanRepository struct {
	db *gorm.DB
}

// NewScanRepository creates a new instance of ScanRepository
func NewScanRepository(db *gorm.DB) *ScanRepository {
	return &ScanRepository{db: db}
}

func (r *ScanRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&models.ScanRecord{})
}

// SaveReport stores one record per interval of the report in a single
// transaction.
func (r *ScanRepository) SaveReport(report *models.Report) error {
	if report == nil {
		return errors.New("report cannot be nil")
	}

	records := RecordsFromReport(report)
	if len(records) == 0 {
		return nil
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&records).Error
	})
}

// FindRecent returns the latest records for interval, newest first.
func (r *ScanRepository) FindRecent(interval string, limit int) ([]models.ScanRecord, error) {
	if interval == "" {
		return nil, errors.New("invalid interval")
	}
	if limit <= 0 {
		limit = 10
	}

	var records []models.ScanRecord
	err := r.db.Where("scan_interval = ?", interval).
		Order("started_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// RecordsFromReport flattens a report into persistable rows.
func RecordsFromReport(report *models.Report) []models.ScanRecord {
	records := make([]models.ScanRecord, 0, len(report.Results))
	for _, res := range report.Results {
		record := models.ScanRecord{
			Trigger:    string(report.Trigger),
			Interval:   res.Interval,
			Matches:    strings.Join(res.Symbols, ","),
			MatchCount: len(res.Symbols),
			Scanned:    res.Scanned,
			Skipped:    res.Skipped,
			Failed:     res.Failed,
			DurationMs: res.Duration.Milliseconds(),
			StartedAt:  report.StartedAt,
			FinishedAt: report.FinishedAt,
		}
		if res.Err != nil {
			record.Error = res.Err.Error()
		}
		records = append(records, record)
	}
	return records
}
