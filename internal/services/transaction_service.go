package services

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"ledger-service/internal/models"
)

// Accepted transaction date layouts; parsing is locale independent.
var transactionDateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type TransactionService struct {
	DB       *gorm.DB
	Timezone TimeZoneResolver
}

func NewTransactionService(db *gorm.DB, timezone TimeZoneResolver) *TransactionService {
	return &TransactionService{DB: db, Timezone: timezone}
}

// ImportReport summarizes one import batch. Per-line rejections are collected
// here rather than failing the batch.
type ImportReport struct {
	BatchID  string   `json:"batch_id"`
	Imported int      `json:"imported"`
	Updated  int      `json:"updated"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

func (r *ImportReport) skip(line int, reason string) {
	r.Skipped++
	msg := fmt.Sprintf("line %d: %s", line, reason)
	r.Errors = append(r.Errors, msg)
	log.Printf("import: skipping %s", msg)
}

// stagedRecord carries a candidate until the batch commits. existing is nil
// for an insert; otherwise the record replaces the stored row.
type stagedRecord struct {
	record   models.Transaction
	existing *models.Transaction
}

// ImportTransactions reads comma-delimited rows (header first, then
// transactionId, name, email, amount, transactionDate, latitude, longitude),
// resolves each row's zone, validates and stages it, then commits every
// staged insert and update in one database transaction. Malformed or invalid
// rows are skipped; a lookup or storage failure aborts the import before
// anything is written, so partial lines are never committed.
func (s *TransactionService) ImportTransactions(r io.Reader) (ImportReport, error) {
	report := ImportReport{BatchID: uuid.NewString()}

	csvr := csv.NewReader(bufio.NewReader(r))
	csvr.TrimLeadingSpace = true
	csvr.FieldsPerRecord = -1

	// Header line is ignored.
	if _, err := csvr.Read(); err != nil {
		if err == io.EOF {
			return report, nil
		}
		return report, fmt.Errorf("failed to read header: %w", err)
	}

	staged := make(map[string]*stagedRecord)
	var order []string

	line := 1
	for {
		line++
		rec, err := csvr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.skip(line, err.Error())
			continue
		}
		if len(rec) != 7 {
			report.skip(line, fmt.Sprintf("expected 7 fields, got %d", len(rec)))
			continue
		}

		transactionID := strings.TrimSpace(rec[0])
		name := rec[1]
		email := rec[2]

		amountStr := strings.Trim(rec[3], "$ ")
		amount, err := strconv.ParseFloat(amountStr, 64)
		if err != nil {
			report.skip(line, fmt.Sprintf("invalid amount %q", rec[3]))
			continue
		}

		transactionDate, err := parseTransactionDate(rec[4])
		if err != nil {
			report.skip(line, fmt.Sprintf("invalid transaction date %q", rec[4]))
			continue
		}

		latStr := strings.TrimSpace(strings.Trim(rec[5], `"`))
		lngStr := strings.TrimSpace(strings.Trim(rec[6], `"`))
		if latStr == "" || lngStr == "" {
			report.skip(line, "blank coordinates")
			continue
		}
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr != nil || lngErr != nil {
			report.skip(line, fmt.Sprintf("invalid coordinates %q,%q", latStr, lngStr))
			continue
		}

		clientLocation := strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)

		clientTimezone, err := s.Timezone.ResolveTimezone(clientLocation)
		if errors.Is(err, ErrZeroResults) || errors.Is(err, ErrInvalidCoordinates) {
			report.skip(line, err.Error())
			continue
		}
		if err != nil {
			// Unrecoverable lookup failure: abort with nothing committed.
			return report, fmt.Errorf("line %d: %w", line, err)
		}

		clientTimestamp, err := s.Timezone.ConvertToUTC(transactionDate, clientTimezone)
		if err != nil {
			return report, fmt.Errorf("line %d: %w", line, err)
		}

		candidate := models.Transaction{
			TransactionID:   transactionID,
			Name:            name,
			Email:           email,
			Amount:          amount,
			TransactionDate: transactionDate,
			ClientLocation:  clientLocation,
			ClientTimezone:  clientTimezone,
			ClientTimestamp: clientTimestamp,
			ServerTimestamp: time.Now().UTC(),
		}

		if violations := ValidateTransaction(&candidate); len(violations) > 0 {
			for _, v := range violations {
				report.skip(line, v.Message)
			}
			continue
		}

		// Last write wins for a transactionId repeated within the same file;
		// the store is consulted once per distinct id.
		if st, ok := staged[candidate.TransactionID]; ok {
			st.record = candidate
			continue
		}
		existing, err := s.findByTransactionID(candidate.TransactionID)
		if err != nil {
			return report, err
		}
		staged[candidate.TransactionID] = &stagedRecord{record: candidate, existing: existing}
		order = append(order, candidate.TransactionID)
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for _, id := range order {
			st := staged[id]
			rec := st.record
			if st.existing == nil {
				if err := tx.Create(&rec).Error; err != nil {
					return err
				}
				continue
			}
			rec.ID = st.existing.ID
			if err := tx.Save(&rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("failed to commit import batch: %w", err)
	}

	for _, id := range order {
		if staged[id].existing == nil {
			report.Imported++
		} else {
			report.Updated++
		}
	}
	return report, nil
}

func (s *TransactionService) findByTransactionID(id string) (*models.Transaction, error) {
	var t models.Transaction
	err := s.DB.Where("transaction_id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseTransactionDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range transactionDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// GetTransactions returns records whose ClientTimestamp falls inside the
// range, with both bounds interpreted as wall-clock time in userTimezone, and
// whose ClientTimezone matches userTimezone exactly.
func (s *TransactionService) GetTransactions(fromDate, toDate time.Time, userTimezone string) ([]models.Transaction, error) {
	if fromDate.After(toDate) {
		return nil, ErrInvalidRange
	}

	fromUTC, err := s.Timezone.ConvertToUTC(fromDate, userTimezone)
	if err != nil {
		return nil, err
	}
	toUTC, err := s.Timezone.ConvertToUTC(toDate, userTimezone)
	if err != nil {
		return nil, err
	}

	var transactions []models.Transaction
	err = s.DB.
		Where("client_timestamp >= ?", fromUTC).
		Where("client_timestamp <= ?", toUTC).
		Where("client_timezone = ?", userTimezone).
		Find(&transactions).Error
	return transactions, err
}

// GetClientTransactions filters on ClientTimestamp only; the bounds are taken
// as already being in the stored representation.
func (s *TransactionService) GetClientTransactions(fromDate, toDate time.Time) ([]models.Transaction, error) {
	if fromDate.After(toDate) {
		return nil, ErrInvalidRange
	}

	var transactions []models.Transaction
	err := s.DB.
		Where("client_timestamp >= ?", fromDate).
		Where("client_timestamp <= ?", toDate).
		Find(&transactions).Error
	return transactions, err
}

func (s *TransactionService) GetJanuary2024Transactions() ([]models.Transaction, error) {
	startDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	endDate := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)

	var transactions []models.Transaction
	err := s.DB.
		Where("client_timestamp >= ?", startDate).
		Where("client_timestamp <= ?", endDate).
		Find(&transactions).Error
	return transactions, err
}

var exportHeaders = []string{
	"Id", "TransactionId", "Name", "Email", "Amount",
	"TransactionDate", "ClientLocation", "ClientTimezone",
	"ClientTimestamp", "ServerTimestamp",
}

// ExportTransactions renders the GetTransactions result as an xlsx workbook:
// one header row, one row per record, no styling.
func (s *TransactionService) ExportTransactions(fromDate, toDate time.Time, userTimezone string) ([]byte, error) {
	transactions, err := s.GetTransactions(fromDate, toDate, userTimezone)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Transactions"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	for col, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for row, t := range transactions {
		values := []interface{}{
			t.ID, t.TransactionID, t.Name, t.Email, t.Amount,
			t.TransactionDate, t.ClientLocation, t.ClientTimezone,
			t.ClientTimestamp, t.ServerTimestamp,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
