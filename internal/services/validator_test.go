package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ledger-service/internal/models"
)

func validTransaction() models.Transaction {
	return models.Transaction{
		TransactionID:   "TX1",
		Name:            "Jane Doe",
		Email:           "jane@x.com",
		Amount:          12.50,
		TransactionDate: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		ClientLocation:  "40.7128,-74.006",
		ClientTimezone:  "America/New_York",
		ClientTimestamp: time.Date(2024, 1, 15, 15, 0, 0, 0, time.UTC),
		ServerTimestamp: time.Now().UTC(),
	}
}

func TestValidateTransactionValid(t *testing.T) {
	tx := validTransaction()
	assert.Empty(t, ValidateTransaction(&tx))
}

func TestValidateTransactionCollectsAllViolations(t *testing.T) {
	tx := validTransaction()
	tx.Email = "not-an-email"
	tx.Amount = -3
	tx.ClientLocation = "somewhere"

	violations := ValidateTransaction(&tx)
	assert.Len(t, violations, 3)

	fields := make([]string, 0, len(violations))
	for _, v := range violations {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{"Email", "Amount", "ClientLocation"}, fields)
}

func TestValidateTransactionRequiredFields(t *testing.T) {
	tx := validTransaction()
	tx.TransactionID = ""
	tx.Name = ""
	tx.TransactionDate = time.Time{}

	violations := ValidateTransaction(&tx)
	assert.Len(t, violations, 3)
}

func TestValidateTransactionNameLength(t *testing.T) {
	tx := validTransaction()
	for i := 0; i < 11; i++ {
		tx.Name += "0123456789"
	}

	violations := ValidateTransaction(&tx)
	assert.Len(t, violations, 1)
	assert.Equal(t, "Name", violations[0].Field)
}

func TestValidateTransactionLocationFormat(t *testing.T) {
	good := []string{"40.7128,-74.006", "-90,180", "0,0", "12,-0.5"}
	for _, loc := range good {
		tx := validTransaction()
		tx.ClientLocation = loc
		assert.Empty(t, ValidateTransaction(&tx), "location %q", loc)
	}

	bad := []string{"40.7128", "40,,50", "a,b", "40.7128,-74.006,1", "40.7128 -74.006"}
	for _, loc := range bad {
		tx := validTransaction()
		tx.ClientLocation = loc
		assert.NotEmpty(t, ValidateTransaction(&tx), "location %q", loc)
	}
}
