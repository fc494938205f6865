package models

import (
	"time"
)

// Transaction is the ledger's sole entity. TransactionID is the business key
// carried by the uploaded file; ID is assigned by the store. ClientTimestamp
// is always derived from TransactionDate and ClientTimezone, never supplied.
type Transaction struct {
	ID              int       `gorm:"primaryKey;autoIncrement" json:"id"`
	TransactionID   string    `gorm:"column:transaction_id;size:255;not null;uniqueIndex" json:"transaction_id" validate:"required"`
	Name            string    `gorm:"column:name;size:100;not null" json:"name" validate:"required,min=1,max=100"`
	Email           string    `gorm:"column:email;size:255;not null" json:"email" validate:"required,email"`
	Amount          float64   `gorm:"column:amount;type:decimal(20,2);not null" json:"amount" validate:"required,gt=0"`
	TransactionDate time.Time `gorm:"column:transaction_date;not null" json:"transaction_date" validate:"required"`
	ClientLocation  string    `gorm:"column:client_location;size:100;not null" json:"client_location" validate:"required,coordinates"`
	ClientTimezone  string    `gorm:"column:client_timezone;size:100" json:"client_timezone"`
	ClientTimestamp time.Time `gorm:"column:client_timestamp;index" json:"client_timestamp"`
	ServerTimestamp time.Time `gorm:"column:server_timestamp" json:"server_timestamp"`
}

func (Transaction) TableName() string {
	return "transactions"
}
