package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Withdrawal statuses
const (
	WithdrawalStatusPending    = "pending"
	WithdrawalStatusProcessing = "processing"
	WithdrawalStatusSuccessful = "successful"
	WithdrawalStatusFailed     = "failed"
	WithdrawalStatusCancelled  = "cancelled"
)

// WithdrawalTerminal reports whether a status allows no further
// transitions.
func WithdrawalTerminal(status string) bool {
	switch status {
	case WithdrawalStatusSuccessful, WithdrawalStatusFailed, WithdrawalStatusCancelled:
		return true
	}
	return false
}

// WithdrawalReserved reports whether a withdrawal in this status still
// reserves balance (counts against currently-withdrawable).
func WithdrawalReserved(status string) bool {
	return status == WithdrawalStatusPending || status == WithdrawalStatusProcessing
}

// Withdrawal is an organizer's request to move a collection's
// withdrawable balance to a bank account.
type Withdrawal struct {
	ID uint `gorm:"primarykey" json:"id"`
	// Reference identifies the withdrawal toward the payout provider.
	Reference    string          `gorm:"uniqueIndex;not null" json:"reference"`
	CollectionID uint            `gorm:"index;not null" json:"collection_id"`
	OrganizerID  uint            `gorm:"index;not null" json:"organizer_id"`
	Amount       decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`

	AccountName   string `gorm:"not null" json:"account_name"`
	AccountNumber string `gorm:"not null" json:"account_number"`
	BankName      string `gorm:"not null" json:"bank_name"`

	Status        string `gorm:"not null;default:'pending'" json:"status"`
	FailureReason string `json:"failure_reason,omitempty"`

	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	FailedAt    *time.Time `json:"failed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// BankDetails is the destination account for a withdrawal request.
type BankDetails struct {
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name"`
}
