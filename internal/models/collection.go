package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Collection statuses
const (
	CollectionStatusActive    = "active"
	CollectionStatusExpired   = "expired"
	CollectionStatusCompleted = "completed"
)

// Collection is an organizer's request for many people to each pay a
// fixed amount. Collections are soft-retired, never hard-deleted, so
// their ledger history stays intact.
type Collection struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	OrganizerID uint   `gorm:"index;not null" json:"organizer_id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	// ShareCode is the public handle embedded in the share link / QR code.
	ShareCode string `gorm:"uniqueIndex;not null" json:"share_code"`
	// UnitAmount is the per-participant amount in NGN.
	UnitAmount      decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"unit_amount"`
	FeeBearer       FeeBearer       `gorm:"type:varchar(16);not null;default:'organizer'" json:"fee_bearer"`
	Deadline        *time.Time      `json:"deadline,omitempty"`
	MaxParticipants *int            `json:"max_participants,omitempty"`
	// Status is a cache of the derived lifecycle state; DerivedStatus is
	// authoritative on read paths.
	Status string `gorm:"not null;default:'active'" json:"status"`
	// ContributorFields lists which identity fields a contributor must
	// supply at checkout (e.g. name, email, phone).
	ContributorFields JSON           `gorm:"type:jsonb" json:"contributor_fields"`
	Currency          string         `gorm:"default:'NGN'" json:"currency"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// DerivedStatus computes the lifecycle state from the paid-contribution
// count and the clock. The cap is checked before the deadline so a
// collection that filled up before expiring reads as completed.
func (c *Collection) DerivedStatus(paidCount int64, now time.Time) string {
	if c.MaxParticipants != nil && paidCount >= int64(*c.MaxParticipants) {
		return CollectionStatusCompleted
	}
	if c.Deadline != nil && now.After(*c.Deadline) {
		return CollectionStatusExpired
	}
	return CollectionStatusActive
}

// AcceptsContributions reports whether a new contribution may begin
// checkout right now.
func (c *Collection) AcceptsContributions(paidCount int64, now time.Time) bool {
	return c.DerivedStatus(paidCount, now) == CollectionStatusActive
}
