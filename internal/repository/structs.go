package repository

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrObjectNotFound = errors.New("not found")
	// ErrRecipientNotFound is returned when a notification references a user
	// the store does not know.
	ErrRecipientNotFound = errors.New("recipient not found")
)

type Notification struct {
	ID        int64     `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	Type      string    `db:"type" json:"type"`
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	Link      *string   `db:"link" json:"link,omitempty"`
	Read      bool      `db:"read" json:"read"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type DeviceToken struct {
	ID        int64     `db:"id"`
	UserID    string    `db:"user_id"`
	Token     string    `db:"token"`
	Platform  string    `db:"platform"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}

type TrackingEvent struct {
	ID          int64     `db:"id" json:"id"`
	SubjectID   string    `db:"subject_id" json:"subjectId"`
	SubjectType string    `db:"subject_type" json:"subjectType"`
	Status      string    `db:"status" json:"status"`
	Location    *string   `db:"location" json:"location,omitempty"`
	Message     *string   `db:"message" json:"message,omitempty"`
	OccurredAt  time.Time `db:"occurred_at" json:"timestamp"`
}

type Order struct {
	ID         string          `db:"id" json:"id"`
	BuyerID    string          `db:"buyer_id" json:"buyerId"`
	SupplierID string          `db:"supplier_id" json:"supplierId"`
	Total      decimal.Decimal `db:"total" json:"total"`
	Status     string          `db:"status" json:"status"`
	TrackingID *string         `db:"tracking_id" json:"trackingId,omitempty"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updatedAt"`
}

// Booking is the shared row shape of mechanic and logistics bookings.
type Booking struct {
	ID          string     `db:"id" json:"id"`
	CustomerID  string     `db:"customer_id" json:"customerId"`
	ProviderID  *string    `db:"provider_id" json:"providerId,omitempty"`
	Status      string     `db:"status" json:"status"`
	Description string     `db:"description" json:"description"`
	ScheduledAt *time.Time `db:"scheduled_at" json:"scheduledAt,omitempty"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}
