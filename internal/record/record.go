// Package record persists the outcome of payment attempts reported by the
// processor's webhook. Records are insert-only: nothing in the application
// updates or deletes a row once written.
package record

import (
	"time"

	"github.com/google/uuid"
)

// Payment is one persisted payment outcome. Nullable columns map to pointer
// fields; Metadata holds the raw processor metadata as JSONB.
type Payment struct {
	ID                uuid.UUID
	PaymentIntentID   string
	CustomerID        *string
	Amount            int64
	Currency          string
	Status            string
	CustomerName      *string
	CustomerEmail     *string
	OrderNote         *string
	PhoneNumber       *string
	PaymentMethodType *string
	CardBrand         *string
	CardLast4         *string
	Metadata          []byte
	CreatedAt         time.Time
}
