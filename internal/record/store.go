package record

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrStoreUnavailable indicates the record store dependency is not configured.
var ErrStoreUnavailable = errors.New("record: store unavailable")

// Store provides database accessors for payment records.
type Store interface {
	InsertPayment(ctx context.Context, p Payment) (uuid.UUID, error)
	ListByPaymentIntent(ctx context.Context, paymentIntentID string) ([]Payment, error)
}

// NewStore constructs a Store backed by a pgx connection pool.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

type pgStore struct {
	pool *pgxpool.Pool
}

// InsertPayment persists a payment record and returns the generated identifier.
// There is deliberately no existence check: webhook redelivery writes a second
// row rather than risking a dropped outcome.
func (s *pgStore) InsertPayment(ctx context.Context, p Payment) (uuid.UUID, error) {
	if s == nil || s.pool == nil {
		return uuid.Nil, ErrStoreUnavailable
	}
	var id uuid.UUID
	err := s.pool.QueryRow(ctx, `INSERT INTO payment_records
(payment_intent_id, customer_id, amount, currency, status,
 customer_name, customer_email, order_note, phone_number,
 payment_method_type, card_brand, card_last4, metadata)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING id`,
		p.PaymentIntentID, p.CustomerID, p.Amount, p.Currency, p.Status,
		p.CustomerName, p.CustomerEmail, p.OrderNote, p.PhoneNumber,
		p.PaymentMethodType, p.CardBrand, p.CardLast4, p.Metadata).Scan(&id)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// ListByPaymentIntent returns all records written for a processor intent,
// newest first. Useful for operational queries; duplicates are possible.
func (s *pgStore) ListByPaymentIntent(ctx context.Context, paymentIntentID string) ([]Payment, error) {
	if s == nil || s.pool == nil {
		return nil, ErrStoreUnavailable
	}
	rows, err := s.pool.Query(ctx, `SELECT id, payment_intent_id, customer_id, amount, currency, status,
 customer_name, customer_email, order_note, phone_number,
 payment_method_type, card_brand, card_last4, metadata, created_at
FROM payment_records WHERE payment_intent_id = $1 ORDER BY created_at DESC`, paymentIntentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.PaymentIntentID, &p.CustomerID, &p.Amount, &p.Currency, &p.Status,
			&p.CustomerName, &p.CustomerEmail, &p.OrderNote, &p.PhoneNumber,
			&p.PaymentMethodType, &p.CardBrand, &p.CardLast4, &p.Metadata, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
