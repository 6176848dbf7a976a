package payment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

type Repository interface {
	Save(ctx context.Context, p *Payment) error
	UpdateStatusByReference(ctx context.Context, reference, status string) error
	GetByOrderID(ctx context.Context, orderID string) (*Payment, error)

	// SaveWebhook records an incoming notification keyed on
	// (provider, event_id). A redelivery returns the stored row's id;
	// alreadyProcessed is true only when that row was applied before, so
	// a retry of a failed delivery can run the apply step again.
	SaveWebhook(
		ctx context.Context,
		provider string,
		eventID string,
		eventType string,
		reference string,
		payload json.RawMessage,
		signatureValid bool,
	) (webhookID int64, alreadyProcessed bool, err error)

	MarkWebhookProcessed(ctx context.Context, webhookID int64) error
	MarkWebhookFailed(ctx context.Context, webhookID int64, reason string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Save(ctx context.Context, p *Payment) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO payments (order_id, reference, amount, status, payment_method, provider)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		p.OrderID, p.Reference, p.Amount.StringFixed(2), p.Status, p.PaymentMethod, p.Provider,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *repository) UpdateStatusByReference(ctx context.Context, reference, status string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE payments SET status = $2, updated_at = NOW() WHERE reference = $1`,
		reference, status)
	return err
}

func (r *repository) GetByOrderID(ctx context.Context, orderID string) (*Payment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, order_id, reference, amount, status, payment_method, provider, created_at, updated_at
		FROM payments WHERE order_id = $1`, orderID)

	var p Payment
	err := row.Scan(
		&p.ID, &p.OrderID, &p.Reference, &p.Amount,
		&p.Status, &p.PaymentMethod, &p.Provider, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) SaveWebhook(
	ctx context.Context,
	provider string,
	eventID string,
	eventType string,
	reference string,
	payload json.RawMessage,
	signatureValid bool,
) (int64, bool, error) {

	// A redelivery hits the conflict arm, which clears any previous
	// process_error so the retry starts clean. The row always comes
	// back; processed_at tells the caller whether it was applied.
	const q = `
	INSERT INTO payment_webhooks (provider, event_type, event_id, reference, signature_valid, payload)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (provider, event_id)
	DO UPDATE SET process_error = NULL
	RETURNING id, processed_at IS NOT NULL;`

	var id int64
	var alreadyProcessed bool
	err := r.db.QueryRowContext(ctx, q,
		provider, eventType, eventID, reference, signatureValid, payload,
	).Scan(&id, &alreadyProcessed)
	if err != nil {
		return 0, false, err
	}

	return id, alreadyProcessed, nil
}

func (r *repository) MarkWebhookProcessed(ctx context.Context, webhookID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE payment_webhooks SET processed_at = NOW() WHERE id = $1`, webhookID)
	return err
}

func (r *repository) MarkWebhookFailed(ctx context.Context, webhookID int64, reason string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE payment_webhooks SET process_error = $2 WHERE id = $1`, webhookID, reason)
	return err
}
