package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/commerce-invoicing/internal/domain/entity"
	"github.com/jhoicas/commerce-invoicing/internal/domain/repository"
)

var _ repository.GiftCardRepository = (*GiftCardRepo)(nil)

// GiftCardRepo consultas de tarjetas regalo.
type GiftCardRepo struct {
	q Querier
}

// NewGiftCardRepository construye el adaptador. Pasar pool o tx (Querier).
func NewGiftCardRepository(q Querier) *GiftCardRepo {
	return &GiftCardRepo{q: q}
}

const giftCardSelect = `
	SELECT id, status, code, currency_code, expires_at, reference_id, reference,
	       COALESCE(line_item_id, ''), COALESCE(note, ''), value, created_at, updated_at
	FROM gift_cards`

// ListByReferenceID tarjetas emitidas por la orden, en orden de creación.
func (r *GiftCardRepo) ListByReferenceID(ctx context.Context, orderID string) ([]entity.GiftCard, error) {
	return r.list(ctx, giftCardSelect+` WHERE reference_id = $1 ORDER BY created_at, id`, orderID)
}

// ListByLineItemID tarjetas emitidas por un ítem, en orden de creación.
func (r *GiftCardRepo) ListByLineItemID(ctx context.Context, lineItemID string) ([]entity.GiftCard, error) {
	return r.list(ctx, giftCardSelect+` WHERE line_item_id = $1 ORDER BY created_at, id`, lineItemID)
}

func (r *GiftCardRepo) list(ctx context.Context, query string, arg string) ([]entity.GiftCard, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list gift cards: %w", err)
	}
	defer rows.Close()

	var out []entity.GiftCard
	for rows.Next() {
		var gc entity.GiftCard
		if err := rows.Scan(
			&gc.ID, &gc.Status, &gc.Code, &gc.CurrencyCode, &gc.ExpiresAt, &gc.ReferenceID, &gc.Reference,
			&gc.LineItemID, &gc.Note, &gc.Value, &gc.CreatedAt, &gc.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan gift card: %w", err)
		}
		out = append(out, gc)
	}
	return out, rows.Err()
}
