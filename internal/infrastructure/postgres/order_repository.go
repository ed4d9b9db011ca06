package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/commerce-invoicing/internal/domain"
	"github.com/jhoicas/commerce-invoicing/internal/domain/entity"
	"github.com/jhoicas/commerce-invoicing/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo lectura del grafo de la orden.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// GetByID obtiene la orden con direcciones, ítems, métodos de envío y pagos.
// Las relaciones se leen en un único batch.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	// ── 1. Cabecera + direcciones ─────────────────────────────────────────────
	query := `
		SELECT o.id, o.display_id, COALESCE(o.email, ''), o.currency_code, COALESCE(o.customer_id, ''),
		       o.subtotal, o.discount_total, o.shipping_total, o.tax_total, o.total, o.original_item_total,
		       o.created_at,
		       ba.id, ba.first_name, ba.last_name, ba.address_1, ba.address_2, ba.city, ba.province,
		       ba.postal_code, ba.country_code, ba.phone,
		       sa.id, sa.first_name, sa.last_name, sa.address_1, sa.address_2, sa.city, sa.province,
		       sa.postal_code, sa.country_code, sa.phone
		FROM orders o
		LEFT JOIN order_addresses ba ON ba.id = o.billing_address_id
		LEFT JOIN order_addresses sa ON sa.id = o.shipping_address_id
		WHERE o.id = $1`
	var o entity.Order
	var billing, shipping addressCols
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.DisplayID, &o.Email, &o.CurrencyCode, &o.CustomerID,
		&o.Subtotal, &o.DiscountTotal, &o.ShippingTotal, &o.TaxTotal, &o.Total, &o.OriginalItemTotal,
		&o.CreatedAt,
		&billing.id, &billing.firstName, &billing.lastName, &billing.address1, &billing.address2, &billing.city,
		&billing.province, &billing.postalCode, &billing.countryCode, &billing.phone,
		&shipping.id, &shipping.firstName, &shipping.lastName, &shipping.address1, &shipping.address2, &shipping.city,
		&shipping.province, &shipping.postalCode, &shipping.countryCode, &shipping.phone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	o.BillingAddress = billing.toAddress()
	o.ShippingAddress = shipping.toAddress()

	// ── 2. Relaciones ─────────────────────────────────────────────────────────
	batch := &pgx.Batch{}
	batch.Queue(`
		SELECT id, order_id, COALESCE(product_title, ''), COALESCE(variant_title, ''), COALESCE(variant_sku, ''),
		       quantity, unit_price, original_total, is_giftcard
		FROM order_line_items WHERE order_id = $1
		ORDER BY created_at, id`, id)
	batch.Queue(`
		SELECT id, name, amount FROM order_shipping_methods WHERE order_id = $1
		ORDER BY created_at, id`, id)
	batch.Queue(`
		SELECT pc.id, COALESCE(pc.status, ''),
		       p.id, p.provider_id, p.amount, p.currency_code, p.created_at
		FROM payment_collections pc
		LEFT JOIN payments p ON p.payment_collection_id = pc.id
		WHERE pc.order_id = $1
		ORDER BY pc.created_at, pc.id, p.created_at NULLS LAST, p.id`, id)

	results := r.q.SendBatch(ctx, batch)
	defer results.Close()

	if o.Items, err = scanLineItems(results); err != nil {
		return nil, err
	}
	if o.ShippingMethods, err = scanShippingMethods(results); err != nil {
		return nil, err
	}
	if o.PaymentCollections, err = scanPaymentCollections(results); err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdateCustomer reasigna la orden a otro cliente.
func (r *OrderRepo) UpdateCustomer(ctx context.Context, orderID, customerID string) (*entity.Order, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE orders SET customer_id = $2, updated_at = now() WHERE id = $1`,
		orderID, customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("update order customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, orderID)
}

// ── scanners ──────────────────────────────────────────────────────────────────

type addressCols struct {
	id, firstName, lastName, address1, address2, city, province, postalCode, countryCode, phone *string
}

func (a addressCols) toAddress() *entity.Address {
	if a.id == nil {
		return nil
	}
	return &entity.Address{
		FirstName:   derefStr(a.firstName),
		LastName:    derefStr(a.lastName),
		Address1:    derefStr(a.address1),
		Address2:    derefStr(a.address2),
		City:        derefStr(a.city),
		Province:    derefStr(a.province),
		PostalCode:  derefStr(a.postalCode),
		CountryCode: derefStr(a.countryCode),
		Phone:       derefStr(a.phone),
	}
}

func scanLineItems(results pgx.BatchResults) ([]entity.LineItem, error) {
	rows, err := results.Query()
	if err != nil {
		return nil, fmt.Errorf("list line items: %w", err)
	}
	defer rows.Close()

	var out []entity.LineItem
	for rows.Next() {
		var it entity.LineItem
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.ProductTitle, &it.VariantTitle, &it.VariantSKU,
			&it.Quantity, &it.UnitPrice, &it.OriginalTotal, &it.IsGiftCard,
		); err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func scanShippingMethods(results pgx.BatchResults) ([]entity.ShippingMethod, error) {
	rows, err := results.Query()
	if err != nil {
		return nil, fmt.Errorf("list shipping methods: %w", err)
	}
	defer rows.Close()

	var out []entity.ShippingMethod
	for rows.Next() {
		var sm entity.ShippingMethod
		if err := rows.Scan(&sm.ID, &sm.Name, &sm.Amount); err != nil {
			return nil, fmt.Errorf("scan shipping method: %w", err)
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

// scanPaymentCollections agrupa las filas colección × pago conservando el orden.
func scanPaymentCollections(results pgx.BatchResults) ([]entity.PaymentCollection, error) {
	rows, err := results.Query()
	if err != nil {
		return nil, fmt.Errorf("list payment collections: %w", err)
	}
	defer rows.Close()

	var out []entity.PaymentCollection
	for rows.Next() {
		var (
			collectionID, status            string
			paymentID, providerID, currency *string
			amount                          decimal.NullDecimal
			createdAt                       *time.Time
		)
		if err := rows.Scan(&collectionID, &status, &paymentID, &providerID, &amount, &currency, &createdAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		if len(out) == 0 || out[len(out)-1].ID != collectionID {
			out = append(out, entity.PaymentCollection{ID: collectionID, Status: status})
		}
		if paymentID == nil {
			continue
		}
		pc := &out[len(out)-1]
		pc.Payments = append(pc.Payments, entity.Payment{
			ID:           *paymentID,
			ProviderID:   derefStr(providerID),
			Amount:       amount.Decimal,
			CurrencyCode: derefStr(currency),
			CreatedAt:    createdAt,
		})
	}
	return out, rows.Err()
}
