package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/commerce-invoicing/internal/domain"
	"github.com/jhoicas/commerce-invoicing/internal/domain/entity"
	"github.com/jhoicas/commerce-invoicing/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, display_id, order_id, status, pdf_content, created_at, updated_at`

// Create persiste la factura. Una segunda factura ACTIVE para la misma orden
// devuelve domain.ErrConflict.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (id, display_id, order_id, status, pdf_content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.DisplayID, invoice.OrderID, invoice.Status,
		nullJSON(invoice.PDFContent), invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: factura activa ya existe para la orden %s", domain.ErrConflict, invoice.OrderID)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetActiveByOrderID obtiene la factura ACTIVE de la orden.
func (r *InvoiceRepo) GetActiveByOrderID(ctx context.Context, orderID string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE order_id = $1 AND status = $2`
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, orderID, entity.InvoiceStatusActive))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active invoice: %w", err)
	}
	return inv, nil
}

// NextDisplayID toma el siguiente valor de la secuencia de facturas.
func (r *InvoiceRepo) NextDisplayID(ctx context.Context) (int64, error) {
	var next int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('invoice_display_id_seq')`).Scan(&next); err != nil {
		return 0, fmt.Errorf("next invoice display_id: %w", err)
	}
	return next, nil
}

// UpdatePDFContent guarda la descripción del documento calculada.
func (r *InvoiceRepo) UpdatePDFContent(ctx context.Context, id string, content json.RawMessage) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE invoices SET pdf_content = $2, updated_at = now() WHERE id = $1`,
		id, nullJSON(content),
	)
	if err != nil {
		return fmt.Errorf("update invoice pdf_content: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatusByOrderID cambia el estado de todas las facturas de la orden.
func (r *InvoiceRepo) UpdateStatusByOrderID(ctx context.Context, orderID, status string) ([]*entity.Invoice, error) {
	query := `
		UPDATE invoices SET status = $2, updated_at = now()
		WHERE order_id = $1
		RETURNING ` + invoiceColumns
	rows, err := r.q.Query(ctx, query, orderID, status)
	if err != nil {
		return nil, fmt.Errorf("update invoice status: %w", err)
	}
	defer rows.Close()

	var out []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var content []byte
	if err := row.Scan(
		&inv.ID, &inv.DisplayID, &inv.OrderID, &inv.Status, &content,
		&inv.CreatedAt, &inv.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(content) > 0 {
		inv.PDFContent = json.RawMessage(content)
	}
	return &inv, nil
}

// nullJSON guarda NULL en lugar de un documento vacío.
func nullJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
