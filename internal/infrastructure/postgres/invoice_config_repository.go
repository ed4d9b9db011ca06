package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/commerce-invoicing/internal/domain"
	"github.com/jhoicas/commerce-invoicing/internal/domain/entity"
	"github.com/jhoicas/commerce-invoicing/internal/domain/repository"
)

var _ repository.InvoiceConfigRepository = (*InvoiceConfigRepo)(nil)

// InvoiceConfigRepo implementación de InvoiceConfigRepository.
type InvoiceConfigRepo struct {
	q Querier
}

// NewInvoiceConfigRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceConfigRepository(q Querier) *InvoiceConfigRepo {
	return &InvoiceConfigRepo{q: q}
}

// Get obtiene la configuración (la fila más antigua si hubiera varias).
func (r *InvoiceConfigRepo) Get(ctx context.Context) (*entity.InvoiceConfig, error) {
	query := `
		SELECT id, company_name, company_address, company_phone, company_email,
		       company_logo, company_kvk, company_vat, notes, created_at, updated_at
		FROM invoice_config
		ORDER BY created_at ASC
		LIMIT 1`
	var c entity.InvoiceConfig
	var logo, kvk, vat, notes *string
	err := r.q.QueryRow(ctx, query).Scan(
		&c.ID, &c.CompanyName, &c.CompanyAddress, &c.CompanyPhone, &c.CompanyEmail,
		&logo, &kvk, &vat, &notes, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice config: %w", err)
	}
	c.CompanyLogo = derefStr(logo)
	c.CompanyKVK = derefStr(kvk)
	c.CompanyVAT = derefStr(vat)
	c.Notes = derefStr(notes)
	return &c, nil
}

// Count número de filas de configuración.
func (r *InvoiceConfigRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoice_config`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count invoice config: %w", err)
	}
	return n, nil
}

// Create persiste la configuración.
func (r *InvoiceConfigRepo) Create(ctx context.Context, cfg *entity.InvoiceConfig) error {
	query := `
		INSERT INTO invoice_config (id, company_name, company_address, company_phone, company_email,
		                            company_logo, company_kvk, company_vat, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		cfg.ID, cfg.CompanyName, cfg.CompanyAddress, cfg.CompanyPhone, cfg.CompanyEmail,
		nullIfEmpty(cfg.CompanyLogo), nullIfEmpty(cfg.CompanyKVK), nullIfEmpty(cfg.CompanyVAT), nullIfEmpty(cfg.Notes),
		cfg.CreatedAt, cfg.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert invoice config: %w", err)
	}
	return nil
}

// Update actualiza todos los campos de la configuración.
func (r *InvoiceConfigRepo) Update(ctx context.Context, cfg *entity.InvoiceConfig) error {
	query := `
		UPDATE invoice_config
		SET company_name    = $2,
		    company_address = $3,
		    company_phone   = $4,
		    company_email   = $5,
		    company_logo    = $6,
		    company_kvk     = $7,
		    company_vat     = $8,
		    notes           = $9,
		    updated_at      = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		cfg.ID, cfg.CompanyName, cfg.CompanyAddress, cfg.CompanyPhone, cfg.CompanyEmail,
		nullIfEmpty(cfg.CompanyLogo), nullIfEmpty(cfg.CompanyKVK), nullIfEmpty(cfg.CompanyVAT), nullIfEmpty(cfg.Notes),
		cfg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
