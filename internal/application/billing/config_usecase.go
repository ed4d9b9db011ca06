package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/commerce-invoicing/internal/application/dto"
	"github.com/jhoicas/commerce-invoicing/internal/domain"
	"github.com/jhoicas/commerce-invoicing/internal/domain/entity"
	"github.com/jhoicas/commerce-invoicing/internal/domain/repository"
)

// ConfigUseCase lectura y actualización de la configuración de facturas.
type ConfigUseCase struct {
	repo repository.InvoiceConfigRepository
	now  func() time.Time
}

// NewConfigUseCase construye el caso de uso.
func NewConfigUseCase(repo repository.InvoiceConfigRepository) *ConfigUseCase {
	return &ConfigUseCase{repo: repo, now: time.Now}
}

// Get devuelve la configuración actual o domain.ErrNotFound si aún no existe.
func (uc *ConfigUseCase) Get(ctx context.Context) (*dto.InvoiceConfigResponse, error) {
	cfg, err := uc.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("invoice-config: obtener: %w", err)
	}
	if cfg == nil {
		return nil, domain.ErrNotFound
	}
	return toInvoiceConfigResponse(cfg), nil
}

// Update aplica los campos presentes en la petición. Las facturas ya calculadas
// no cambian: conservan la descripción guardada.
func (uc *ConfigUseCase) Update(ctx context.Context, in dto.UpdateInvoiceConfigRequest) (*dto.InvoiceConfigResponse, error) {
	cfg, err := uc.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("invoice-config: obtener: %w", err)
	}
	if cfg == nil {
		return nil, domain.ErrNotFound
	}

	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&cfg.CompanyName, in.CompanyName)
	set(&cfg.CompanyAddress, in.CompanyAddress)
	set(&cfg.CompanyPhone, in.CompanyPhone)
	set(&cfg.CompanyEmail, in.CompanyEmail)
	set(&cfg.CompanyLogo, in.CompanyLogo)
	set(&cfg.CompanyKVK, in.CompanyKVK)
	set(&cfg.CompanyVAT, in.CompanyVAT)
	set(&cfg.Notes, in.Notes)
	cfg.UpdatedAt = uc.now()

	if err := uc.repo.Update(ctx, cfg); err != nil {
		return nil, fmt.Errorf("invoice-config: actualizar: %w", err)
	}
	return toInvoiceConfigResponse(cfg), nil
}

// EnsureDefaultConfig crea la fila de configuración con los valores por defecto si
// no existe ninguna. Devuelve true si la creó.
func (uc *ConfigUseCase) EnsureDefaultConfig(ctx context.Context, defaults entity.InvoiceConfig) (bool, error) {
	n, err := uc.repo.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("invoice-config: contar: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	now := uc.now()
	cfg := defaults
	cfg.ID = uuid.New().String()
	cfg.CreatedAt = now
	cfg.UpdatedAt = now
	if err := uc.repo.Create(ctx, &cfg); err != nil {
		return false, fmt.Errorf("invoice-config: crear: %w", err)
	}
	return true, nil
}

func toInvoiceConfigResponse(c *entity.InvoiceConfig) *dto.InvoiceConfigResponse {
	return &dto.InvoiceConfigResponse{
		ID:             c.ID,
		CompanyName:    c.CompanyName,
		CompanyAddress: c.CompanyAddress,
		CompanyPhone:   c.CompanyPhone,
		CompanyEmail:   c.CompanyEmail,
		CompanyLogo:    c.CompanyLogo,
		CompanyKVK:     c.CompanyKVK,
		CompanyVAT:     c.CompanyVAT,
		Notes:          c.Notes,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
