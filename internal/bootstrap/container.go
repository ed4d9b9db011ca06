// Package bootstrap arma el grafo de dependencias compartido por el API, el
// worker y la CLI.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/commerce-invoicing/internal/application/billing"
	"github.com/jhoicas/commerce-invoicing/internal/domain/entity"
	"github.com/jhoicas/commerce-invoicing/internal/infrastructure/logo"
	"github.com/jhoicas/commerce-invoicing/internal/infrastructure/notification"
	infrapdf "github.com/jhoicas/commerce-invoicing/internal/infrastructure/pdf"
	"github.com/jhoicas/commerce-invoicing/internal/infrastructure/postgres"
	"github.com/jhoicas/commerce-invoicing/pkg/config"
	"github.com/jhoicas/commerce-invoicing/pkg/logger"
)

// Container casos de uso listos para usar.
type Container struct {
	Pool     *pgxpool.Pool
	Migrator *postgres.Migrator

	Config    *billing.ConfigUseCase
	PDF       *billing.PDFUseCase
	Invoices  *billing.InvoiceWorkflow
	Orders    *billing.OrderUseCase
	Confirm   *billing.ConfirmationUseCase
	Events    *billing.OrderEvents
	Formatter *billing.Formatter

	cfg *config.Config
	log *logger.Logger
}

// New conecta con PostgreSQL y construye los casos de uso.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	migrator, err := postgres.NewMigrator(pool)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("cargar migraciones: %w", err)
	}

	invoiceRepo := postgres.NewInvoiceRepository(pool)
	configRepo := postgres.NewInvoiceConfigRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	giftCardRepo := postgres.NewGiftCardRepository(pool)

	formatter := billing.NewFormatter(cfg.Invoice.Location())
	logos := logo.NewHTTPFetcher(&http.Client{}, cfg.Invoice.LogoTimeout, cfg.Invoice.LogoMaxDimension)
	pdfUC := billing.NewPDFUseCase(
		invoiceRepo, configRepo,
		billing.NewDocumentBuilder(formatter),
		infrapdf.NewMarotoRenderer(),
		logos,
		log.WithComponent("invoice_pdf"),
	)
	workflow := billing.NewInvoiceWorkflow(orderRepo, giftCardRepo, invoiceRepo, pdfUC, log.WithComponent("invoice_workflow"))

	dispatcher, err := notification.NewDispatcher(notification.NewSMTPDialer(cfg.SMTP), cfg.SMTP.From, log.WithComponent("notification"))
	if err != nil {
		pool.Close()
		return nil, err
	}
	confirm := billing.NewConfirmationUseCase(dispatcher, formatter, cfg.SMTP.StoreCopyTo, cfg.Storefront.URL, log.WithComponent("confirmation"))

	return &Container{
		Pool:      pool,
		Migrator:  migrator,
		Config:    billing.NewConfigUseCase(configRepo),
		PDF:       pdfUC,
		Invoices:  workflow,
		Orders:    billing.NewOrderUseCase(orderRepo, giftCardRepo),
		Confirm:   confirm,
		Events:    billing.NewOrderEvents(workflow, confirm, log.WithComponent("order_events")),
		Formatter: formatter,
		cfg:       cfg,
		log:       log,
	}, nil
}

// Migrate aplica las migraciones pendientes.
func (c *Container) Migrate(ctx context.Context) error {
	n, err := c.Migrator.Up(ctx)
	if err != nil {
		return err
	}
	c.log.Info().Int("applied", n).Msg("migraciones aplicadas")
	return nil
}

// SeedInvoiceConfig crea la configuración de facturas por defecto si aún no existe.
func (c *Container) SeedInvoiceConfig(ctx context.Context) error {
	created, err := c.Config.EnsureDefaultConfig(ctx, entity.InvoiceConfig{
		CompanyName:    c.cfg.Invoice.DefaultCompanyName,
		CompanyAddress: c.cfg.Invoice.DefaultCompanyAddress,
		CompanyPhone:   c.cfg.Invoice.DefaultCompanyPhone,
		CompanyEmail:   c.cfg.Invoice.DefaultCompanyEmail,
	})
	if err != nil {
		return fmt.Errorf("sembrar configuración de facturas: %w", err)
	}
	if created {
		c.log.Info().Msg("configuración de facturas por defecto creada")
	}
	return nil
}

// Close libera la conexión a la base de datos.
func (c *Container) Close() {
	c.Pool.Close()
}
