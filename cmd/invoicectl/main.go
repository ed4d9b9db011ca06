package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jhoicas/commerce-invoicing/internal/bootstrap"
	"github.com/jhoicas/commerce-invoicing/pkg/config"
	"github.com/jhoicas/commerce-invoicing/pkg/jwt"
	"github.com/jhoicas/commerce-invoicing/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "invoicectl",
		Short:         "Herramientas de administración de facturas",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRenderCmd(), newStaleCmd(), newTokenCmd(), newMigrateCmd())
	return root
}

// container carga configuración y dependencias; los logs van a stderr.
func container(cmd *cobra.Command) (*bootstrap.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.NewWithWriter(logger.Config{Env: "development", Level: cfg.App.LogLevel}, cmd.ErrOrStderr())
	return bootstrap.New(cmd.Context(), cfg, log)
}

func newRenderCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "render <order_id>",
		Short: "Genera el PDF de la factura activa de una orden",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := container(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			generated, err := c.Invoices.GenerateForOrder(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = generated.Filename
			}
			if err := os.WriteFile(output, generated.Content, 0o644); err != nil {
				return fmt.Errorf("escribir %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "factura #%d escrita en %s (%d bytes)\n",
				generated.Invoice.DisplayID, output, len(generated.Content))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "archivo de salida (por defecto invoice-<display_id>.pdf)")
	return cmd
}

func newStaleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stale <order_id>",
		Short: "Marca como STALE las facturas de una orden",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := container(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			invoices, err := c.Invoices.MarkInvoicesStale(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, inv := range invoices {
				fmt.Fprintf(cmd.OutOrStdout(), "%s #%d %s\n", inv.ID, inv.DisplayID, inv.Status)
			}
			return nil
		},
	}
}

func newTokenCmd() *cobra.Command {
	var minutes int
	cmd := &cobra.Command{
		Use:   "token <user_id>",
		Short: "Emite un token de administración",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if minutes <= 0 {
				minutes = cfg.JWT.Expiration
			}
			tok, err := jwt.Generate(cfg.JWT.Secret, args[0], jwt.ActorAdmin, cfg.JWT.Issuer, minutes)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().IntVar(&minutes, "minutes", 0, "vigencia en minutos (por defecto JWT_EXPIRATION_MINUTES)")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes y siembra la configuración",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := container(cmd)
			if err != nil {
				return err
			}
			defer c.Close()
			if err := c.Migrate(cmd.Context()); err != nil {
				return err
			}
			return c.SeedInvoiceConfig(cmd.Context())
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Lista las migraciones y si están aplicadas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := container(cmd)
			if err != nil {
				return err
			}
			defer c.Close()
			statuses, err := c.Migrator.Status(cmd.Context())
			if err != nil {
				return err
			}
			for _, s := range statuses {
				mark := " "
				if s.Applied {
					mark = "x"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s_%s\n", mark, s.Version, s.Name)
			}
			return nil
		},
	})
	return cmd
}
