package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/commerce-invoicing/pkg/config"
)

// Límites del pool cuando DBConfig no los define.
const (
	defaultMaxConns        = 10
	defaultMinConns        = 1
	defaultMaxConnLifetime = time.Hour
	defaultMaxConnIdleTime = 30 * time.Minute
	healthCheckPeriod      = time.Minute
)

var errNoIPv4 = errors.New("sin dirección IPv4")

// fallbackResolver consulta un DNS público cuando el del contenedor solo devuelve AAAA.
var fallbackResolver = &net.Resolver{
	PreferGo: true,
	Dial: func(ctx context.Context, _, _ string) (net.Conn, error) {
		var d net.Dialer
		return d.DialContext(ctx, "udp", "8.8.8.8:53")
	},
}

// NewPool abre el pool de PostgreSQL de facturas, pedidos y tarjetas regalo.
// Las conexiones salen siempre por IPv4 y traen registrado el codec NUMERIC ↔ decimal.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsnFor(ctx, cfg))
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	poolConfig.ConnConfig.DialFunc = dialIPv4
	applyPoolLimits(poolConfig, cfg)
	poolConfig.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// dsnFor devuelve DATABASE_URL o el DSN armado desde DB_HOST y compañía, con el
// host sustituido por su IPv4 cuando se puede resolver.
func dsnFor(ctx context.Context, cfg config.DBConfig) string {
	if cfg.DatabaseURL != "" {
		return withIPv4Host(ctx, cfg.DatabaseURL)
	}
	if ip, err := resolveIPv4(ctx, cfg.Host); err == nil {
		cfg.Host = ip
	}
	return cfg.DSN()
}

// withIPv4Host reemplaza el hostname de databaseURL por su IPv4. Si la URL no se
// puede parsear o el host no resuelve, la devuelve intacta.
func withIPv4Host(ctx context.Context, databaseURL string) string {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return databaseURL
	}
	ip, err := resolveIPv4(ctx, u.Hostname())
	if err != nil {
		return databaseURL
	}
	port := u.Port()
	if port == "" {
		port = "5432"
	}
	u.Host = net.JoinHostPort(ip, port)
	return u.String()
}

// dialIPv4 fuerza tcp4; si el host no tiene IPv4 se conecta a la dirección tal cual.
func dialIPv4(ctx context.Context, network, addr string) (net.Conn, error) {
	var d net.Dialer
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	ip, err := resolveIPv4(ctx, host)
	if err != nil {
		return d.DialContext(ctx, network, addr)
	}
	return d.DialContext(ctx, "tcp4", net.JoinHostPort(ip, port))
}

// resolveIPv4 prueba el resolver del sistema y después fallbackResolver.
// Un literal IPv4 se devuelve sin consultar DNS; uno IPv6 es un error.
func resolveIPv4(ctx context.Context, host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() == nil {
			return "", fmt.Errorf("resolver %s: %w", host, errNoIPv4)
		}
		return host, nil
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("resolver %s: %w", host, err)
	}

	var lastErr error
	for _, r := range []*net.Resolver{net.DefaultResolver, fallbackResolver} {
		ips, err := r.LookupIP(ctx, "ip4", host)
		if err != nil {
			lastErr = err
			continue
		}
		for _, ip := range ips {
			if ip.To4() != nil {
				return ip.String(), nil
			}
		}
		lastErr = errNoIPv4
	}
	return "", fmt.Errorf("resolver %s: %w", host, lastErr)
}

// applyPoolLimits copia los límites de cfg al pool; los valores no positivos
// toman el valor por defecto.
func applyPoolLimits(pc *pgxpool.Config, cfg config.DBConfig) {
	pc.MaxConns = int32(orDefault(cfg.MaxConns, defaultMaxConns))
	pc.MinConns = int32(orDefault(cfg.MinConns, defaultMinConns))
	if pc.MinConns > pc.MaxConns {
		pc.MinConns = pc.MaxConns
	}
	pc.MaxConnLifetime = orDefault(cfg.MaxConnLifetime, defaultMaxConnLifetime)
	pc.MaxConnIdleTime = orDefault(cfg.MaxConnIdleTime, defaultMaxConnIdleTime)
	pc.HealthCheckPeriod = healthCheckPeriod
}

func orDefault[T int | time.Duration](v, def T) T {
	if v <= 0 {
		return def
	}
	return v
}
