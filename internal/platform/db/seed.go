package db

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"perfeval/internal/domain/auth"
	"perfeval/internal/platform/config"
)

type seedAspect struct {
	Text   string
	Weight float64
}

// DefaultAspects is the initial evaluation questionnaire. Weights sum to the
// aspect count so full marks on every aspect yield 100%.
var DefaultAspects = []seedAspect{
	{Text: "Puntualidad", Weight: 1.20},
	{Text: "Calidad del trabajo", Weight: 1.20},
	{Text: "Productividad", Weight: 1.10},
	{Text: "Trabajo en equipo", Weight: 1.00},
	{Text: "Iniciativa", Weight: 0.90},
	{Text: "Comunicación", Weight: 1.00},
	{Text: "Cumplimiento de normas", Weight: 1.00},
	{Text: "Actitud de servicio", Weight: 0.80},
	{Text: "Orden y limpieza", Weight: 0.80},
}

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	roleIDs, err := ensureRoles(ctx, pool)
	if err != nil {
		return err
	}

	if err := ensureAspects(ctx, pool); err != nil {
		return err
	}

	return ensureAdminUser(ctx, pool, roleIDs[auth.RoleAdmin], cfg.SeedAdminName, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
}

func ensureRoles(ctx context.Context, pool *pgxpool.Pool) (map[string]int64, error) {
	roleIDs := map[string]int64{}
	for roleName := range auth.RolePermissions {
		var id int64
		err := pool.QueryRow(ctx, `
      INSERT INTO roles (name, description) VALUES ($1, $2)
      ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description
      RETURNING id
    `, roleName, auth.RoleDescriptions[roleName]).Scan(&id)
		if err != nil {
			return nil, err
		}
		roleIDs[roleName] = id
	}
	return roleIDs, nil
}

// ensureAspects only seeds an empty catalog; an edited catalog is left alone.
func ensureAspects(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM aspects").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i, aspect := range DefaultAspects {
		batch.Queue("INSERT INTO aspects (text, weight, position) VALUES ($1, $2, $3) ON CONFLICT (text) DO NOTHING", aspect.Text, aspect.Weight, i+1)
	}
	if err := pool.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}
	slog.Info("aspect catalog seeded", "aspects", len(DefaultAspects))
	return nil
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, roleID int64, name, email, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	var id int64
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE lower(email) = lower($1)", email).Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, "INSERT INTO users (name, email, password_hash, role_id) VALUES ($1, $2, $3, $4)", name, email, hash, roleID)
	return err
}
