package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"eventadmin/config"
	"eventadmin/internal/adapters/auth"
	"eventadmin/internal/adapters/email"
	"eventadmin/internal/domain"
	"eventadmin/internal/repository/postgres"
	"eventadmin/internal/services"
)

// openDB connects to Postgres and makes sure the auth tables exist.
func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// newAuthService wires the user repositories, hasher, JWT issuer and mail stack.
func newAuthService(cfg *config.Config, logger *slog.Logger, db *sql.DB, jwt *auth.JWT) (domain.AuthService, error) {
	mailer, err := email.NewMailer(cfg.Mail)
	if err != nil {
		return nil, fmt.Errorf("creating mailer: %w", err)
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("loading email templates: %w", err)
	}
	return services.NewAuthService(
		postgres.NewUserRepository(db),
		postgres.NewPasswordResetRepository(db),
		auth.NewBcryptHasher(auth.DefaultBcryptCost),
		jwt,
		cfg.JWTExpiry,
		services.NewEmailService(mailer, renderer),
		logger,
	), nil
}
