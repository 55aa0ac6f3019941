package cli

import (
	"context"
	"database/sql"
	"fmt"

	"autotrust/internal/catalog"
	intconfig "autotrust/internal/config"
	"autotrust/internal/http/handlers"
	"autotrust/internal/notify"
	"autotrust/internal/repositories"
	"autotrust/internal/services"
	"autotrust/internal/sheets"
)

// buildHandlers resolves every collaborator the API needs. db may be nil.
func buildHandlers(ctx context.Context, env intconfig.Env, db *sql.DB) (*handlers.Handlers, error) {
	sa, err := intconfig.ResolveServiceAccount(env.ServiceAccount)
	if err != nil {
		return nil, err
	}
	appender, err := sheets.NewAppender(ctx, sa, env.SpreadsheetID, env.SheetTab)
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: %w", err)
	}
	mailer, err := notify.NewSMTPMailer(notify.SMTPConfig{
		Host:     env.SMTPHost,
		Port:     env.SMTPPort,
		Username: env.EmailUser,
		Password: env.EmailPass,
		From:     env.EmailFrom,
	})
	if err != nil {
		return nil, fmt.Errorf("mailer: %w", err)
	}

	cat := catalog.Default()
	cache := repositories.NewMemoryStore()
	hs := &handlers.Handlers{
		Intake: &services.IntakeService{
			Cache:          cache,
			Sheet:          appender,
			Mailer:         mailer,
			Catalog:        cat,
			Ledger:         services.NewLedger(0),
			AdminEmail:     env.AdminEmail,
			PaymentLink:    env.PaymentLinkURL,
			SpreadsheetURL: appender.URL(),
		},
		Catalog: cat,
		Cache:   cache,
		Auth: services.AuthService{
			Secret:       []byte(env.AdminJWTSecret),
			Email:        env.AdminLoginEmail,
			PasswordHash: env.AdminPasswordHash,
			TTL:          env.AdminTokenTTL,
		},
		DB: db,
	}
	if db != nil {
		repo := &repositories.BookingRepository{DB: db, Timeout: env.DBAcquireTimeout}
		hs.Intake.Store = repo
		hs.Bookings = repo
		hs.Dashboard = repositories.DashboardRepository{DB: db, Timeout: env.DBAcquireTimeout}
	}
	return hs, nil
}
