package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "autotrust/internal/config"
	api "autotrust/internal/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func runServe(ctx context.Context, env intconfig.Env) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}
	if err := env.ValidateIntake(); err != nil {
		return err
	}

	if env.DatabaseEnabled() {
		if _, err := intconfig.ConnectDB(env); err != nil {
			return err
		}
		defer intconfig.CloseDB()
	} else {
		logrus.Warn("DB_HOST not set: bookings are kept in memory only and admin routes are disabled")
	}

	hs, err := buildHandlers(ctx, env, intconfig.DB)
	if err != nil {
		return err
	}
	r := api.NewRouter(hs, api.RouterOptions{
		CORSOrigins:  env.CORSAllowedOrigins,
		AdminEnabled: env.DatabaseEnabled(),
	})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("server listening on %s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	case <-ctx.Done():
	}

	logrus.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logrus.Info("server stopped")
	return nil
}
