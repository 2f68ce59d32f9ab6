package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/willemschots/accounts/assets"
	"github.com/willemschots/accounts/internal"
	"github.com/willemschots/accounts/internal/auth"
	authdb "github.com/willemschots/accounts/internal/auth/db"
	"github.com/willemschots/accounts/internal/db"
	"github.com/willemschots/accounts/internal/email"
	"github.com/willemschots/accounts/internal/email/mailgun"
	"github.com/willemschots/accounts/internal/email/postmark"
	"github.com/willemschots/accounts/internal/email/smtp"
	"github.com/willemschots/accounts/internal/email/view"
	"github.com/willemschots/accounts/internal/i18n"
	"github.com/willemschots/accounts/internal/krypto"
	"github.com/willemschots/accounts/internal/web"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Stderr))
}

func run(ctx context.Context, w io.Writer) int {
	logger := slog.New(slog.NewTextHandler(w, nil))

	// ENV_FILE points to an optional dotenv file. Variables that are
	// already set in the environment take precedence.
	if envFile, ok := os.LookupEnv("ENV_FILE"); ok {
		err := godotenv.Load(envFile)
		if err != nil {
			logger.Error("failed to load env file", "file", envFile, "error", err)
			return 1
		}
	}

	cfg, err := configFromEnv()
	if err != nil {
		logger.Error("failed to get config from environment", "error", err)
		return 1
	}

	sqlDB, err := db.Open(cfg.db.dialect, cfg.db.dsn)
	if err != nil {
		logger.Error("failed to open database", "error", err, "driver", cfg.db.dialect)
		return 1
	}

	defer func() {
		err := sqlDB.Close()
		if err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	if cfg.db.migrate {
		logger.Info("attempting to migrate database", "driver", cfg.db.dialect)

		migrations, err := db.Migrate(ctx, sqlDB, cfg.db.dialect, assets.MigrationFS)
		if err != nil {
			logger.Error("failed to migrate database", "error", err)
			return 1
		}

		for _, m := range migrations {
			logger.Info("migration ran", "version", m.Version, "source", m.Source)
		}
	}

	encryptor, err := krypto.NewEncryptor(cfg.db.encryptionKeys)
	if err != nil {
		logger.Error("failed to create encryptor", "error", err)
		return 1
	}

	store := authdb.New(sqlDB, cfg.db.dialect, encryptor, cfg.db.blindIndexSalt)

	sender, err := newEmailSender(cfg.email, logger)
	if err != nil {
		logger.Error("failed to create email sender", "error", err)
		return 1
	}

	templates, err := view.Load(assets.EmailFS)
	if err != nil {
		logger.Error("failed to load email templates", "error", err)
		return 1
	}

	emailSvc := email.NewService(templates, sender, cfg.email.service)
	authSvc := auth.NewService(store, auth.NewMailer(emailSvc, cfg.email.mailer))

	locales, err := i18n.Load(assets.LocaleFS, "en", "th")
	if err != nil {
		logger.Error("failed to load locales", "error", err)
		return 1
	}

	srv := &http.Server{
		Addr:         cfg.http.addr,
		ReadTimeout:  cfg.http.readTimeout,
		WriteTimeout: cfg.http.writeTimeout,
		IdleTimeout:  cfg.http.idleTimeout,
		Handler: web.NewServer(&web.ServerDeps{
			Logger:      logger,
			AuthService: authSvc,
			Locales:     locales,
			Health:      store,
		}),
	}

	// We need to run two tasks concurrently:
	// - Listen and serving of the HTTP server.
	// - Waiting for a signal to stop the server.

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server",
			"addr", cfg.http.addr,
			"emailDriver", cfg.email.driver,
			"build", internal.CurrentBuild,
		)
		// ListenAndServe always returns a non-nil error,
		// g will cancel gCtx when an error is returned, so
		// this will also stop the other goroutine.
		return srv.ListenAndServe()
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("stopping http server")

		shutCtx, cancel := context.WithTimeout(context.Background(), cfg.http.shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutCtx)
	})

	err = g.Wait()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server stopped with error", "error", err)
		return 1
	}

	logger.Info("http server stopped successfully")

	return 0
}

// newEmailSender creates the sender for the configured email driver.
func newEmailSender(cfg emailConfig, logger *slog.Logger) (email.Sender, error) {
	switch cfg.driver {
	case "log":
		return email.NewLogSender(logger), nil
	case "smtp":
		if cfg.smtp.Host == "" {
			return nil, errors.New("smtp driver requires SMTP_HOST")
		}
		return smtp.NewSender(cfg.smtp), nil
	case "mailgun":
		if cfg.mailgun.Domain == "" {
			return nil, errors.New("mailgun driver requires MAILGUN_DOMAIN")
		}
		return mailgun.NewSender(newHTTPClient(cfg), cfg.mailgun), nil
	case "postmark":
		if cfg.postmark.ServerToken.IsZero() {
			return nil, errors.New("postmark driver requires POSTMARK_SERVER_TOKEN")
		}
		return postmark.NewSender(newHTTPClient(cfg), cfg.postmark), nil
	default:
		return nil, fmt.Errorf("unknown email driver %q", cfg.driver)
	}
}

// newHTTPClient returns a client for the http based email APIs. The mailer
// bounds every send with its own timeout, the client timeout is a backstop.
func newHTTPClient(cfg emailConfig) *http.Client {
	timeout := 2 * cfg.mailer.SendTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &http.Client{
		Timeout: timeout,
	}
}
