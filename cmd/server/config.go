package main

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/willemschots/accounts/internal/auth"
	"github.com/willemschots/accounts/internal/db"
	"github.com/willemschots/accounts/internal/email"
	"github.com/willemschots/accounts/internal/email/mailgun"
	"github.com/willemschots/accounts/internal/email/postmark"
	"github.com/willemschots/accounts/internal/email/smtp"
	"github.com/willemschots/accounts/internal/krypto"
)

// httpConfig is the configuration for the HTTP server.
type httpConfig struct {
	addr            string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration
}

// dbConfig is the configuration for the database.
type dbConfig struct {
	dialect        db.Dialect
	dsn            string
	migrate        bool
	encryptionKeys []krypto.Key
	blindIndexSalt krypto.Key
}

// emailConfig is the configuration for sending emails.
type emailConfig struct {
	driver   string
	service  email.ServiceConfig
	mailer   auth.MailerConfig
	smtp     smtp.Settings
	mailgun  mailgun.Settings
	postmark postmark.Settings
}

// config is the configuration for the server command.
type config struct {
	http  httpConfig
	db    dbConfig
	email emailConfig
}

// defaultConfig returns a config with sane default values.
func defaultConfig() config {
	return config{
		http: httpConfig{
			addr:            ":8888",
			readTimeout:     time.Second * 5,
			writeTimeout:    time.Second * 30,
			idleTimeout:     time.Second * 120,
			shutdownTimeout: time.Second * 15,
		},
		db: dbConfig{
			dialect: db.SQLite,
			dsn:     "accounts.db",
			migrate: true,
		},
		email: emailConfig{
			driver: "log",
			mailer: auth.MailerConfig{
				BaseURL:     must(url.Parse("http://localhost:8888")),
				SendTimeout: time.Second * 10,
			},
			smtp: smtp.Settings{
				Port: 587,
			},
			mailgun: mailgun.Settings{
				APIHost: "https://api.mailgun.net",
			},
			postmark: postmark.Settings{
				APIURL:        must(url.Parse("https://api.postmarkapp.com/email")),
				MessageStream: "outbound",
			},
		},
	}
}

// requiredKeys lists the environment variables without a default value.
var requiredKeys = []string{
	"DB_ENCRYPTION_KEYS",
	"DB_BLIND_INDEX_SALT",
	"EMAIL_FROM",
}

// envMap maps environment variable names to fields in the config struct.
var envMap = map[string]func(v string, c *config) error{
	"HTTP_ADDR": func(v string, c *config) error {
		c.http.addr = v
		return nil
	},
	"HTTP_READ_TIMEOUT": func(v string, c *config) error {
		return confDuration(v, &c.http.readTimeout, 0, math.MaxInt64)
	},
	"HTTP_WRITE_TIMEOUT": func(v string, c *config) error {
		return confDuration(v, &c.http.writeTimeout, 0, math.MaxInt64)
	},
	"HTTP_IDLE_TIMEOUT": func(v string, c *config) error {
		return confDuration(v, &c.http.idleTimeout, 0, math.MaxInt64)
	},
	"HTTP_SHUTDOWN_TIMEOUT": func(v string, c *config) error {
		return confDuration(v, &c.http.shutdownTimeout, 0, math.MaxInt64)
	},
	"BASE_URL": func(v string, c *config) error {
		u, err := url.Parse(v)
		if err != nil {
			return err
		}

		if u.Scheme == "" || u.Host == "" {
			return errors.New("expected an absolute url with scheme and host")
		}

		c.email.mailer.BaseURL = u
		return nil
	},
	"DB_DRIVER": func(v string, c *config) error {
		d, err := db.ParseDialect(v)
		if err != nil {
			return err
		}

		c.db.dialect = d
		return nil
	},
	"DB_DSN": func(v string, c *config) error {
		return confNonEmpty(v, &c.db.dsn)
	},
	"DB_MIGRATE": func(v string, c *config) error {
		return confBool(v, &c.db.migrate)
	},
	"DB_ENCRYPTION_KEYS": func(v string, c *config) error {
		keys, err := krypto.ParseKeys(v)
		if err != nil {
			return err
		}

		c.db.encryptionKeys = keys
		return nil
	},
	"DB_BLIND_INDEX_SALT": func(v string, c *config) error {
		return confKey(v, &c.db.blindIndexSalt)
	},
	"EMAIL_FROM": func(v string, c *config) error {
		addr, err := email.ParseAddress(v)
		if err != nil {
			return err
		}

		c.email.service.From = addr
		return nil
	},
	"EMAIL_DRIVER": func(v string, c *config) error {
		switch v {
		case "log", "smtp", "mailgun", "postmark":
			c.email.driver = v
			return nil
		default:
			return fmt.Errorf("unknown email driver %q", v)
		}
	},
	"EMAIL_SEND_TIMEOUT": func(v string, c *config) error {
		return confDuration(v, &c.email.mailer.SendTimeout, time.Millisecond, math.MaxInt64)
	},
	"SMTP_HOST": func(v string, c *config) error {
		return confNonEmpty(v, &c.email.smtp.Host)
	},
	"SMTP_PORT": func(v string, c *config) error {
		port, err := strconv.Atoi(v)
		if err != nil {
			return err
		}

		if port < 1 || port > math.MaxUint16 {
			return fmt.Errorf("port %d out of range", port)
		}

		c.email.smtp.Port = port
		return nil
	},
	"SMTP_USERNAME": func(v string, c *config) error {
		c.email.smtp.Username = v
		return nil
	},
	"SMTP_PASSWORD": func(v string, c *config) error {
		c.email.smtp.Password = krypto.NewSecret(v)
		return nil
	},
	"MAILGUN_API_HOST": func(v string, c *config) error {
		u, err := url.Parse(v)
		if err != nil {
			return err
		}

		if u.Scheme == "" || u.Host == "" {
			return errors.New("expected a host including the scheme")
		}

		c.email.mailgun.APIHost = v
		return nil
	},
	"MAILGUN_DOMAIN": func(v string, c *config) error {
		return confNonEmpty(v, &c.email.mailgun.Domain)
	},
	"MAILGUN_USERNAME": func(v string, c *config) error {
		c.email.mailgun.Username = v
		return nil
	},
	"MAILGUN_PASSWORD": func(v string, c *config) error {
		c.email.mailgun.Password = krypto.NewSecret(v)
		return nil
	},
	"POSTMARK_API_URL": func(v string, c *config) error {
		u, err := url.Parse(v)
		if err != nil {
			return err
		}

		if u.Scheme == "" || u.Host == "" {
			return errors.New("expected an absolute url with scheme and host")
		}

		c.email.postmark.APIURL = u
		return nil
	},
	"POSTMARK_SERVER_TOKEN": func(v string, c *config) error {
		c.email.postmark.ServerToken = krypto.NewSecret(v)
		return nil
	},
	"POSTMARK_MESSAGE_STREAM": func(v string, c *config) error {
		return confNonEmpty(v, &c.email.postmark.MessageStream)
	},
}

// configFromEnv returns a config with values from the environment. It falls
// back to default values for any missing environment variables.
//
// It does a best effort to validate provided values, so that mistakes are
// caught ASAP. However, there is no guarantee that the returned config
// is valid and will work.
func configFromEnv() (config, error) {
	c := defaultConfig()

	var errs []error
	for _, key := range requiredKeys {
		if _, ok := os.LookupEnv(key); !ok {
			errs = append(errs, fmt.Errorf("missing required env variable %s", key))
		}
	}

	for key, mf := range envMap {
		if val, ok := os.LookupEnv(key); ok {
			if err := mf(val, &c); err != nil {
				errs = append(errs, fmt.Errorf("invalid env variable %s: %w", key, err))
			}
		}
	}

	return c, errors.Join(errs...)
}

// confDuration attempts to parse v into tgt and checks if the result is in
// the provided range (inclusive).
func confDuration(v string, tgt *time.Duration, min, max time.Duration) error {
	dur, err := time.ParseDuration(v)
	if err != nil {
		return err
	}

	if dur < min || dur > max {
		return fmt.Errorf("duration %s not in range [%s, %s] (inclusive)", dur, min, max)
	}

	*tgt = dur

	return nil
}

func confBool(v string, tgt *bool) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return err
	}

	*tgt = b
	return nil
}

func confNonEmpty(v string, tgt *string) error {
	if v == "" {
		return errors.New("can not be empty")
	}

	*tgt = v
	return nil
}

func confKey(v string, tgt *krypto.Key) error {
	k, err := krypto.ParseKey(v)
	if err != nil {
		return err
	}

	*tgt = k
	return nil
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
