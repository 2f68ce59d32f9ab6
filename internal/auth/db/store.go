package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/willemschots/accounts/internal/auth"
	"github.com/willemschots/accounts/internal/db"
	"github.com/willemschots/accounts/internal/krypto"
)

// Store is responsible for interacting with a database.
type Store struct {
	db            *sql.DB
	dialect       db.Dialect
	encryptor     *krypto.Encryptor
	blindIndexKey krypto.Key

	// NewID generates IDs for new users.
	// Exposed for testing purposes.
	NewID func() (uuid.UUID, error)
}

// New creates a new Store.
func New(sqlDB *sql.DB, dialect db.Dialect, encryptor *krypto.Encryptor, blindIndexKey krypto.Key) *Store {
	return &Store{
		db:            sqlDB,
		dialect:       dialect,
		encryptor:     encryptor,
		blindIndexKey: blindIndexKey,
		NewID:         uuid.NewRandom,
	}
}

// BeginTx starts a new transaction.
func (s *Store) BeginTx(ctx context.Context) (auth.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{
		tx:    tx,
		ctx:   ctx,
		store: s,
	}, nil
}

// FindUsers queries for users outside of a transaction.
// It returns an empty slice if no users are found.
func (s *Store) FindUsers(ctx context.Context, filter *auth.UserFilter) ([]auth.User, error) {
	return selectUsers(s.newQuery(), queryFuncCtx(ctx, s.db.QueryContext), filter)
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) newQuery() db.Query {
	return db.Query{
		Dialect:       s.dialect,
		Encryptor:     s.encryptor,
		BlindIndexKey: s.blindIndexKey,
	}
}
