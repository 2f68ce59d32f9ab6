package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/willemschots/accounts/internal/auth"
	"github.com/willemschots/accounts/internal/errorz"
)

type Tx struct {
	tx    *sql.Tx
	ctx   context.Context
	store *Store
}

func (t *Tx) Commit() error {
	return errorz.MapDBErr(t.tx.Commit())
}

func (t *Tx) Rollback() error {
	return errorz.MapDBErr(t.tx.Rollback())
}

// CreateUser creates a user in the database.
// It sets the users ID when successful.
func (t *Tx) CreateUser(u *auth.User) error {
	if u.ID != uuid.Nil {
		return fmt.Errorf("user already has an id: %w", errorz.ErrConstraintViolated)
	}

	id, err := t.store.NewID()
	if err != nil {
		return err
	}

	created := *u
	created.ID = id

	err = insertUser(t.store.newQuery(), execFuncCtx(t.ctx, t.tx.ExecContext), created)
	if err != nil {
		return err
	}

	*u = created
	return nil
}

// UpdateUser updates a user in the database.
// It returns errorz.ErrNotFound if no user is found.
func (t *Tx) UpdateUser(u *auth.User) error {
	return updateUser(t.store.newQuery(), execFuncCtx(t.ctx, t.tx.ExecContext), *u)
}

// DeleteUser deletes the user with the given id.
// It returns errorz.ErrNotFound if no user is found.
func (t *Tx) DeleteUser(id uuid.UUID) error {
	return deleteUser(t.store.newQuery(), execFuncCtx(t.ctx, t.tx.ExecContext), id)
}

// FindUsers queries for users based on the provided filter.
// It returns an empty slice if no users are found.
func (t *Tx) FindUsers(filter *auth.UserFilter) ([]auth.User, error) {
	return selectUsers(t.store.newQuery(), queryFuncCtx(t.ctx, t.tx.QueryContext), filter)
}
