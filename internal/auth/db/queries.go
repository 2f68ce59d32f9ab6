package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/willemschots/accounts/internal/auth"
	"github.com/willemschots/accounts/internal/db"
	"github.com/willemschots/accounts/internal/email"
	"github.com/willemschots/accounts/internal/errorz"
)

type execFunc func(query string, params ...any) (sql.Result, error)
type queryFunc func(query string, params ...any) (*sql.Rows, error)

func execFuncCtx(ctx context.Context, f func(context.Context, string, ...any) (sql.Result, error)) execFunc {
	return func(query string, params ...any) (sql.Result, error) {
		return f(ctx, query, params...)
	}
}

func queryFuncCtx(ctx context.Context, f func(context.Context, string, ...any) (*sql.Rows, error)) queryFunc {
	return func(query string, params ...any) (*sql.Rows, error) {
		return f(ctx, query, params...)
	}
}

func insertUser(q db.Query, ef execFunc, u auth.User) error {
	if u.ID == uuid.Nil {
		return fmt.Errorf("zero uuid provided: %w", errorz.ErrConstraintViolated)
	}

	q.Unsafe(`INSERT INTO users (id, username, email_encrypted, email_blind_index, password_hash, is_inactive, activation_token, created_at, updated_at) VALUES (`)
	q.Params(u.ID, u.Username)
	q.Unsafe(`, `)
	q.ParamEncrypted([]byte(u.Email))
	q.Unsafe(`, `)
	q.ParamBlindIndex([]byte(u.Email))
	q.Unsafe(`, `)
	q.Params(u.PasswordHash.String(), u.Inactive, nullString(u.ActivationToken), u.CreatedAt, u.UpdatedAt)
	q.Unsafe(`)`)

	s, params, err := q.Get()
	if err != nil {
		return err
	}

	_, err = ef(s, params...)
	if err != nil {
		return errorz.MapDBErr(err)
	}

	return nil
}

func updateUser(q db.Query, ef execFunc, u auth.User) error {
	q.Unsafe(`UPDATE users SET `)

	q.Unsafe(`username = `)
	q.Param(u.Username)

	q.Unsafe(`, email_encrypted = `)
	q.ParamEncrypted([]byte(u.Email))

	q.Unsafe(`, email_blind_index = `)
	q.ParamBlindIndex([]byte(u.Email))

	q.Unsafe(`, password_hash = `)
	q.Param(u.PasswordHash.String())

	q.Unsafe(`, is_inactive = `)
	q.Param(u.Inactive)

	q.Unsafe(`, activation_token = `)
	q.Param(nullString(u.ActivationToken))

	q.Unsafe(`, updated_at = `)
	q.Param(u.UpdatedAt)

	q.Unsafe(` WHERE id = `)
	q.Param(u.ID)

	s, params, err := q.Get()
	if err != nil {
		return err
	}

	result, err := ef(s, params...)
	if err != nil {
		return errorz.MapDBErr(err)
	}

	return expectAffected(result, "user")
}

func deleteUser(q db.Query, ef execFunc, id uuid.UUID) error {
	q.Unsafe(`DELETE FROM users WHERE id = `)
	q.Param(id)

	s, params, err := q.Get()
	if err != nil {
		return err
	}

	result, err := ef(s, params...)
	if err != nil {
		return errorz.MapDBErr(err)
	}

	return expectAffected(result, "user")
}

func selectUsers(q db.Query, qf queryFunc, f *auth.UserFilter) ([]auth.User, error) {
	q.Unsafe(`SELECT id, username, email_encrypted, password_hash, is_inactive, activation_token, created_at, updated_at FROM users WHERE 1=1 `)

	if f == nil {
		f = &auth.UserFilter{}
	}

	if len(f.IDs) > 0 {
		q.Unsafe(`AND id IN (`)
		q.Params(anySlice(f.IDs)...)
		q.Unsafe(`) `)
	}

	if len(f.Emails) > 0 {
		q.Unsafe(`AND email_blind_index IN (`)
		for i, email := range f.Emails {
			if i > 0 {
				q.Unsafe(`, `)
			}
			q.ParamBlindIndex([]byte(email))
		}
		q.Unsafe(`) `)
	}

	if len(f.ActivationTokens) > 0 {
		q.Unsafe(`AND activation_token IN (`)
		q.Params(anySlice(f.ActivationTokens)...)
		q.Unsafe(`) `)
	}

	if f.Inactive != nil {
		q.Unsafe(`AND is_inactive = `)
		q.Param(*f.Inactive)
		q.Unsafe(` `)
	}

	q.Unsafe(`ORDER BY created_at ASC, id ASC`)

	s, params, err := q.Get()
	if err != nil {
		return nil, err
	}

	rows, err := qf(s, params...)
	if err != nil {
		return nil, errorz.MapDBErr(err)
	}

	defer rows.Close()

	out := make([]auth.User, 0)
	for rows.Next() {
		var (
			u     auth.User
			token sql.NullString
		)
		emailBytes := q.DecryptionTarget()
		err := rows.Scan(&u.ID, &u.Username, emailBytes, &u.PasswordHash, &u.Inactive, &token, &u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return nil, errorz.MapDBErr(err)
		}

		u.ActivationToken = token.String

		u.Email, err = email.ParseAddress(string(emailBytes.Data))
		if err != nil {
			return nil, err
		}

		out = append(out, u)
	}

	if err := rows.Err(); err != nil {
		return nil, errorz.MapDBErr(err)
	}

	return out, nil
}

func expectAffected(result sql.Result, what string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return errorz.MapDBErr(err)
	}

	if rows == 0 {
		return fmt.Errorf("%s not found: %w", what, errorz.ErrNotFound)
	}

	return nil
}

// nullString stores empty strings as NULL, so unique indexes ignore them.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func anySlice[T any](s []T) []any {
	out := make([]any, 0, len(s))
	for _, v := range s {
		out = append(out, v)
	}
	return out
}
