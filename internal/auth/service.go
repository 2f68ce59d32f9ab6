package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/willemschots/accounts/internal/email"
	"github.com/willemschots/accounts/internal/errorz"
	"github.com/willemschots/accounts/internal/i18n"
	"github.com/willemschots/accounts/internal/krypto"
)

// ActivationMailer sends activation emails. Returned errors must match ErrEmailDelivery.
type ActivationMailer interface {
	SendActivation(ctx context.Context, addr email.Address, token krypto.Token) error
}

// Result is the outcome of a successful operation.
type Result struct {
	Message string `json:"message"`
}

// Service is the type that provides the main rules for
// registering and activating users.
type Service struct {
	store     Store
	validator *Validator
	mailer    ActivationMailer

	// NowFunc is used to get the current time.
	// Exposed for testing purposes.
	NowFunc func() time.Time
}

func NewService(s Store, mailer ActivationMailer) *Service {
	return &Service{
		store:     s,
		validator: NewValidator(s),
		mailer:    mailer,
		NowFunc:   time.Now,
	}
}

// RegisterUser validates r and creates an inactive user with a new activation
// token, then sends the activation email.
//
// The user only remains in the store when the email was sent. If sending fails
// the user is deleted again and an error matching ErrEmailDelivery is returned.
func (s *Service) RegisterUser(ctx context.Context, tr i18n.Translator, r Registration) (Result, error) {
	valid, err := s.validator.Validate(ctx, r)
	if err != nil {
		return Result{}, err
	}

	pwdHash, err := valid.Password.Hash()
	if err != nil {
		return Result{}, err
	}

	token, err := krypto.GenerateToken()
	if err != nil {
		return Result{}, err
	}

	now := s.NowFunc()
	user := User{
		Username:        valid.Username,
		Email:           valid.Email,
		PasswordHash:    pwdHash,
		Inactive:        true,
		ActivationToken: token.String(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	var undo compensations

	err = s.inTx(ctx, func(tx Tx) error {
		return tx.CreateUser(&user)
	})
	if err != nil {
		if errors.Is(err, errorz.ErrConstraintViolated) {
			return Result{}, s.claimedEmailErr(ctx, user.Email, err)
		}
		return Result{}, err
	}

	undo.add(func(ctx context.Context) error {
		return s.deleteUser(ctx, user.ID)
	})

	// The email is sent outside of the transaction, the store can't be kept
	// waiting on the mail transport.
	err = s.mailer.SendActivation(ctx, user.Email, token)
	if err != nil {
		// Compensation must run even if the request was cancelled.
		undoErr := undo.run(context.WithoutCancel(ctx))
		return Result{}, errors.Join(deliveryErr(err), undoErr)
	}

	return Result{Message: tr("user_create_success")}, nil
}

// ActivateUser activates the inactive user with the given activation token.
// It returns ErrActivationFailed if no such user exists.
func (s *Service) ActivateUser(ctx context.Context, tr i18n.Translator, token string) (Result, error) {
	if token == "" {
		return Result{}, ErrActivationFailed
	}

	err := s.inTx(ctx, func(tx Tx) error {
		users, err := tx.FindUsers(&UserFilter{
			ActivationTokens: []string{token},
			Inactive:         ptr(true),
		})
		if err != nil {
			return err
		}

		if len(users) != 1 {
			return ErrActivationFailed
		}

		user := users[0]
		user.Inactive = false
		user.ActivationToken = ""
		user.UpdatedAt = s.NowFunc()

		return tx.UpdateUser(&user)
	})
	if err != nil {
		return Result{}, err
	}

	return Result{Message: tr("account_activation_success")}, nil
}

// claimedEmailErr checks whether a constraint violation on create was caused
// by a concurrent registration that claimed addr after validation passed.
// Violations of other constraints are returned as is.
func (s *Service) claimedEmailErr(ctx context.Context, addr email.Address, err error) error {
	users, findErr := s.store.FindUsers(ctx, &UserFilter{
		Emails: []email.Address{addr},
	})
	if findErr != nil {
		return errors.Join(err, findErr)
	}

	if len(users) == 0 {
		return err
	}

	return &ValidationError{Fields: FieldErrors{
		{Field: FieldEmail, Key: "email_inuse"},
	}}
}

func (s *Service) deleteUser(ctx context.Context, id uuid.UUID) error {
	return s.inTx(ctx, func(tx Tx) error {
		return tx.DeleteUser(id)
	})
}

func (s *Service) inTx(ctx context.Context, f func(tx Tx) error) error {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return err
	}

	err = f(tx)
	if err != nil {
		rBackErr := tx.Rollback()
		if rBackErr != nil {
			err = errors.Join(err, rBackErr)
		}
		return err
	}

	err = tx.Commit()
	if err != nil {
		return err
	}

	return nil
}

func ptr[T any](v T) *T {
	return &v
}
