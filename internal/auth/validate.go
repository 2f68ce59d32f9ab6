package auth

import (
	"context"
	"errors"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/willemschots/accounts/internal/email"
)

// Field names as they appear in requests and validation errors.
const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldPassword = "password"
)

// fieldOrder is the order in which field errors are reported.
var fieldOrder = []string{FieldUsername, FieldEmail, FieldPassword}

// Registration is the raw input of a signup request.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ValidRegistration is a registration that passed validation.
type ValidRegistration struct {
	Username string
	Email    email.Address
	Password Password
}

// UserFinder finds users outside of a transaction.
type UserFinder interface {
	FindUsers(ctx context.Context, filter *UserFilter) ([]User, error)
}

// Validator checks registrations. All fields are checked independently, for
// each field only the first failing rule is reported.
type Validator struct {
	users UserFinder
}

func NewValidator(users UserFinder) *Validator {
	return &Validator{
		users: users,
	}
}

// Validate returns a *ValidationError if r does not pass validation. Other
// errors indicate the validation itself could not be completed.
func (v *Validator) Validate(ctx context.Context, r Registration) (ValidRegistration, error) {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required.Error("username_null"),
			validation.RuneLength(4, 32).Error("username_size"),
		),
		validation.Field(&r.Email,
			validation.Required.Error("email_null"),
			is.Email.Error("email_invalid"),
			validation.By(v.emailNotInUse(ctx)),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password_null"),
			validation.RuneLength(8, 0).Error("password_size"),
			validation.By(complexPassword),
		),
	)
	if err != nil {
		return ValidRegistration{}, toValidationError(err)
	}

	addr, err := email.ParseAddress(r.Email)
	if err != nil {
		return ValidRegistration{}, &ValidationError{Fields: FieldErrors{
			{Field: FieldEmail, Key: "email_invalid"},
		}}
	}

	return ValidRegistration{
		Username: r.Username,
		Email:    addr,
		Password: NewPassword(r.Password),
	}, nil
}

func (v *Validator) emailNotInUse(ctx context.Context) validation.RuleFunc {
	return func(value interface{}) error {
		addr, err := email.ParseAddress(value.(string))
		if err != nil {
			return errors.New("email_invalid")
		}

		users, err := v.users.FindUsers(ctx, &UserFilter{
			Emails: []email.Address{addr},
		})
		if err != nil {
			return validation.NewInternalError(err)
		}

		if len(users) > 0 {
			return errors.New("email_inuse")
		}

		return nil
	}
}

func complexPassword(value interface{}) error {
	var lower, upper, digit bool
	for _, r := range value.(string) {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}

	if !lower || !upper || !digit {
		return errors.New("password_invalid")
	}

	return nil
}

func toValidationError(err error) error {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		var internal validation.InternalError
		if errors.As(err, &internal) {
			return internal.InternalError()
		}
		return err
	}

	fields := make(FieldErrors, 0, len(errs))
	for _, name := range fieldOrder {
		if fieldErr, ok := errs[name]; ok {
			fields = append(fields, FieldError{Field: name, Key: fieldErr.Error()})
		}
	}

	return &ValidationError{Fields: fields}
}
