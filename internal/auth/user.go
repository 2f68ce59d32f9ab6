package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/willemschots/accounts/internal/email"
	"github.com/willemschots/accounts/internal/krypto"
)

// User contains the data for a user.
//
// A user is inactive from registration until its activation token is
// redeemed. While inactive it has a non-empty ActivationToken, once active
// the token is empty.
type User struct {
	ID              uuid.UUID
	Username        string
	Email           email.Address
	PasswordHash    krypto.Argon2Hash
	Inactive        bool
	ActivationToken string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
