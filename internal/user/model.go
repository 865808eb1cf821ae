package user

import "time"

type User struct {
	ID         uint      `json:"id"`
	Email      string    `json:"email"`
	Password   string    `json:"-"`
	IsSeller   bool      `json:"is_seller"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

type CodePurpose string

const (
	PurposeVerify CodePurpose = "verify"
	PurposeReset  CodePurpose = "reset"
)

// OTPValidity is how long an emailed verification code stays usable.
const OTPValidity = 10 * time.Minute

type VerificationCode struct {
	ID         uint
	Email      string
	CodeHash   string
	Purpose    CodePurpose
	ExpiresAt  time.Time
	ConsumedAt *time.Time
	CreatedAt  time.Time
}
