package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the aggregate root for the account domain. Passwords are stored
// as bcrypt hashes. The cart lives embedded in the account document;
// CartVersion increases on every cart write and guards conditional updates.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"`

	IsAccountVerified bool      `bson:"is_account_verified" json:"isAccountVerified"`
	VerifyOTP         string    `bson:"verify_otp,omitempty" json:"-"`
	VerifyOTPExpireAt time.Time `bson:"verify_otp_expire_at,omitempty" json:"-"`
	ResetOTP          string    `bson:"reset_otp,omitempty" json:"-"`
	ResetOTPExpireAt  time.Time `bson:"reset_otp_expire_at,omitempty" json:"-"`

	CartData    CartData `bson:"cart_data" json:"cartData"`
	CartVersion int64    `bson:"cart_version" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// VerifyOTPValid reports whether code matches the pending verification OTP
// and it has not expired. Consumed or never-issued codes are inert.
func (u *User) VerifyOTPValid(code string, now time.Time) bool {
	return u.VerifyOTP != "" && u.VerifyOTP == code && now.Before(u.VerifyOTPExpireAt)
}

// ResetOTPValid reports whether code matches the pending reset OTP and it
// has not expired.
func (u *User) ResetOTPValid(code string, now time.Time) bool {
	return u.ResetOTP != "" && u.ResetOTP == code && now.Before(u.ResetOTPExpireAt)
}

// ClearVerifyOTP marks the verification code as consumed.
func (u *User) ClearVerifyOTP() {
	u.VerifyOTP = ""
	u.VerifyOTPExpireAt = time.Time{}
}

// ClearResetOTP marks the reset code as consumed.
func (u *User) ClearResetOTP() {
	u.ResetOTP = ""
	u.ResetOTPExpireAt = time.Time{}
}
