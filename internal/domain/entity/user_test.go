package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVerifyOTPValid(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	u := &User{VerifyOTP: "482910", VerifyOTPExpireAt: now.Add(10 * time.Minute)}

	assert.True(t, u.VerifyOTPValid("482910", now))
	assert.False(t, u.VerifyOTPValid("000000", now))
	assert.False(t, u.VerifyOTPValid("482910", now.Add(11*time.Minute)))

	// consumed codes are inert even for the empty string
	u.ClearVerifyOTP()
	assert.False(t, u.VerifyOTPValid("482910", now))
	assert.False(t, u.VerifyOTPValid("", now))
}

func TestResetOTPValid(t *testing.T) {
	now := time.Now()
	u := &User{ResetOTP: "115533", ResetOTPExpireAt: now.Add(time.Minute)}

	assert.True(t, u.ResetOTPValid("115533", now))
	assert.False(t, u.ResetOTPValid("115533", now.Add(2*time.Minute)))

	u.ClearResetOTP()
	assert.False(t, u.ResetOTPValid("115533", now))
	assert.True(t, u.ResetOTPExpireAt.IsZero())
}
