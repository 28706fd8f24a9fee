package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/andikasp/gocommerce/config"
	"github.com/andikasp/gocommerce/internal/domain/entity"
	repo "github.com/andikasp/gocommerce/internal/domain/repository"
	"github.com/andikasp/gocommerce/pkg/helpers"
	"github.com/andikasp/gocommerce/pkg/mailer"
	tpl "github.com/andikasp/gocommerce/pkg/mailer/templates"
)

// AuthService owns account lifecycle: registration, login, the two OTP
// flows, and the operator login. Sessions are recorded in Redis so tokens
// can be revoked by logout before their JWT expiry.
type AuthService struct {
	Repo   repo.UserRepository
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Pub    *helpers.RabbitPublisher
	Logger *logrus.Logger
	Cfg    *config.Config
}

func NewAuthService(r repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, pub *helpers.RabbitPublisher, logger *logrus.Logger, cfg *config.Config) *AuthService {
	return &AuthService{Repo: r, JWT: jwt, Redis: rdb, Pub: pub, Logger: logger, Cfg: cfg}
}

func sessionKey(userID string) string { return "user:session:" + userID }

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User        *entity.User
	Token       string
	TokenExpiry time.Time
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, Wrap(KindInternal, "failed to hash password", err)
	}

	u := &entity.User{
		Name:     name,
		Email:    email,
		Password: hash,
		CartData: entity.CartData{},
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, E(KindConflict, "user already exists")
		}
		return nil, Wrap(KindInternal, "failed to create user", err)
	}

	res, err := s.issueSession(ctx, u)
	if err != nil {
		return nil, err
	}

	s.enqueueMail(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: tpl.TemplateWelcome,
		Data:     map[string]any{"Name": u.Name, "Email": u.Email, "AppName": s.Cfg.AppName},
	})
	return res, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return s.issueSession(ctx, u)
}

// issueSession signs a token and records the session hash in Redis.
func (s *AuthService) issueSession(ctx context.Context, u *entity.User) (*AuthResult, error) {
	uid := u.ID.Hex()
	token, exp, err := s.JWT.GenerateUserToken(uid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", uid).Error("generate token failed")
		}
		return nil, Wrap(KindInternal, "failed to issue token", err)
	}

	if s.Redis != nil {
		key := sessionKey(uid)
		fields := map[string]any{
			"user_id":    uid,
			"email":      u.Email,
			"name":       u.Name,
			"sid":        uuid.NewString(),
			"created_at": time.Now().UTC().Format(time.RFC3339Nano),
		}
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, 24*time.Hour)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return &AuthResult{User: u, Token: token, TokenExpiry: exp}, nil
}

func (s *AuthService) Logout(ctx context.Context, userID string) {
	if s.Redis == nil || userID == "" {
		return
	}
	if err := s.Redis.Del(ctx, sessionKey(userID)).Err(); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("failed to drop session")
	}
}

// AdminLogin checks the configured operator credentials and issues an
// operator-scoped token carrying the email claim.
func (s *AuthService) AdminLogin(_ context.Context, email, password string) (string, time.Time, error) {
	if s.Cfg.AdminEmail == "" || email != s.Cfg.AdminEmail || password != s.Cfg.AdminPassword {
		return "", time.Time{}, E(KindUnauthorized, "invalid admin credentials")
	}
	token, exp, err := s.JWT.GenerateAdminToken(email)
	if err != nil {
		return "", time.Time{}, Wrap(KindInternal, "failed to issue token", err)
	}
	return token, exp, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// SendVerifyOTP issues a fresh verification code and mails it. Re-issuing
// replaces any previous code; codes die with their expiry.
func (s *AuthService) SendVerifyOTP(ctx context.Context, userID string) error {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return ErrUserNotFound
	}
	if u.IsAccountVerified {
		return E(KindConflict, "account already verified")
	}

	code, err := helpers.GenOTPCode()
	if err != nil {
		return Wrap(KindInternal, "failed to generate otp", err)
	}
	u.VerifyOTP = code
	u.VerifyOTPExpireAt = time.Now().Add(s.Cfg.OTPTTL)
	if err := s.Repo.Update(ctx, u); err != nil {
		return Wrap(KindInternal, "failed to store otp", err)
	}

	s.enqueueMail(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: tpl.TemplateVerifyOTP,
		Data:     s.otpData(u, code),
	})
	return nil
}

// VerifyAccount consumes the pending verification code. Codes are single
// use: a consumed or expired code never validates again.
func (s *AuthService) VerifyAccount(ctx context.Context, userID, code string) error {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return ErrUserNotFound
	}
	if u.IsAccountVerified {
		return E(KindConflict, "account already verified")
	}
	if !u.VerifyOTPValid(code, time.Now()) {
		return E(KindValidation, "invalid or expired OTP")
	}

	u.IsAccountVerified = true
	u.ClearVerifyOTP()
	if err := s.Repo.Update(ctx, u); err != nil {
		return Wrap(KindInternal, "failed to verify account", err)
	}
	return nil
}

// SendResetOTP issues a password-reset code for the given email.
func (s *AuthService) SendResetOTP(ctx context.Context, email string) error {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return ErrUserNotFound
	}

	code, err := helpers.GenOTPCode()
	if err != nil {
		return Wrap(KindInternal, "failed to generate otp", err)
	}
	u.ResetOTP = code
	u.ResetOTPExpireAt = time.Now().Add(s.Cfg.OTPTTL)
	if err := s.Repo.Update(ctx, u); err != nil {
		return Wrap(KindInternal, "failed to store otp", err)
	}

	s.enqueueMail(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: tpl.TemplateResetOTP,
		Data:     s.otpData(u, code),
	})
	return nil
}

// ResetPassword consumes a reset code and installs the new password hash.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return ErrUserNotFound
	}
	if !u.ResetOTPValid(code, time.Now()) {
		return E(KindValidation, "invalid or expired OTP")
	}

	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return Wrap(KindInternal, "failed to hash password", err)
	}
	u.Password = hash
	u.ClearResetOTP()
	if err := s.Repo.Update(ctx, u); err != nil {
		return Wrap(KindInternal, "failed to reset password", err)
	}

	// Invalidate any live session; the old credential is gone.
	s.Logout(ctx, u.ID.Hex())
	return nil
}

// SessionAlive reports whether a session hash still exists for the user.
func (s *AuthService) SessionAlive(ctx context.Context, userID string) bool {
	if s.Redis == nil {
		return true
	}
	n, err := s.Redis.Exists(ctx, sessionKey(userID)).Result()
	return err == nil && n > 0
}

func (s *AuthService) otpData(u *entity.User, code string) map[string]any {
	return map[string]any{
		"Name":      u.Name,
		"Email":     u.Email,
		"AppName":   s.Cfg.AppName,
		"Code":      code,
		"ExpiresIn": fmt.Sprintf("%d minutes", int(s.Cfg.OTPTTL.Minutes())),
	}
}

func (s *AuthService) enqueueMail(ctx context.Context, job mailer.EmailJob) {
	if s.Pub == nil || s.Cfg == nil || !s.Cfg.MailSendEnabled {
		return
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("to", job.To).Warn("failed to enqueue email")
	}
}
