package user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"wyzar-be/internal/logger"
	"wyzar-be/internal/mail"
	"wyzar-be/internal/utils"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, email, password string, isSeller bool) (*User, error)
	Login(ctx context.Context, email, password string) (string, *User, error)
	GetByID(ctx context.Context, id uint) (*User, error)
	VerifyOTP(ctx context.Context, email, code string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}

type service struct {
	repo   Repository
	mailer mail.Mailer
}

func NewService(repo Repository, mailer mail.Mailer) Service {
	return &service{repo: repo, mailer: mailer}
}

func (s *service) Register(ctx context.Context, email, password string, isSeller bool) (*User, error) {
	log := logger.FromCtx(ctx)

	hashed, err := HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return nil, err
	}

	u, err := s.repo.Create(ctx, email, hashed, isSeller)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	// Account creation survives a failed OTP dispatch; the user can ask
	// for a new code later.
	if err := s.issueCode(ctx, email, PurposeVerify); err != nil {
		log.Warn("verification code dispatch failed",
			zap.String("email", email),
			zap.Error(err),
		)
	}

	log.Info("user registered",
		zap.Uint("user_id", u.ID),
		zap.String("email", email),
		zap.Bool("is_seller", isSeller),
	)

	return u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, *User, error) {
	log := logger.FromCtx(ctx)

	u, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("login: email not found", zap.String("email", email))
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		log.Error("login: failed to look up user", zap.Error(err))
		return "", nil, err
	}

	if !CheckPasswordHash(password, u.Password) {
		log.Debug("login: password mismatch", zap.String("email", email))
		return "", nil, ErrInvalidCredentials
	}

	token, err := GenerateJWT(u.ID, u.Email, u.IsSeller)
	if err != nil {
		return "", nil, err
	}

	return token, u, nil
}

func (s *service) GetByID(ctx context.Context, id uint) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) VerifyOTP(ctx context.Context, email, code string) error {
	vc, err := s.checkCode(ctx, email, code, PurposeVerify)
	if err != nil {
		return err
	}

	if err := s.repo.ConsumeCode(ctx, vc.ID); err != nil {
		return err
	}

	return s.repo.MarkVerified(ctx, email)
}

// RequestPasswordReset acknowledges unknown emails exactly like known ones
// so the endpoint cannot be used to probe registrations.
func (s *service) RequestPasswordReset(ctx context.Context, email string) error {
	if _, err := s.repo.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}

	if err := s.issueCode(ctx, email, PurposeReset); err != nil {
		logger.FromCtx(ctx).Warn("reset code dispatch failed",
			zap.String("email", email),
			zap.Error(err),
		)
	}

	return nil
}

func (s *service) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	vc, err := s.checkCode(ctx, email, code, PurposeReset)
	if err != nil {
		return err
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.repo.ConsumeCode(ctx, vc.ID); err != nil {
		return err
	}

	return s.repo.UpdatePassword(ctx, email, hashed)
}

func (s *service) issueCode(ctx context.Context, email string, purpose CodePurpose) error {
	code := utils.GenerateOTP()

	hash, err := HashPassword(code)
	if err != nil {
		return err
	}

	vc := &VerificationCode{
		Email:     email,
		CodeHash:  hash,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(OTPValidity),
	}
	if err := s.repo.SaveCode(ctx, vc); err != nil {
		return err
	}

	if purpose == PurposeReset {
		return s.mailer.SendPasswordResetOTP(email, code)
	}
	return s.mailer.SendOTP(email, code)
}

func (s *service) checkCode(ctx context.Context, email, code string, purpose CodePurpose) (*VerificationCode, error) {
	vc, err := s.repo.ActiveCode(ctx, email, purpose)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCode
		}
		return nil, err
	}

	if time.Now().After(vc.ExpiresAt) {
		return nil, ErrCodeExpired
	}

	if !CheckPasswordHash(code, vc.CodeHash) {
		return nil, ErrInvalidCode
	}

	return vc, nil
}
