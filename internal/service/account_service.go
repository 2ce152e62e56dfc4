package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"restaurant-directory/internal/domain"
	"restaurant-directory/pkg/utils"
)

const PasswordMinLength = 6

type SignUpInput struct {
	Email                string `form:"email" json:"email"`
	Password             string `form:"password" json:"password"`
	PasswordConfirmation string `form:"password_confirmation" json:"passwordConfirmation"`
}

type AccountService struct {
	users domain.UserRepository
	log   *zap.Logger
}

func NewAccountService(users domain.UserRepository, l *zap.Logger) *AccountService {
	if l == nil {
		l = zap.NewNop()
	}
	return &AccountService{users: users, log: l}
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (s *AccountService) SignUp(ctx context.Context, in SignUpInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	ve := &domain.ValidationError{}
	if a, err := mail.ParseAddress(email); err != nil || a.Address != email {
		ve.Add("Email is invalid")
	} else {
		existing, err := s.users.FindByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("find user: %w", err)
		}
		if existing != nil {
			ve.Add("Email has already been taken")
		}
	}
	if len(in.Password) < PasswordMinLength {
		ve.Add(fmt.Sprintf("Password is too short (minimum is %d characters)", PasswordMinLength))
	}
	if in.Password != in.PasswordConfirmation {
		ve.Add("Password confirmation doesn't match Password")
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{ID: utils.NewID(), Email: email, PasswordHash: hash}
	if err := s.users.Create(ctx, u); err != nil {
		if isDupKey(err) {
			return nil, domain.NewValidationError("Email has already been taken")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.Info("user signed up", zap.String("uid", u.ID))
	return u, nil
}

// Authenticate 邮箱不存在和密码错误返回同一个错误
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}

func (s *AccountService) Find(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return u, nil
}
