package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/logger"
	"rentalops-backend/internal/repository"
	"rentalops-backend/internal/security"
)

type authService struct {
	staffRepo repository.StaffRepository
	tokens    security.TokenManager
}

func NewAuthService(staffRepo repository.StaffRepository, tokens security.TokenManager) AuthService {
	return &authService{staffRepo: staffRepo, tokens: tokens}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, string, *domain.StaffUser, error) {
	staff, err := s.staffRepo.GetByEmail(ctx, email)
	if err != nil {
		// Same error for unknown email and bad password.
		return "", "", nil, domain.ErrUnauthorized
	}
	if !staff.IsActive {
		logger.Warn("Login attempt for inactive staff account", "email", email)
		return "", "", nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, domain.ErrUnauthorized
	}

	access, err := s.tokens.GenerateAccessToken(staff.ID, staff.Email, string(staff.Role))
	if err != nil {
		return "", "", nil, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(staff.ID, staff.Email)
	if err != nil {
		return "", "", nil, err
	}
	return access, refresh, staff, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil {
		return "", "", domain.ErrUnauthorized
	}
	if claims.Type != security.TokenTypeRefresh {
		return "", "", security.ErrWrongTokenType
	}

	staff, err := s.staffRepo.GetByID(ctx, claims.StaffID)
	if err != nil || !staff.IsActive {
		return "", "", domain.ErrUnauthorized
	}

	access, err := s.tokens.GenerateAccessToken(staff.ID, staff.Email, string(staff.Role))
	if err != nil {
		return "", "", err
	}
	refresh, err := s.tokens.GenerateRefreshToken(staff.ID, staff.Email)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
