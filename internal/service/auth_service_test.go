package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/security"
)

func newAuthFixture(t *testing.T) (*MockStaffRepo, AuthService) {
	t.Helper()
	staffRepo := new(MockStaffRepo)
	tokens := security.NewTokenManager("test-secret-that-is-long-enough-000000", time.Hour, 7*24*time.Hour)
	return staffRepo, NewAuthService(staffRepo, tokens)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hash)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		staffRepo, svc := newAuthFixture(t)
		staffRepo.On("GetByEmail", ctx, "agent@rentalops.local").Return(&domain.StaffUser{
			ID: 7, Email: "agent@rentalops.local", Role: domain.StaffRoleAgent,
			PasswordHash: hashPassword(t, "hunter22"), IsActive: true,
		}, nil)

		access, refresh, staff, err := svc.Login(ctx, "agent@rentalops.local", "hunter22")
		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.Equal(t, int32(7), staff.ID)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		staffRepo, svc := newAuthFixture(t)
		staffRepo.On("GetByEmail", ctx, "nobody@rentalops.local").Return(nil, domain.ErrNotFound)

		_, _, _, err := svc.Login(ctx, "nobody@rentalops.local", "hunter22")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		staffRepo, svc := newAuthFixture(t)
		staffRepo.On("GetByEmail", ctx, "agent@rentalops.local").Return(&domain.StaffUser{
			ID: 7, Email: "agent@rentalops.local",
			PasswordHash: hashPassword(t, "hunter22"), IsActive: true,
		}, nil)

		_, _, _, err := svc.Login(ctx, "agent@rentalops.local", "wrong")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("InactiveAccount", func(t *testing.T) {
		staffRepo, svc := newAuthFixture(t)
		staffRepo.On("GetByEmail", ctx, "agent@rentalops.local").Return(&domain.StaffUser{
			ID: 7, Email: "agent@rentalops.local",
			PasswordHash: hashPassword(t, "hunter22"), IsActive: false,
		}, nil)

		_, _, _, err := svc.Login(ctx, "agent@rentalops.local", "hunter22")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		staffRepo, svc := newAuthFixture(t)
		staffRepo.On("GetByEmail", ctx, "agent@rentalops.local").Return(&domain.StaffUser{
			ID: 7, Email: "agent@rentalops.local", Role: domain.StaffRoleAgent,
			PasswordHash: hashPassword(t, "hunter22"), IsActive: true,
		}, nil)
		staffRepo.On("GetByID", ctx, int32(7)).Return(&domain.StaffUser{
			ID: 7, Email: "agent@rentalops.local", Role: domain.StaffRoleAgent, IsActive: true,
		}, nil)

		_, refresh, _, err := svc.Login(ctx, "agent@rentalops.local", "hunter22")
		assert.NoError(t, err)

		access2, refresh2, err := svc.Refresh(ctx, refresh)
		assert.NoError(t, err)
		assert.NotEmpty(t, access2)
		assert.NotEmpty(t, refresh2)
	})

	t.Run("AccessTokenRejected", func(t *testing.T) {
		staffRepo, svc := newAuthFixture(t)
		staffRepo.On("GetByEmail", ctx, "agent@rentalops.local").Return(&domain.StaffUser{
			ID: 7, Email: "agent@rentalops.local", Role: domain.StaffRoleAgent,
			PasswordHash: hashPassword(t, "hunter22"), IsActive: true,
		}, nil)

		access, _, _, err := svc.Login(ctx, "agent@rentalops.local", "hunter22")
		assert.NoError(t, err)

		_, _, err = svc.Refresh(ctx, access)
		assert.ErrorIs(t, err, security.ErrWrongTokenType)
	})

	t.Run("GarbageTokenRejected", func(t *testing.T) {
		_, svc := newAuthFixture(t)
		_, _, err := svc.Refresh(ctx, "not-a-token")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}
