package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/orbit-shop/internal/config"
	"github.com/orbit-shop/internal/constants"
	"github.com/orbit-shop/internal/models"
	"github.com/orbit-shop/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupUserAuthServiceTest(t *testing.T) (*UserAuthService, *LoyaltyService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:user_auth_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
		&models.LoyaltyAccount{},
		&models.LoyaltyTransaction{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cfg := &config.Config{}
	cfg.UserJWT.SecretKey = "user-auth-test-secret-0123456789abcdef"
	cfg.UserJWT.ExpireHours = 1
	cfg.Security.PasswordPolicy.MinLength = 8

	loyaltySvc := NewLoyaltyService(repository.NewLoyaltyRepository(db), repository.NewOrderRepository(db))
	return NewUserAuthService(cfg, repository.NewUserRepository(db), loyaltySvc), loyaltySvc, db
}

func TestRegisterGrantsSignupBonus(t *testing.T) {
	svc, loyaltySvc, _ := setupUserAuthServiceTest(t)

	user, token, _, err := svc.Register("Alice@Example.com", "sup3rsecret", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %s", user.Email)
	}
	if user.DisplayName != "alice" {
		t.Fatalf("expected nickname derived from email, got %s", user.DisplayName)
	}
	if token == "" {
		t.Fatalf("expected token issued")
	}

	account, err := loyaltySvc.GetAccount(user.ID)
	if err != nil {
		t.Fatalf("get account failed: %v", err)
	}
	if account.Points != constants.LoyaltySignupBonusDefault {
		t.Fatalf("expected signup bonus %d, got %d", constants.LoyaltySignupBonusDefault, account.Points)
	}

	claims, err := svc.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := setupUserAuthServiceTest(t)

	if _, _, _, err := svc.Register("not-an-email", "sup3rsecret", ""); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if _, _, _, err := svc.Register("bob@example.com", "short", ""); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if _, _, _, err := svc.Register("bob@example.com", "sup3rsecret", ""); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, _, err := svc.Register("BOB@example.com", "sup3rsecret", ""); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists for duplicate email, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _, db := setupUserAuthServiceTest(t)
	if _, _, _, err := svc.Register("carol@example.com", "sup3rsecret", "Carol"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, token, _, err := svc.Login("carol@example.com", "sup3rsecret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" || user.LastLoginAt == nil {
		t.Fatalf("expected token and last_login_at, got token=%q last=%v", token, user.LastLoginAt)
	}

	if _, _, _, err := svc.Login("carol@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, _, err := svc.Login("nobody@example.com", "sup3rsecret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}

	if err := db.Model(&models.User{}).Where("email = ?", "carol@example.com").
		Update("status", constants.UserStatusDisabled).Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}
	if _, _, _, err := svc.Login("carol@example.com", "sup3rsecret"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("expected ErrUserDisabled, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := setupUserAuthServiceTest(t)
	user, _, _, err := svc.Register("dave@example.com", "sup3rsecret", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := svc.ChangePassword(user.ID, "wrong", "an0thersecret"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
	if err := svc.ChangePassword(user.ID, "sup3rsecret", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if err := svc.ChangePassword(user.ID, "sup3rsecret", "an0thersecret"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	if _, _, _, err := svc.Login("dave@example.com", "an0thersecret"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, _, _ := setupUserAuthServiceTest(t)
	user, _, _, err := svc.Register("erin@example.com", "sup3rsecret", "Erin")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	name := "Erin Updated"
	locale := constants.LocaleZhCN
	updated, err := svc.UpdateProfile(user.ID, &name, &locale)
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if updated.DisplayName != name || updated.Locale != locale {
		t.Fatalf("unexpected profile: %s / %s", updated.DisplayName, updated.Locale)
	}

	// 空白输入不覆盖已有资料
	blank := "   "
	updated, err = svc.UpdateProfile(user.ID, &blank, nil)
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if updated.DisplayName != name {
		t.Fatalf("expected display name kept, got %s", updated.DisplayName)
	}

	if _, err := svc.UpdateProfile(9999, &name, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
