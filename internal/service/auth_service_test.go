package service

import (
	"astrohunt/internal/model"
	"context"
	"errors"
	"testing"
)

func TestRegisterAndLogin(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users, "test-secret")
	ctx := context.Background()

	resp, err := svc.Register(ctx, "Ada", "ada@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.Token == "" || resp.UserID == "" {
		t.Fatal("expected a token and user id on registration")
	}
	if resp.Role != model.RolePlayer {
		t.Errorf("expected new accounts to be players, got %q", resp.Role)
	}

	stored, _ := users.GetByID(ctx, resp.UserID)
	if stored.PasswordHash == "hunter22" {
		t.Error("password stored in plaintext")
	}

	if _, err := svc.Register(ctx, "Ada Again", "ada@example.com", "other"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	login, err := svc.Login(ctx, "ada@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.UserID != resp.UserID {
		t.Error("login resolved a different user")
	}

	if _, err := svc.Login(ctx, "ada@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestValidateToken(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users, "test-secret")

	token, err := svc.GenerateToken("user-1", model.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != model.RoleAdmin {
		t.Errorf("unexpected claims %+v", claims)
	}

	if _, err := svc.ValidateToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token: expected ErrInvalidToken, got %v", err)
	}

	other := NewAuthService(users, "different-secret")
	if _, err := other.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong secret: expected ErrInvalidToken, got %v", err)
	}
}
