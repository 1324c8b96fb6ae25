package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/leggal/leggal-agent/internal/adapters/storage/memory"
	"github.com/leggal/leggal-agent/internal/app/auth"
	"github.com/leggal/leggal-agent/internal/domain"
)

func newService() *auth.Service {
	return auth.NewService(memory.NewUserStore(), "test-secret", time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "ana@example.com", "senha-segura", "Ana")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected a generated user id")
	}
	if user.PasswordHash == "senha-segura" {
		t.Fatal("password must not be stored in the clear")
	}

	token, err := svc.Login(ctx, "ana@example.com", "senha-segura")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	loaded, err := svc.UserFromToken(ctx, token)
	if err != nil {
		t.Fatalf("UserFromToken failed: %v", err)
	}
	if loaded.ID != user.ID {
		t.Fatalf("token resolved to wrong user: %s", loaded.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "ana@example.com", "senha-segura", "Ana"); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if _, err := svc.Register(ctx, "ana@example.com", "outra-senha", "Ana B"); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "ana@example.com", "senha-segura", "Ana"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, err := svc.Login(ctx, "ana@example.com", "senha-errada"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "ninguem@example.com", "senha-segura"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUserFromTokenRejectsGarbage(t *testing.T) {
	svc := newService()

	for _, token := range []string{"", "abc", "a.b.c"} {
		if _, err := svc.UserFromToken(context.Background(), token); !errors.Is(err, auth.ErrInvalidToken) {
			t.Fatalf("UserFromToken(%q): expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	store := memory.NewUserStore()
	svc := auth.NewService(store, "test-secret", -time.Minute)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "ana@example.com", "senha-segura", "Ana"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	token, err := svc.Login(ctx, "ana@example.com", "senha-segura")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if _, err := svc.UserFromToken(ctx, token); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}
