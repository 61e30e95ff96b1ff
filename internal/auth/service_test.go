package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestRegisterStoresHashedPassword(t *testing.T) {
	repo := NewInMemoryUserRepository()
	svc := NewService(repo)

	user, err := svc.Register("Rina", "rina@example.com", "rahasia123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected generated user id")
	}
	if user.Password == "rahasia123" {
		t.Fatal("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("rahasia123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := NewInMemoryUserRepository()
	svc := NewService(repo)

	if _, err := svc.Register("Rina", "rina@example.com", "rahasia123"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register("Rina Lagi", "rina@example.com", "lainlagi"); err != ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	repo := NewInMemoryUserRepository()
	svc := NewService(repo)

	if _, err := svc.Register("Rina", "rina@example.com", "rahasia123"); err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := svc.Login("rina@example.com", "rahasia123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Email != "rina@example.com" {
		t.Fatalf("unexpected user %q", user.Email)
	}

	if _, err := svc.Login("rina@example.com", "salah"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login("tidakada@example.com", "rahasia123"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
