package auth

import (
	"errors"
	"testing"

	"github.com/ayaka01/chimeo-core/internal/apierr"
)

func TestCheckPasswordStrength(t *testing.T) {
	cfg := PasswordPolicy{MinLength: 8, RequireSpecialChar: true}

	if err := CheckPasswordStrength(cfg, "short"); !errors.Is(err, apierr.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword for short password, got %v", err)
	}
	if err := CheckPasswordStrength(cfg, "longenoughbutplain"); !errors.Is(err, apierr.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword for missing special char, got %v", err)
	}
	if err := CheckPasswordStrength(cfg, "longenough!"); err != nil {
		t.Fatalf("expected strong password to pass, got %v", err)
	}
}

func TestCheckPasswordStrengthDefaults(t *testing.T) {
	cfg := PasswordPolicy{MinLength: 1, RequireSpecialChar: false}
	if err := CheckPasswordStrength(cfg, "a"); err != nil {
		t.Fatalf("expected single-char password to pass under default policy, got %v", err)
	}
}
