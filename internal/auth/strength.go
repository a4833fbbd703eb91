package auth

import (
	"fmt"
	"strings"

	"github.com/ayaka01/chimeo-core/internal/apierr"
)

// PasswordPolicy configures password-strength enforcement at registration.
// Documented defaults: MinLength 1, RequireSpecialChar false.
type PasswordPolicy struct {
	MinLength          int
	RequireSpecialChar bool
}

const specialChars = "!@#$%^&*()-_=+[]{};:'\",.<>/?\\|`~"

// CheckPasswordStrength validates plain against cfg, returning
// apierr.ErrWeakPassword wrapping the violated rule on failure.
func CheckPasswordStrength(cfg PasswordPolicy, plain string) error {
	if len(plain) < cfg.MinLength {
		return fmt.Errorf("%w: password must be at least %d characters", apierr.ErrWeakPassword, cfg.MinLength)
	}
	if cfg.RequireSpecialChar && !strings.ContainsAny(plain, specialChars) {
		return fmt.Errorf("%w: password must contain a special character", apierr.ErrWeakPassword)
	}
	return nil
}
