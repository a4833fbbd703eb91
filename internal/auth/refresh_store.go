package auth

// HashRefreshToken and VerifyRefreshToken reuse the adaptive password hash
// for refresh-token-at-rest storage, so a leaked database dump never exposes
// usable refresh tokens directly.
func HashRefreshToken(cleartext string) (string, error) {
	return HashPassword(cleartext)
}

func VerifyRefreshToken(cleartext, hash string) bool {
	return VerifyPassword(cleartext, hash)
}
