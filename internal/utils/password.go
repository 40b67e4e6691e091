package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes an account password with bcrypt.  The cost comes
// from configuration so operators can raise it without a code change.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether the plain password matches the stored
// bcrypt hash.  The comparison is constant time.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
