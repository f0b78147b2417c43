package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns a bcrypt hash of the supplied password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares the hashed password with the plaintext candidate.
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// GenerateToken returns a random URL-safe token of the requested byte length.
func GenerateToken(length int) (string, error) {
	buffer := make([]byte, length)
	if _, err := rand.Read(buffer); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buffer), nil
}

// GenerateOTP returns a random numeric code with the requested number of
// digits. The first digit is never zero so the code keeps its width when
// rendered in an email.
func GenerateOTP(digits int) (string, error) {
	if digits < 1 {
		return "", fmt.Errorf("otp: digits must be positive, got %d", digits)
	}

	min := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits-1)), nil)
	max := new(big.Int).Mul(min, big.NewInt(9))

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}

	return n.Add(n, min).String(), nil
}
