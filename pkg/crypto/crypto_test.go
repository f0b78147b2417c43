package crypto

import (
	"strconv"
	"testing"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}

	if !VerifyPassword(hash, "secret") {
		t.Fatal("expected password verification to succeed")
	}

	if VerifyPassword(hash, "incorrect") {
		t.Fatal("expected password verification to fail")
	}
}

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken(32)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	if len(token) == 0 {
		t.Fatal("expected token to be non-empty")
	}
}

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateOTP(4)
		if err != nil {
			t.Fatalf("otp error: %v", err)
		}

		if len(code) != 4 {
			t.Fatalf("expected 4 digits, got %q", code)
		}

		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("expected numeric code, got %q", code)
		}
		if n < 1000 || n > 9999 {
			t.Fatalf("code out of range: %d", n)
		}
	}
}

func TestGenerateOTPRejectsZeroDigits(t *testing.T) {
	if _, err := GenerateOTP(0); err == nil {
		t.Fatal("expected error for zero digits")
	}
}
