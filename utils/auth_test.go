package utils

import (
	"testing"
	"time"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("password stored in plaintext")
	}
	if !CheckPasswordHash("correct horse battery staple", hash) {
		t.Error("correct password rejected")
	}
	if CheckPasswordHash("wrong password", hash) {
		t.Error("wrong password accepted")
	}
}

func TestGenerateAuthToken(t *testing.T) {
	a, b := GenerateAuthToken(), GenerateAuthToken()
	if len(a) != 40 {
		t.Errorf("token length = %d, want 40", len(a))
	}
	if a == b {
		t.Error("two generated tokens are identical")
	}
}

func TestLinkTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "link-token-test-secret")

	token, err := SignLinkToken("person@example.com", PurposeEmailValidation, time.Hour)
	if err != nil {
		t.Fatalf("SignLinkToken: %v", err)
	}

	email, err := ParseLinkToken(token, PurposeEmailValidation)
	if err != nil {
		t.Fatalf("ParseLinkToken: %v", err)
	}
	if email != "person@example.com" {
		t.Errorf("email = %q, want %q", email, "person@example.com")
	}
}

func TestLinkTokenWrongPurpose(t *testing.T) {
	t.Setenv("JWT_SECRET", "link-token-test-secret")

	token, err := SignLinkToken("person@example.com", PurposeEmailValidation, time.Hour)
	if err != nil {
		t.Fatalf("SignLinkToken: %v", err)
	}
	if _, err := ParseLinkToken(token, PurposePasswordReset); err == nil {
		t.Error("validation token accepted as a password reset token")
	}
}

func TestLinkTokenExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", "link-token-test-secret")

	token, err := SignLinkToken("person@example.com", PurposePasswordReset, -time.Minute)
	if err != nil {
		t.Fatalf("SignLinkToken: %v", err)
	}
	if _, err := ParseLinkToken(token, PurposePasswordReset); err == nil {
		t.Error("expired token accepted")
	}
}

func TestLinkTokenGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "link-token-test-secret")

	if _, err := ParseLinkToken("not-a-token", PurposeEmailValidation); err == nil {
		t.Error("garbage token accepted")
	}
}
