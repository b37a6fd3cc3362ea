package security

import (
	"errors"
	"testing"
	"time"
)

func TestClientTokenRoundTrip(t *testing.T) {
	token, errGen := GenerateClientToken("secret", "sub-1", "c@example.com", time.Hour)
	if errGen != nil {
		t.Fatalf("generate: %v", errGen)
	}

	claims, errParse := ParseClientToken("secret", token)
	if errParse != nil {
		t.Fatalf("parse: %v", errParse)
	}
	if claims.Subject != "sub-1" || claims.Email != "c@example.com" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestClientTokenRejectsWrongSecret(t *testing.T) {
	token, errGen := GenerateClientToken("secret", "sub-1", "c@example.com", time.Hour)
	if errGen != nil {
		t.Fatalf("generate: %v", errGen)
	}
	if _, errParse := ParseClientToken("other", token); !errors.Is(errParse, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", errParse)
	}
}

func TestClientTokenExpiry(t *testing.T) {
	token, errGen := GenerateClientToken("secret", "sub-1", "c@example.com", -time.Minute)
	if errGen != nil {
		t.Fatalf("generate: %v", errGen)
	}
	if _, errParse := ParseClientToken("secret", token); !errors.Is(errParse, ErrExpiredToken) {
		t.Fatalf("expected expired token, got %v", errParse)
	}
}

func TestAdminTokenRoundTrip(t *testing.T) {
	token, errGen := GenerateAdminToken("secret", 7, "root", time.Hour)
	if errGen != nil {
		t.Fatalf("generate: %v", errGen)
	}
	claims, errParse := ParseAdminToken("secret", token)
	if errParse != nil {
		t.Fatalf("parse: %v", errParse)
	}
	if claims.AdminID != 7 || claims.Username != "root" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestAdminTokenNotValidAsClientToken(t *testing.T) {
	token, errGen := GenerateAdminToken("secret", 7, "root", time.Hour)
	if errGen != nil {
		t.Fatalf("generate: %v", errGen)
	}
	if _, errParse := ParseClientToken("secret", token); !errors.Is(errParse, ErrInvalidToken) {
		t.Fatalf("expected invalid token for missing subject, got %v", errParse)
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, errHash := HashPassword("hunter22")
	if errHash != nil {
		t.Fatalf("hash: %v", errHash)
	}
	if !CheckPassword(hash, "hunter22") {
		t.Fatal("expected password to verify")
	}
	if CheckPassword(hash, "hunter23") {
		t.Fatal("expected wrong password to fail")
	}
}
