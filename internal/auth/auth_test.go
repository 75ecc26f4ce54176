package auth

import (
	"errors"
	"testing"
	"time"
)

func newHMAC(secret string) *Authenticator {
	return &Authenticator{
		Mode:       "hmac",
		HMACSecret: []byte(secret),
		TTL:        time.Hour,
		now:        time.Now,
	}
}

func TestHMACRoundTrip(t *testing.T) {
	a := newHMAC("sekrit")
	token, err := a.IssueToken("asha")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	p, err := a.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if p.Username != "asha" {
		t.Fatalf("principal %+v", p)
	}
}

func TestHMACRejectsTampering(t *testing.T) {
	a := newHMAC("sekrit")
	token, _ := a.IssueToken("asha")

	other := newHMAC("different")
	if _, err := other.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong secret: %v", err)
	}
	if _, err := a.Verify(token + "x"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("mangled signature: %v", err)
	}
	if _, err := a.Verify("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage token: %v", err)
	}
}

func TestHMACExpiry(t *testing.T) {
	a := newHMAC("sekrit")
	token, _ := a.IssueToken("asha")

	a.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := a.Verify(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expired token: %v", err)
	}
}

func TestDevTokens(t *testing.T) {
	a := &Authenticator{Mode: "dev", now: time.Now}
	token, err := a.IssueToken("asha")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	p, err := a.Verify(token)
	if err != nil || p.Username != "asha" {
		t.Fatalf("Verify: %+v %v", p, err)
	}
	if _, err := a.Verify("asha"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("unprefixed token: %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("password stored in the clear")
	}
	if !CheckPassword(hash, "hunter2") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "hunter3") {
		t.Fatal("wrong password accepted")
	}
}
