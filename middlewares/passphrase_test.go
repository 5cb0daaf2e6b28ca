package middlewares

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestStaticPassphraseAuthorizer(t *testing.T) {
	a := NewStaticPassphraseAuthorizer("open sesame")
	if !a.Authorize("open sesame") {
		t.Fatal("correct passphrase rejected")
	}
	if a.Authorize("wrong") {
		t.Fatal("wrong passphrase accepted")
	}
	if a.Authorize("") {
		t.Fatal("empty credential accepted")
	}
}

func TestStaticPassphraseAuthorizerEmptySecretDeniesAll(t *testing.T) {
	a := NewStaticPassphraseAuthorizer("")
	if a.Authorize("") || a.Authorize("anything") {
		t.Fatal("unset secret must deny everything")
	}
}

func TestBcryptPassphraseAuthorizer(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("open sesame"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	a := NewBcryptPassphraseAuthorizer(string(hash))
	if !a.Authorize("open sesame") {
		t.Fatal("correct passphrase rejected")
	}
	if a.Authorize("wrong") {
		t.Fatal("wrong passphrase accepted")
	}
}
