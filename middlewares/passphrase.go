package middlewares

import (
	"crypto/subtle"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// Authorizer decides whether a presented credential may run imports. The
// shared-passphrase scheme is deliberately behind an interface so it can be
// swapped for per-caller credentials without touching the handlers.
type Authorizer interface {
	Authorize(credential string) bool
}

// StaticPassphraseAuthorizer compares against a single shared secret in
// constant time.
type StaticPassphraseAuthorizer struct {
	passphrase string
}

func NewStaticPassphraseAuthorizer(passphrase string) *StaticPassphraseAuthorizer {
	return &StaticPassphraseAuthorizer{passphrase: passphrase}
}

func (a *StaticPassphraseAuthorizer) Authorize(credential string) bool {
	if a.passphrase == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a.passphrase), []byte(credential)) == 1
}

// BcryptPassphraseAuthorizer checks against a bcrypt hash so the plaintext
// secret never has to live in the environment.
type BcryptPassphraseAuthorizer struct {
	hash string
}

func NewBcryptPassphraseAuthorizer(hash string) *BcryptPassphraseAuthorizer {
	return &BcryptPassphraseAuthorizer{hash: hash}
}

func (a *BcryptPassphraseAuthorizer) Authorize(credential string) bool {
	if a.hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(a.hash), []byte(credential)) == nil
}

// AuthorizerFromEnv picks the bcrypt authorizer when PASSPHRASE_BCRYPT is
// set, else the plain PASSPHRASE comparison.
func AuthorizerFromEnv() Authorizer {
	if hash := strings.TrimSpace(os.Getenv("PASSPHRASE_BCRYPT")); hash != "" {
		return NewBcryptPassphraseAuthorizer(hash)
	}
	return NewStaticPassphraseAuthorizer(os.Getenv("PASSPHRASE"))
}

// PassphraseMiddleware rejects unauthorized requests with 403 before any
// file processing begins. The credential travels in the X-Passphrase header
// or, for plain form posts, the passphrase form field.
func PassphraseMiddleware(authorizer Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential := strings.TrimSpace(c.GetHeader("X-Passphrase"))
		if credential == "" {
			credential = strings.TrimSpace(c.PostForm("passphrase"))
		}
		if !authorizer.Authorize(credential) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid passphrase"})
			return
		}
		c.Next()
	}
}
