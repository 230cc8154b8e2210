package session

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"strings"
)

// CookieName is the name of the session cookie.
const CookieName = "steelcalc_session"

// Signer signs and verifies session cookie values.
type Signer struct {
	secret []byte
}

// NewSigner returns a Signer for secret. An empty secret is replaced with a
// random one, so cookies do not survive a restart.
func NewSigner(secret string) *Signer {
	if secret == "" {
		b := make([]byte, 32)
		_, _ = rand.Read(b)
		return &Signer{secret: b}
	}
	return &Signer{secret: []byte(secret)}
}

// Sign returns the cookie value for a session id.
func (s *Signer) Sign(id string) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(id))
	return payload + "." + hex.EncodeToString(s.mac(payload))
}

// Verify returns the session id carried by a signed cookie value.
func (s *Signer) Verify(value string) (string, bool) {
	payload, signature, ok := strings.Cut(value, ".")
	if !ok || strings.Contains(signature, ".") {
		return "", false
	}

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return "", false
	}
	if !hmac.Equal(provided, s.mac(payload)) {
		return "", false
	}

	decoded, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil || len(decoded) == 0 {
		return "", false
	}
	return string(decoded), true
}

func (s *Signer) mac(payload string) []byte {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(payload))
	return mac.Sum(nil)
}

// SetCookie writes the signed session cookie.
func (s *Signer) SetCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.Sign(id),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func (s *Signer) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest returns the verified session id of r, if any.
func (s *Signer) FromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	return s.Verify(cookie.Value)
}
