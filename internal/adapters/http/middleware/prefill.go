package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"
)

// PrefillCookieName holds the opaque token for a PrefillCache entry.
const PrefillCookieName = "radioclub_prefill"

// DefaultPrefillTTL bounds how long a browser keeps its pre-filled form.
const DefaultPrefillTTL = 30 * 24 * time.Hour

// SecureCookies marks every cookie set by this package as Secure.
var SecureCookies = false

type prefillEntry struct {
	studentID string
	expires   time.Time
}

// PrefillCache remembers which student id a browser last submitted so the
// form can be shown pre-filled on the next visit.
//
// It is a convenience only: holding a token proves nothing about identity,
// and every write still goes through the name check.
type PrefillCache struct {
	mu      sync.Mutex
	entries map[string]prefillEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewPrefillCache creates an empty in-memory cache.
func NewPrefillCache(ttl time.Duration) *PrefillCache {
	if ttl <= 0 {
		ttl = DefaultPrefillTTL
	}
	return &PrefillCache{entries: make(map[string]prefillEntry), ttl: ttl, now: time.Now}
}

// Remember associates the browser with studentID, reusing its token when it has one.
// POST: the prefill cookie is set on w
func (c *PrefillCache) Remember(w http.ResponseWriter, r *http.Request, studentID string) error {
	token := ""
	if cookie, err := r.Cookie(PrefillCookieName); err == nil {
		token = cookie.Value
	}
	if !validToken(token) {
		var err error
		if token, err = generateToken(); err != nil {
			return err
		}
	}

	c.mu.Lock()
	c.entries[token] = prefillEntry{studentID: studentID, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     PrefillCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(c.ttl / time.Second),
	})
	return nil
}

// Lookup returns the remembered student id for the request's browser.
// POST: expired entries are dropped and report false
func (c *PrefillCache) Lookup(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(PrefillCookieName)
	if err != nil || !validToken(cookie.Value) {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[cookie.Value]
	if !ok {
		return "", false
	}
	if c.now().After(e.expires) {
		delete(c.entries, cookie.Value)
		return "", false
	}
	return e.studentID, true
}

// Forget drops every entry pointing at studentID, e.g. after an admin delete.
func (c *PrefillCache) Forget(studentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for token, e := range c.entries {
		if e.studentID == studentID {
			delete(c.entries, token)
		}
	}
}

// Clear drops every entry.
func (c *PrefillCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]prefillEntry)
}

func validToken(token string) bool {
	if len(token) != 64 {
		return false
	}
	_, err := hex.DecodeString(token)
	return err == nil
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
