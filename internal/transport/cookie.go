package transport

import (
	"net/http"
	"time"
)

// CookieOptions defines how credential cookies are issued.
type CookieOptions struct {
	Path     string
	Domain   string // must stay empty for __Host- cookies
	Secure   bool
	SameSite http.SameSite
}

// normalize applies safe defaults without breaking callers.
func (o CookieOptions) normalize() CookieOptions {
	if o.Path == "" {
		o.Path = "/" // required for __Host-
	}
	if o.SameSite == 0 {
		o.SameSite = http.SameSiteStrictMode
	}
	return o
}

// CookieCredentials implements Credentials over an HTTP request/response
// pair. Both cookies are always HttpOnly.
type CookieCredentials struct {
	w    http.ResponseWriter
	r    *http.Request
	opts CookieOptions
}

func NewCookieCredentials(w http.ResponseWriter, r *http.Request, opts CookieOptions) *CookieCredentials {
	return &CookieCredentials{w: w, r: r, opts: opts.normalize()}
}

func (c *CookieCredentials) RefreshCredential() (string, bool) {
	return c.read(RefreshCookieName)
}

func (c *CookieCredentials) SetRefreshCredential(value string, expiresAt time.Time) {
	c.write(RefreshCookieName, value, expiresAt)
}

func (c *CookieCredentials) ClearRefreshCredential() {
	c.clear(RefreshCookieName)
}

func (c *CookieCredentials) AccessCredential() (string, bool) {
	return c.read(AccessCookieName)
}

func (c *CookieCredentials) SetAccessCredential(value string, expiresAt time.Time) {
	c.write(AccessCookieName, value, expiresAt)
}

func (c *CookieCredentials) ClearAccessCredential() {
	c.clear(AccessCookieName)
}

func (c *CookieCredentials) read(name string) (string, bool) {
	cookie, err := c.r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (c *CookieCredentials) write(name, value string, expiresAt time.Time) {
	http.SetCookie(c.w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     c.opts.Path,
		Domain:   c.opts.Domain,
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   c.opts.Secure,
		SameSite: c.opts.SameSite,
	})
}

func (c *CookieCredentials) clear(name string) {
	http.SetCookie(c.w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     c.opts.Path,
		Domain:   c.opts.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.opts.Secure,
		SameSite: c.opts.SameSite,
	})
}
