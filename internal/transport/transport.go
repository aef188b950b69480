// Package transport abstracts how access and refresh credentials travel
// between the server and the client. The credentials are opaque strings to
// this layer; it must never inspect or transform them.
package transport

import "time"

// Credential cookie names. The __Host- prefix binds the refresh cookie to
// this host, Secure, and Path=/.
const (
	AccessCookieName  = "access_token"
	RefreshCookieName = "__Host-refresh_token"
)

// Credentials is the read/write surface for one request/response pair.
// Implementations belong to the HTTP layer and are injected into the service
// so rotation logic can be tested without a real transport.
type Credentials interface {
	// RefreshCredential returns the inbound refresh credential, if any.
	RefreshCredential() (string, bool)

	// SetRefreshCredential stores the refresh credential with an absolute
	// expiry. Storage must not be readable by client-side scripting and must
	// travel only over secure channels.
	SetRefreshCredential(value string, expiresAt time.Time)

	// ClearRefreshCredential removes the refresh credential.
	ClearRefreshCredential()

	// AccessCredential returns the inbound access credential, if any.
	AccessCredential() (string, bool)

	// SetAccessCredential stores the access credential with an absolute expiry.
	SetAccessCredential(value string, expiresAt time.Time)

	// ClearAccessCredential removes the access credential.
	ClearAccessCredential()
}
