// Package common contains shared constants and sentinel errors used across
// Chemizer client components.
package common

// TokenScheme is the Authorization scheme the Chemizer API expects,
// i.e. "Authorization: Token <key>".
const TokenScheme = "Token"

// RequestIDHeader carries the client-generated request id attached to every
// outbound call for log correlation.
const RequestIDHeader = "X-Request-Id"

// Keys in the local state table.
const (
	SessionStateKey       = "session"
	CurrentUploadStateKey = "current_upload"
)
