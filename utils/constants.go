// File: utils/constants.go
package utils

// ClientCookieName carries the signed browser-session token.
const ClientCookieName = "hg_client"

// ClientTokenHeader is accepted in place of the cookie for non-browser clients.
const ClientTokenHeader = "X-Client-Token"

// ClientIDKey is the gin context key holding the browser-session id.
const ClientIDKey = "clientID"

// RequestIDHeader is echoed on every response.
const RequestIDHeader = "X-Request-ID"
