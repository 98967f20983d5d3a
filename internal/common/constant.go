package common

// AuthorizationHeaderName is the HTTP header carrying the session token.
const AuthorizationHeaderName = "Authorization"

// BearerTokenType is both the Authorization scheme and the token_type
// returned from login.
const BearerTokenType = "bearer"
