// Package domain contains the core domain types for the identity gateway.
package domain

import "time"

// Pool is the user pool every request is served against.
// It is resolved once at process start and never modified afterwards.
type Pool struct {
	ID   string
	Name string
}

// InboundRequest is the transport-independent view of an HTTP-triggered event.
type InboundRequest struct {
	Method    string
	Body      []byte
	RequestID string
}

// AuthenticationPayload is the JSON body accepted by the gateway.
type AuthenticationPayload struct {
	Username string  `json:"username"`
	Password *string `json:"password,omitempty"`
}

// UserStatus is the snapshot returned when reading a user.
type UserStatus struct {
	Enabled bool
	Status  string
}

// AuthResult holds the tokens issued once authentication completes.
type AuthResult struct {
	AccessToken  string `json:"access-token,omitempty"`
	IDToken      string `json:"id-token,omitempty"`
	RefreshToken string `json:"refresh-token,omitempty"`
	TokenType    string `json:"token-type,omitempty"`
	ExpiresIn    int32  `json:"expires-in,omitempty"`
}

// AuthOutcome is the result of an authentication attempt.
// Result is nil when the provider answers with a challenge instead.
type AuthOutcome struct {
	Result        *AuthResult
	ChallengeName string
	Session       string
}

// UserPool describes one pool as reported by the identity provider.
type UserPool struct {
	ID               string
	Name             string
	Status           string
	CreationDate     time.Time
	LastModifiedDate time.Time
}

// UserPoolPage is a single page of a pool listing.
type UserPoolPage struct {
	Pools     []UserPool
	NextToken string
}

// HTTPResponse is the transport-independent response produced by the gateway.
type HTTPResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       string
}

// UserStatusResponse is the body returned for a user lookup.
type UserStatusResponse struct {
	PoolID      string `json:"pool-id"`
	UserEnabled bool   `json:"user-enabled"`
	UserStatus  string `json:"user-status"`
}

// AuthResponse is the body returned for an authentication attempt.
type AuthResponse struct {
	AuthResult    *AuthResult `json:"auth-result"`
	ChallengeName string      `json:"challenge-name"`
	Session       string      `json:"session"`
}
