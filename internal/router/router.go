// Package router maps inbound HTTP methods to gateway intents.
package router

import (
	"net/http"
	"strings"
)

// Intent is what the caller wants the gateway to do.
type Intent int

const (
	// Unsupported is any method the gateway does not serve.
	Unsupported Intent = iota
	// ReadUser fetches the status of a user in the active pool.
	ReadUser
	// Authenticate runs the username/password flow.
	Authenticate
)

// routes is the method table. GET reads, POST authenticates.
var routes = map[string]Intent{
	http.MethodGet:  ReadUser,
	http.MethodPost: Authenticate,
}

// Route returns the intent for an HTTP method. Matching is case-insensitive.
func Route(method string) Intent {
	if intent, ok := routes[strings.ToUpper(strings.TrimSpace(method))]; ok {
		return intent
	}
	return Unsupported
}

// RequiresPassword reports whether the intent needs a password in the payload.
func (i Intent) RequiresPassword() bool {
	return i == Authenticate
}

// SupportedMethods returns the methods that map to a served intent.
func SupportedMethods() []string {
	return []string{http.MethodGet, http.MethodPost}
}

func (i Intent) String() string {
	switch i {
	case ReadUser:
		return "read-user"
	case Authenticate:
		return "authenticate"
	default:
		return "unsupported"
	}
}
