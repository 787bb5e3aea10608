// Package handler provides the request handler for the identity gateway.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	charm "github.com/charmbracelet/log"

	"github.com/pricofy/identity-gateway/internal/domain"
	"github.com/pricofy/identity-gateway/internal/identity"
	"github.com/pricofy/identity-gateway/internal/logging"
	"github.com/pricofy/identity-gateway/internal/router"
)

// IdentityProvider is the subset of the identity provider used per request.
type IdentityProvider interface {
	GetUser(ctx context.Context, poolID, username string) (domain.UserStatus, error)
	InitiateAuth(ctx context.Context, poolID, username, password string) (domain.AuthOutcome, error)
}

// Handler serves gateway requests against a single user pool.
// It holds no mutable state and is safe for concurrent use.
type Handler struct {
	pool     *domain.Pool
	provider IdentityProvider
	logger   *charm.Logger
}

// New creates a Handler. A nil pool makes every request fail with 500.
func New(pool *domain.Pool, provider IdentityProvider, logger *charm.Logger) *Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Handler{
		pool:     pool,
		provider: provider,
		logger:   logger,
	}
}

// PoolResolved reports whether the handler has an active pool.
func (h *Handler) PoolResolved() bool {
	return h.pool != nil
}

// Handle processes one request.
// Provider failures are returned as errors and left to the runtime.
func (h *Handler) Handle(ctx context.Context, req domain.InboundRequest) (domain.HTTPResponse, error) {
	log, _ := logging.ForRequest(h.logger, req.RequestID)

	if h.pool == nil {
		log.Error("Rejecting request", "err", domain.ErrPoolNotResolved)
		return textResponse(http.StatusInternalServerError, domain.ErrPoolNotResolved), nil
	}

	intent := router.Route(req.Method)
	if intent == router.Unsupported {
		log.Warn("Rejecting request", "method", req.Method, "err", domain.ErrUnsupportedMethod)
		return domain.HTTPResponse{StatusCode: http.StatusMethodNotAllowed, Headers: map[string]string{
			"Allow": strings.Join(router.SupportedMethods(), ", "),
		}}, nil
	}

	payload, err := decodePayload(req.Body, intent)
	if err != nil {
		log.Warn("Rejecting request", "intent", intent, "err", err)
		return textResponse(http.StatusBadRequest, err), nil
	}
	log = log.With("intent", intent, "username", payload.Username)

	switch intent {
	case router.ReadUser:
		status, err := h.provider.GetUser(ctx, h.pool.ID, payload.Username)
		if err != nil {
			log.Error("Identity provider call failed", "code", identity.ErrorCode(err), "err", err)
			return domain.HTTPResponse{}, err
		}
		log.Info("User read", "enabled", status.Enabled, "status", status.Status)
		return jsonResponse(domain.UserStatusResponse{
			PoolID:      h.pool.ID,
			UserEnabled: status.Enabled,
			UserStatus:  status.Status,
		})

	default:
		outcome, err := h.provider.InitiateAuth(ctx, h.pool.ID, payload.Username, *payload.Password)
		if err != nil {
			log.Error("Identity provider call failed", "code", identity.ErrorCode(err), "err", err)
			return domain.HTTPResponse{}, err
		}
		log.Info("Authentication attempted", "authenticated", outcome.Result != nil, "challenge", outcome.ChallengeName)
		return jsonResponse(domain.AuthResponse{
			AuthResult:    outcome.Result,
			ChallengeName: outcome.ChallengeName,
			Session:       outcome.Session,
		})
	}
}

// decodePayload parses and validates the body for the given intent.
// The returned error is one of the client-facing domain sentinels.
func decodePayload(body []byte, intent router.Intent) (domain.AuthenticationPayload, error) {
	var payload domain.AuthenticationPayload
	if len(strings.TrimSpace(string(body))) == 0 {
		return payload, domain.ErrPayloadMissing
	}

	var raw *domain.AuthenticationPayload
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return payload, domain.ErrPayloadMissing
	}
	payload = *raw

	if strings.TrimSpace(payload.Username) == "" {
		return payload, domain.ErrUsernameMissing
	}
	if intent.RequiresPassword() && (payload.Password == nil || *payload.Password == "") {
		return payload, domain.ErrPasswordMissing
	}
	return payload, nil
}

func textResponse(status int, err error) domain.HTTPResponse {
	return domain.HTTPResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "text/plain"},
		Body:       diagnostic(err),
	}
}

// diagnostic returns the fixed body for a client-facing sentinel.
func diagnostic(err error) string {
	for _, sentinel := range []error{
		domain.ErrPoolNotResolved,
		domain.ErrPayloadMissing,
		domain.ErrUsernameMissing,
		domain.ErrPasswordMissing,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return http.StatusText(http.StatusInternalServerError)
}

func jsonResponse(v interface{}) (domain.HTTPResponse, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return domain.HTTPResponse{}, err
	}
	return domain.HTTPResponse{
		StatusCode: http.StatusOK,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}, nil
}
