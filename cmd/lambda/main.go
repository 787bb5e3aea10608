// Package main is the entry point for the identity gateway Lambda function.
package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	charm "github.com/charmbracelet/log"

	"github.com/pricofy/identity-gateway/internal/config"
	"github.com/pricofy/identity-gateway/internal/domain"
	"github.com/pricofy/identity-gateway/internal/handler"
	"github.com/pricofy/identity-gateway/internal/identity"
	"github.com/pricofy/identity-gateway/internal/logging"
	"github.com/pricofy/identity-gateway/internal/warmup"
)

// gateway serves the requests of one process.
type gateway interface {
	Handle(ctx context.Context, req domain.InboundRequest) (domain.HTTPResponse, error)
	PoolResolved() bool
}

type app struct {
	gateway gateway
	warmer  *warmup.Warmer
	logger  *charm.Logger
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		charm.Fatal("Invalid configuration", "err", err)
	}

	logger := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Verbose: cfg.Verbose,
	})
	logger.Info("Cognito client", "region", cfg.Region, "environment", cfg.Environment)

	provider, err := identity.NewCognito(ctx, cfg.Region, cfg.ClientID, cfg.ClientSecret)
	if err != nil {
		logger.Fatal("Failed to create identity provider", "err", err)
	}

	// A pool that cannot be resolved is not fatal: requests answer 500.
	pool, err := identity.ResolvePool(ctx, provider, identity.SelectionFromConfig(cfg), logger)
	if err != nil {
		logger.Error("User pool not resolved", "policy", cfg.PoolSelection, "err", err)
	} else {
		logger.Info("User pool resolved", "poolId", pool.ID, "name", pool.Name, "policy", cfg.PoolSelection)
	}

	warmer, err := warmup.NewFromEnv(ctx, cfg.Region, os.Getenv("AWS_LAMBDA_FUNCTION_NAME"))
	if err != nil {
		logger.Warn("Warmup self-invocation disabled", "err", err)
		warmer = warmup.New(nil, "")
	}

	a := &app{
		gateway: handler.New(pool, provider, logger),
		warmer:  warmer,
		logger:  logger,
	}
	lambda.Start(a.handleRequest)
}

func (a *app) handleRequest(ctx context.Context, event json.RawMessage) (interface{}, error) {
	// Warmup detection (MUST be first - before any other processing)
	if w, ok := warmup.Parse(event); ok {
		return a.warmer.Handle(ctx, w, a.gateway.PoolResolved())
	}

	// Decode the API Gateway event and delegate to the handler
	in, err := decodeEvent(ctx, event)
	if err != nil {
		a.logger.Error("Unrecognised event", "err", err)
		return nil, err
	}

	resp, err := a.gateway.Handle(ctx, in.Request)
	if err != nil {
		return nil, err
	}
	return in.Encode(resp), nil
}
