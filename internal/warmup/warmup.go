// Package warmup keeps Lambda instances warm so that pool resolution,
// which runs once per instance, stays off the request path.
// Scheduled events trigger it periodically.
package warmup

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"golang.org/x/sync/errgroup"
)

const (
	// Source identifies warmup events.
	Source = "warmup"

	// Delay ensures instances overlap to create true concurrency.
	Delay = 75 * time.Millisecond

	// MaxConcurrency caps self-invocations per warmup event.
	MaxConcurrency = 50
)

// Event is the scheduled event payload for warmup.
type Event struct {
	Source      string `json:"source"`
	Concurrency int    `json:"concurrency"`
}

// Response is the body returned by warmup operations.
type Response struct {
	Status          string `json:"status"`
	InstancesWarmed int    `json:"instancesWarmed"`
	PoolResolved    bool   `json:"poolResolved"`
}

// Result is what the Lambda returns for a warmup event.
type Result struct {
	StatusCode int      `json:"statusCode"`
	Body       Response `json:"body"`
}

// Invoker is the subset of the Lambda client used for self-invocation.
type Invoker interface {
	Invoke(ctx context.Context, params *lambdasdk.InvokeInput, optFns ...func(*lambdasdk.Options)) (*lambdasdk.InvokeOutput, error)
}

// Parse reports whether event is a warmup event.
// Concurrency is optional and defaults to 0.
func Parse(event json.RawMessage) (*Event, bool) {
	var probe struct {
		Source      string  `json:"source"`
		Concurrency float64 `json:"concurrency"`
	}
	if err := json.Unmarshal(event, &probe); err != nil {
		return nil, false
	}
	if probe.Source != Source {
		return nil, false
	}
	return &Event{Source: probe.Source, Concurrency: int(probe.Concurrency)}, true
}

// Warmer answers warmup events.
type Warmer struct {
	invoker      Invoker
	functionName string
	delay        time.Duration
}

// New creates a Warmer. A nil invoker disables self-invocation.
func New(invoker Invoker, functionName string) *Warmer {
	return &Warmer{invoker: invoker, functionName: functionName, delay: Delay}
}

// NewFromEnv creates a Warmer invoking the current function by name.
func NewFromEnv(ctx context.Context, region, functionName string) (*Warmer, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return New(lambdasdk.NewFromConfig(cfg), functionName), nil
}

// Handle processes a warmup event and optionally self-invokes
// to maintain multiple warm instances.
func (w *Warmer) Handle(ctx context.Context, event *Event, poolResolved bool) (*Result, error) {
	instancesWarmed := 1 // this instance

	count := event.Concurrency
	if count > MaxConcurrency {
		count = MaxConcurrency
	}
	if count > 0 && w.invoker != nil && w.functionName != "" {
		if err := w.selfInvoke(ctx, count); err == nil {
			instancesWarmed += count
		}
	}

	time.Sleep(w.delay)

	return &Result{
		StatusCode: http.StatusOK,
		Body: Response{
			Status:          "warm",
			InstancesWarmed: instancesWarmed,
			PoolResolved:    poolResolved,
		},
	}, nil
}

// selfInvoke invokes this function count times asynchronously.
func (w *Warmer) selfInvoke(ctx context.Context, count int) error {
	// Children get concurrency 0 so they don't recurse.
	payload, err := json.Marshal(Event{Source: Source, Concurrency: 0})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < count; i++ {
		g.Go(func() error {
			_, err := w.invoker.Invoke(gctx, &lambdasdk.InvokeInput{
				FunctionName:   aws.String(w.functionName),
				InvocationType: types.InvocationTypeEvent,
				Payload:        payload,
			})
			return err
		})
	}
	return g.Wait()
}
