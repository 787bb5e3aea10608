package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"

	"github.com/pricofy/identity-gateway/internal/domain"
)

var errUnknownEvent = errors.New("event is neither an API Gateway REST nor an HTTP API request")

// inboundEvent is a decoded API Gateway event together with the
// encoder producing the matching response shape.
type inboundEvent struct {
	Request domain.InboundRequest
	Encode  func(domain.HTTPResponse) interface{}
}

// decodeEvent accepts REST API (v1) and HTTP API / Function URL (v2) payloads.
func decodeEvent(ctx context.Context, raw json.RawMessage) (*inboundEvent, error) {
	var probe struct {
		Version        string `json:"version"`
		HTTPMethod     string `json:"httpMethod"`
		RequestContext struct {
			HTTP struct {
				Method string `json:"method"`
			} `json:"http"`
		} `json:"requestContext"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse event: %w", err)
	}

	switch {
	case probe.Version == "2.0" || probe.RequestContext.HTTP.Method != "":
		var ev events.APIGatewayV2HTTPRequest
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, fmt.Errorf("failed to parse HTTP API event: %w", err)
		}
		body := eventBody(ev.Body, ev.IsBase64Encoded)
		return &inboundEvent{
			Request: domain.InboundRequest{
				Method:    ev.RequestContext.HTTP.Method,
				Body:      body,
				RequestID: requestID(ctx, ev.RequestContext.RequestID),
			},
			Encode: func(r domain.HTTPResponse) interface{} {
				return events.APIGatewayV2HTTPResponse{
					StatusCode: r.StatusCode,
					Headers:    r.Headers,
					Body:       r.Body,
				}
			},
		}, nil

	case probe.HTTPMethod != "":
		var ev events.APIGatewayProxyRequest
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, fmt.Errorf("failed to parse REST API event: %w", err)
		}
		body := eventBody(ev.Body, ev.IsBase64Encoded)
		return &inboundEvent{
			Request: domain.InboundRequest{
				Method:    ev.HTTPMethod,
				Body:      body,
				RequestID: requestID(ctx, ev.RequestContext.RequestID),
			},
			Encode: func(r domain.HTTPResponse) interface{} {
				return events.APIGatewayProxyResponse{
					StatusCode: r.StatusCode,
					Headers:    r.Headers,
					Body:       r.Body,
				}
			},
		}, nil
	}

	return nil, errUnknownEvent
}

// eventBody returns the raw body bytes. An undecodable base64 body is
// treated as absent so that the gateway answers 400.
func eventBody(body string, isBase64 bool) []byte {
	if body == "" {
		return nil
	}
	if !isBase64 {
		return []byte(body)
	}
	decoded, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil
	}
	return decoded
}

// requestID prefers the API Gateway id and falls back to the Lambda one.
func requestID(ctx context.Context, fromEvent string) string {
	if fromEvent != "" {
		return fromEvent
	}
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		return lc.AwsRequestID
	}
	return ""
}
