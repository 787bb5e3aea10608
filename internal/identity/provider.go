// Package identity adapts the Cognito user pool API to the gateway.
package identity

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"

	"github.com/pricofy/identity-gateway/internal/domain"
)

// Provider is the identity-provider capability used by the gateway.
type Provider interface {
	ListUserPools(ctx context.Context, maxResults int32, nextToken string) (domain.UserPoolPage, error)
	GetUser(ctx context.Context, poolID, username string) (domain.UserStatus, error)
	InitiateAuth(ctx context.Context, poolID, username, password string) (domain.AuthOutcome, error)
}

// cognitoAPI is the subset of the Cognito client used here.
type cognitoAPI interface {
	ListUserPools(ctx context.Context, params *cip.ListUserPoolsInput, optFns ...func(*cip.Options)) (*cip.ListUserPoolsOutput, error)
	AdminGetUser(ctx context.Context, params *cip.AdminGetUserInput, optFns ...func(*cip.Options)) (*cip.AdminGetUserOutput, error)
	AdminInitiateAuth(ctx context.Context, params *cip.AdminInitiateAuthInput, optFns ...func(*cip.Options)) (*cip.AdminInitiateAuthOutput, error)
}

// Cognito implements Provider against a Cognito user pool app client.
type Cognito struct {
	client       cognitoAPI
	clientID     string
	clientSecret string
}

// NewCognito creates a Cognito provider for the given region.
// Credentials come from the default AWS chain.
func NewCognito(ctx context.Context, region, clientID, clientSecret string) (*Cognito, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return newCognito(cip.NewFromConfig(cfg), clientID, clientSecret), nil
}

func newCognito(client cognitoAPI, clientID, clientSecret string) *Cognito {
	return &Cognito{
		client:       client,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// ListUserPools returns one page of user pools.
func (c *Cognito) ListUserPools(ctx context.Context, maxResults int32, nextToken string) (domain.UserPoolPage, error) {
	input := &cip.ListUserPoolsInput{MaxResults: aws.Int32(maxResults)}
	if nextToken != "" {
		input.NextToken = aws.String(nextToken)
	}

	out, err := c.client.ListUserPools(ctx, input)
	if err != nil {
		return domain.UserPoolPage{}, fmt.Errorf("failed to list user pools: %w", err)
	}

	page := domain.UserPoolPage{
		Pools:     make([]domain.UserPool, 0, len(out.UserPools)),
		NextToken: aws.ToString(out.NextToken),
	}
	for _, p := range out.UserPools {
		page.Pools = append(page.Pools, domain.UserPool{
			ID:               aws.ToString(p.Id),
			Name:             aws.ToString(p.Name),
			Status:           string(p.Status),
			CreationDate:     aws.ToTime(p.CreationDate),
			LastModifiedDate: aws.ToTime(p.LastModifiedDate),
		})
	}
	return page, nil
}

// GetUser returns the enabled flag and status of a user.
func (c *Cognito) GetUser(ctx context.Context, poolID, username string) (domain.UserStatus, error) {
	out, err := c.client.AdminGetUser(ctx, &cip.AdminGetUserInput{
		UserPoolId: aws.String(poolID),
		Username:   aws.String(username),
	})
	if err != nil {
		return domain.UserStatus{}, fmt.Errorf("failed to get user: %w", err)
	}
	return domain.UserStatus{
		Enabled: out.Enabled,
		Status:  string(out.UserStatus),
	}, nil
}

// InitiateAuth runs the admin username/password flow.
func (c *Cognito) InitiateAuth(ctx context.Context, poolID, username, password string) (domain.AuthOutcome, error) {
	params := map[string]string{
		"USERNAME": username,
		"PASSWORD": password,
	}
	if c.clientSecret != "" {
		params["SECRET_HASH"] = SecretHash(username, c.clientID, c.clientSecret)
	}

	out, err := c.client.AdminInitiateAuth(ctx, &cip.AdminInitiateAuthInput{
		AuthFlow:       types.AuthFlowTypeAdminUserPasswordAuth,
		ClientId:       aws.String(c.clientID),
		UserPoolId:     aws.String(poolID),
		AuthParameters: params,
	})
	if err != nil {
		return domain.AuthOutcome{}, fmt.Errorf("failed to initiate auth: %w", err)
	}

	outcome := domain.AuthOutcome{
		ChallengeName: string(out.ChallengeName),
		Session:       aws.ToString(out.Session),
	}
	if r := out.AuthenticationResult; r != nil {
		outcome.Result = &domain.AuthResult{
			AccessToken:  aws.ToString(r.AccessToken),
			IDToken:      aws.ToString(r.IdToken),
			RefreshToken: aws.ToString(r.RefreshToken),
			TokenType:    aws.ToString(r.TokenType),
			ExpiresIn:    r.ExpiresIn,
		}
	}
	return outcome, nil
}

// SecretHash computes the SECRET_HASH parameter required by app clients
// that have a client secret.
func SecretHash(username, clientID, clientSecret string) string {
	mac := hmac.New(sha256.New, []byte(clientSecret))
	mac.Write([]byte(username + clientID))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// ErrorCode returns the AWS error code carried by err, or "" if there is none.
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
