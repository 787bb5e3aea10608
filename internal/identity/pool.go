package identity

import (
	"context"
	"fmt"
	"time"

	charm "github.com/charmbracelet/log"

	"github.com/pricofy/identity-gateway/internal/config"
	"github.com/pricofy/identity-gateway/internal/domain"
)

// DefaultMaxResults is the page size used when listing pools.
const DefaultMaxResults int32 = 10

// PoolLister lists user pools one page at a time.
type PoolLister interface {
	ListUserPools(ctx context.Context, maxResults int32, nextToken string) (domain.UserPoolPage, error)
}

// Selection decides which listed pool becomes the active one.
type Selection struct {
	// Policy is one of config.SelectLast, SelectFirst, SelectSingle, SelectByName.
	Policy string
	Name   string
	// PoolID short-circuits the listing when set.
	PoolID string
}

// SelectionFromConfig builds a Selection from the loaded configuration.
func SelectionFromConfig(cfg *config.Config) Selection {
	return Selection{
		Policy: cfg.PoolSelection,
		Name:   cfg.PoolName,
		PoolID: cfg.PoolID,
	}
}

// ResolvePool picks the active user pool once, before requests are served.
//
// Only the first page is read for the last, first and single policies; the
// name policy follows next tokens until it finds a match.
func ResolvePool(ctx context.Context, lister PoolLister, sel Selection, logger *charm.Logger) (*domain.Pool, error) {
	if sel.PoolID != "" {
		logger.Info("Using configured user pool", "poolId", sel.PoolID)
		return &domain.Pool{ID: sel.PoolID, Name: sel.Name}, nil
	}

	page, err := lister.ListUserPools(ctx, DefaultMaxResults, "")
	if err != nil {
		return nil, err
	}
	logPage(logger, page)

	switch sel.Policy {
	case config.SelectFirst:
		if len(page.Pools) == 0 {
			return nil, domain.ErrNoPoolSelected
		}
		return toPool(page.Pools[0]), nil

	case config.SelectSingle:
		if len(page.Pools) == 0 {
			return nil, domain.ErrNoPoolSelected
		}
		if len(page.Pools) > 1 || page.NextToken != "" {
			return nil, domain.ErrAmbiguousPool
		}
		return toPool(page.Pools[0]), nil

	case config.SelectByName:
		for {
			for _, p := range page.Pools {
				if p.Name == sel.Name {
					return toPool(p), nil
				}
			}
			if page.NextToken == "" {
				return nil, fmt.Errorf("%w: name %q", domain.ErrNoPoolSelected, sel.Name)
			}
			page, err = lister.ListUserPools(ctx, DefaultMaxResults, page.NextToken)
			if err != nil {
				return nil, err
			}
			logPage(logger, page)
		}

	case config.SelectLast, "":
		var last *domain.Pool
		for _, p := range page.Pools {
			last = toPool(p)
		}
		if last == nil {
			return nil, domain.ErrNoPoolSelected
		}
		return last, nil

	default:
		return nil, fmt.Errorf("unknown pool selection %q", sel.Policy)
	}
}

func toPool(p domain.UserPool) *domain.Pool {
	return &domain.Pool{ID: p.ID, Name: p.Name}
}

func logPage(logger *charm.Logger, page domain.UserPoolPage) {
	if len(page.Pools) == 0 {
		logger.Warn("User pools not exists")
	}
	for _, p := range page.Pools {
		logger.Info("User pool",
			"id", p.ID,
			"name", p.Name,
			"status", p.Status,
			"lastModified", p.LastModifiedDate.UTC().Format(time.RFC3339),
			"created", p.CreationDate.UTC().Format(time.RFC3339),
		)
	}
	logger.Debug("Listed user pools", "count", len(page.Pools), "nextToken", page.NextToken)
}
