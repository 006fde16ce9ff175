package oracle

import (
	"context"
	"fmt"
	"time"

	"loanbook/core"

	"github.com/bluele/gcache"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// Cache caches quotes for exp so one hot feed does not hammer the upstream.
// Errors are never cached.
func Cache(upstream core.IPriceOracle, exp time.Duration) core.IPriceOracle {
	return &cacheOracle{
		upstream: upstream,
		cache:    gcache.New(1024).LRU().Build(),
		sf:       &singleflight.Group{},
		exp:      exp,
	}
}

type cacheOracle struct {
	upstream core.IPriceOracle
	cache    gcache.Cache
	sf       *singleflight.Group
	exp      time.Duration
}

func (s *cacheOracle) GetPrice(ctx context.Context, feedRef string) (decimal.Decimal, error) {
	key := s.priceKey(feedRef)
	if v, err := s.cache.Get(key); err == nil {
		if price, ok := v.(decimal.Decimal); ok {
			return price, nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		price, err := s.upstream.GetPrice(ctx, feedRef)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetWithExpire(key, price, s.exp)
		return price, nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	return v.(decimal.Decimal), nil
}

func (s *cacheOracle) priceKey(feedRef string) string {
	return fmt.Sprintf("price:%s", feedRef)
}
