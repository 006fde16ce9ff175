package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"loanbook/core"

	"github.com/fox-one/pkg/logger"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

type priceService struct {
	client *resty.Client
}

// New price oracle backed by the configured price feed endpoint. Any
// failure to produce a positive quote surfaces as ErrPriceUnavailable; a
// stale or zero price must never look like a valid one.
func New(cfg *core.Config) core.IPriceOracle {
	client := resty.New().
		SetHeader("Content-Type", "application/json").
		SetHostURL(cfg.Oracle.EndPoint).
		SetTimeout(10 * time.Second)

	return &priceService{client: client}
}

func (s *priceService) GetPrice(ctx context.Context, feedRef string) (decimal.Decimal, error) {
	log := logger.FromContext(ctx).WithField("feed", feedRef)

	r, err := s.client.R().SetContext(ctx).Get(fmt.Sprintf("/prices/%s", feedRef))
	if err != nil {
		log.WithError(err).Errorln("fetch price failed")
		return decimal.Zero, core.ErrPriceUnavailable
	}

	if !r.IsSuccess() {
		log.Errorln("fetch price failed:", r.Status())
		return decimal.Zero, core.ErrPriceUnavailable
	}

	var body struct {
		Price decimal.Decimal `json:"price"`
	}
	if err := json.Unmarshal(r.Body(), &body); err != nil {
		log.WithError(err).Errorln("decode price failed")
		return decimal.Zero, core.ErrPriceUnavailable
	}

	if !body.Price.IsPositive() {
		return decimal.Zero, core.ErrPriceUnavailable
	}

	return body.Price, nil
}
