package wallet

import (
	"context"
	"fmt"
	"time"

	"loanbook/core"

	"github.com/fox-one/pkg/logger"
	"github.com/go-resty/resty/v2"
)

type transferService struct {
	client *resty.Client
}

// New transfer service backed by the custodian API. The trace id makes the
// request idempotent on the custodian side, so a retried transfer cannot pay
// out twice.
func New(cfg *core.Config) core.ITransferService {
	client := resty.New().
		SetHeader("Content-Type", "application/json").
		SetHostURL(cfg.Custodian.EndPoint).
		SetAuthToken(cfg.Custodian.APIToken).
		SetTimeout(10 * time.Second)

	return &transferService{client: client}
}

func (s *transferService) Transfer(ctx context.Context, transfer *core.Transfer) error {
	log := logger.FromContext(ctx).WithField("trace", transfer.TraceID)

	body := map[string]interface{}{
		"trace_id": transfer.TraceID,
		"opponent": transfer.Opponent,
		"asset":    transfer.AssetRef,
		"amount":   transfer.Amount.String(),
		"memo":     transfer.Memo,
	}

	r, err := s.client.R().SetContext(ctx).SetBody(body).Post("/transfers")
	if err != nil {
		log.WithError(err).Errorln("custodian transfer failed")
		return err
	}

	if !r.IsSuccess() {
		log.Errorln("custodian transfer rejected:", r.Status())
		return fmt.Errorf("custodian transfer rejected: %s", r.Status())
	}

	return nil
}
