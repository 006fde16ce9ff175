package rest

import (
	"context"
	"net/http"

	"loanbook/core"
	"loanbook/handler/param"
	"loanbook/handler/render"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

type operationFunc func(ctx context.Context, account, symbol string, amount decimal.Decimal) error

type operationParams struct {
	Symbol string          `json:"symbol"`
	Amount decimal.Decimal `json:"amount"`
}

func operationHandler(cfg *core.Config, op operationFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if _, err := operator(cfg, r); err != nil {
			renderErr(w, err)
			return
		}

		var params operationParams
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := op(ctx, chi.URLParam(r, "account"), params.Symbol, params.Amount); err != nil {
			renderErr(w, err)
			return
		}

		render.JSON(w, render.H{"status": "ok"})
	}
}

func liquidateHandler(cfg *core.Config, engine core.ILendingEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if _, err := operator(cfg, r); err != nil {
			renderErr(w, err)
			return
		}

		var params struct {
			operationParams
			Liquidator string `json:"liquidator"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		err := engine.Liquidate(ctx, params.Liquidator, chi.URLParam(r, "account"), params.Symbol, params.Amount)
		if err != nil {
			renderErr(w, err)
			return
		}

		render.JSON(w, render.H{"status": "ok"})
	}
}
