package rest

import (
	"net/http"

	"loanbook/core"
	"loanbook/handler/render"
	"loanbook/handler/views"

	"github.com/go-chi/chi"
)

func positionHandler(engine core.ILendingEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		account := chi.URLParam(r, "account")
		symbol := chi.URLParam(r, "symbol")

		position, err := engine.GetPosition(ctx, account, symbol)
		if err != nil {
			renderErr(w, err)
			return
		}

		hf, err := engine.GetHealthFactor(ctx, account, symbol)
		if err != nil {
			renderErr(w, err)
			return
		}

		render.JSON(w, views.NewPosition(position, hf))
	}
}

func accountPositionsHandler(positionStore core.IPositionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		positions, err := positionStore.FindByAccount(ctx, chi.URLParam(r, "account"))
		if err != nil {
			renderErr(w, err)
			return
		}

		if positions == nil {
			positions = []*core.Position{}
		}

		render.JSON(w, positions)
	}
}

func healthHandler(engine core.ILendingEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		hf, err := engine.GetHealthFactor(ctx, chi.URLParam(r, "account"), chi.URLParam(r, "symbol"))
		if err != nil {
			renderErr(w, err)
			return
		}

		render.JSON(w, render.H{"health_factor_bps": hf})
	}
}
