package rest

import (
	"net/http"

	"loanbook/core"
	"loanbook/handler/param"
	"loanbook/handler/render"
	"loanbook/handler/views"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi"
)

func allAssetsHandler(engine core.ILendingEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		assetViews := make([]*views.Asset, 0)
		for _, symbol := range engine.ListAssetIDs(ctx) {
			asset, err := engine.GetAsset(ctx, symbol)
			if err != nil {
				continue
			}
			assetViews = append(assetViews, views.NewAsset(asset))
		}

		render.JSON(w, assetViews)
	}
}

func assetHandler(engine core.ILendingEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		asset, err := engine.GetAsset(ctx, chi.URLParam(r, "symbol"))
		if err != nil {
			renderErr(w, err)
			return
		}

		render.JSON(w, views.NewAsset(asset))
	}
}

func registerAssetHandler(cfg *core.Config, engine core.ILendingEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if _, err := operator(cfg, r); err != nil {
			renderErr(w, err)
			return
		}

		var params core.AssetParams
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		if _, err := govalidator.ValidateStruct(params); err != nil {
			render.BadRequest(w, err)
			return
		}

		asset, err := engine.RegisterAsset(ctx, params)
		if err != nil {
			renderErr(w, err)
			return
		}

		render.JSON(w, views.NewAsset(asset))
	}
}

func updateAssetHandler(cfg *core.Config, engine core.ILendingEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if _, err := operator(cfg, r); err != nil {
			renderErr(w, err)
			return
		}

		var params core.AssetParams
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}
		params.Symbol = chi.URLParam(r, "symbol")

		asset, err := engine.UpdateAsset(ctx, params)
		if err != nil {
			renderErr(w, err)
			return
		}

		render.JSON(w, views.NewAsset(asset))
	}
}
