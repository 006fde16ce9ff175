package rest

import (
	"errors"
	"net/http"

	"loanbook/core"
	"loanbook/handler/codes"
	"loanbook/handler/render"

	"github.com/go-chi/chi"
)

const operatorHeader = "X-Operator"

// Handle handle rest api request
func Handle(cfg *core.Config, engine core.ILendingEngine, positionStore core.IPositionStore, eventStore core.IEventStore) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/assets", allAssetsHandler(engine))
	router.Get("/assets/{symbol}", assetHandler(engine))
	router.Post("/assets", registerAssetHandler(cfg, engine))
	router.Put("/assets/{symbol}", updateAssetHandler(cfg, engine))

	router.Get("/accounts/{account}/positions", accountPositionsHandler(positionStore))
	router.Get("/accounts/{account}/positions/{symbol}", positionHandler(engine))
	router.Get("/accounts/{account}/health/{symbol}", healthHandler(engine))

	router.Post("/accounts/{account}/supply", operationHandler(cfg, engine.Supply))
	router.Post("/accounts/{account}/withdraw", operationHandler(cfg, engine.Withdraw))
	router.Post("/accounts/{account}/borrow", operationHandler(cfg, engine.Borrow))
	router.Post("/accounts/{account}/repay", operationHandler(cfg, engine.Repay))
	router.Post("/accounts/{account}/liquidate", liquidateHandler(cfg, engine))

	router.Get("/events", eventsHandler(eventStore))
	router.Get("/accounts/{account}/events", accountEventsHandler(eventStore))

	return router
}

func renderErr(w http.ResponseWriter, err error) {
	render.Error(w, codes.Status(err), codes.Code(err), err)
}

func operator(cfg *core.Config, r *http.Request) (string, error) {
	op := r.Header.Get(operatorHeader)
	if !cfg.IsAdmin(op) {
		return "", core.ErrUnauthorized
	}

	return op, nil
}
