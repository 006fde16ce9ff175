package rest

import (
	"net/http"

	"loanbook/core"
	"loanbook/handler/param"
	"loanbook/handler/render"

	"github.com/go-chi/chi"
)

const maxEventPage = 500

func eventsHandler(eventStore core.IEventStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		fromID := param.Int64(r, "from", 0)
		limit := param.Int(r, "limit", 100)
		if limit <= 0 || limit > maxEventPage {
			limit = maxEventPage
		}

		events, err := eventStore.List(ctx, uint64(fromID), limit)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, events)
	}
}

func accountEventsHandler(eventStore core.IEventStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		limit := param.Int(r, "limit", 100)
		if limit <= 0 || limit > maxEventPage {
			limit = maxEventPage
		}

		events, err := eventStore.FindByAccount(ctx, chi.URLParam(r, "account"), limit)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, events)
	}
}
