package handler

import (
	"net/http"

	"github.com/Dan9191/bank-cards/internal/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// NewRouter mounts the API under /api/v1. Everything except login requires a token.
func NewRouter(auth *AuthHandler, cards *CardHandler, transfers *TransferHandler, tokens middleware.TokenParser, logger *logrus.Logger) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	auth.RegisterRoutes(api)

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.Auth(tokens, logger))
	cards.RegisterRoutes(protected)
	transfers.RegisterRoutes(protected)

	return r
}
