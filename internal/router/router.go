package router

import (
	"net/http"

	"github.com/vibecheck/backend/internal/handlers"
	"github.com/vibecheck/backend/internal/middleware"
)

// New returns an http.Handler serving the /v1 API.
// Middleware chain: ServiceAuth -> (ActionCheck on POST /v1/actions only) -> handler.
func New(actions *handlers.ActionHandler, progress *handlers.ProgressHandler, catalogInfo http.HandlerFunc, jwtSecret []byte) http.Handler {
	mux := http.NewServeMux()

	auth := middleware.ServiceAuth(jwtSecret)
	actionCheck := middleware.ActionCheck()

	// POST /v1/actions — Auth -> ActionCheck -> SubmitAction
	mux.Handle("POST /v1/actions", auth(actionCheck(http.HandlerFunc(actions.SubmitAction))))

	// POST /v1/transactions/{id}/rollback — moderation callback
	mux.Handle("POST /v1/transactions/{id}/rollback", auth(http.HandlerFunc(actions.RollbackTransaction)))

	// Read side
	mux.Handle("GET /v1/me/ledger", auth(http.HandlerFunc(progress.GetLedger)))
	mux.Handle("GET /v1/me/transactions", auth(http.HandlerFunc(progress.ListTransactions)))
	mux.Handle("GET /v1/me/badges", auth(http.HandlerFunc(progress.GetBadges)))
	mux.Handle("GET /v1/me/progress", auth(http.HandlerFunc(progress.GetProgress)))
	mux.Handle("GET /v1/me/reconciliation", auth(http.HandlerFunc(progress.GetReconciliation)))

	// Public, no auth
	mux.HandleFunc("GET /v1/catalog", catalogInfo)

	return mux
}
