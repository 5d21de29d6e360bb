package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vibecheck/backend/internal/middleware"
	"github.com/vibecheck/backend/internal/models"
)

// ActionEngine abstracts the reward orchestrator for the handler.
type ActionEngine interface {
	Process(ctx context.Context, req *models.ActionRequest) (*models.RewardResult, error)
	Rollback(ctx context.Context, txID uuid.UUID) (*models.RewardResult, error)
}

// ActionHandler serves the action ingestion and rollback endpoints.
type ActionHandler struct {
	Engine ActionEngine
	Logger *slog.Logger
}

type actionEnvelope struct {
	Action   string          `json:"action"`
	Metadata json.RawMessage `json:"metadata"`
}

// SubmitAction handles POST /v1/actions.
// Auth -> ActionCheck (via middleware) -> Decode metadata -> Process -> result.
func (h *ActionHandler) SubmitAction(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromCtx(r.Context())
	if actor == uuid.Nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	var env actionEnvelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}

	meta, err := models.DecodeActionMetadata(env.Action, env.Metadata)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	req := &models.ActionRequest{Kind: env.Action, ActorID: actor, Meta: meta}
	res, err := h.Engine.Process(r.Context(), req)
	if err != nil {
		h.Logger.Error("process action", "actor_id", actor, "action", env.Action, "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, statusForResult(res), res)
}

// RollbackTransaction handles POST /v1/transactions/{id}/rollback — the
// moderation callback that reverses a previously applied transaction.
func (h *ActionHandler) RollbackTransaction(w http.ResponseWriter, r *http.Request) {
	if actor := middleware.ActorFromCtx(r.Context()); actor == uuid.Nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	txID, ok := extractTransactionID(r)
	if !ok {
		http.Error(w, `{"error":"invalid transaction id"}`, http.StatusBadRequest)
		return
	}

	res, err := h.Engine.Rollback(r.Context(), txID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			http.Error(w, `{"error":"transaction not found"}`, http.StatusNotFound)
			return
		}
		h.Logger.Error("rollback transaction", "transaction_id", txID, "error", err)
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// statusForResult maps a business outcome onto an HTTP status. Cap and limit
// denials are ordinary responses; standing and fraud blocks are forbidden.
func statusForResult(res *models.RewardResult) int {
	if res.Success {
		return http.StatusOK
	}
	switch res.BlockReason {
	case models.BlockValidationFailed:
		return http.StatusUnprocessableEntity
	case models.BlockRateLimited:
		return http.StatusTooManyRequests
	case models.BlockInsufficientFunds:
		return http.StatusPaymentRequired
	case models.BlockAccountStanding, models.BlockFraudSanction:
		return http.StatusForbidden
	case models.BlockAlreadyClaimed:
		return http.StatusConflict
	default:
		return http.StatusOK
	}
}

// extractTransactionID parses the transaction UUID from the URL path.
// Supports paths like /v1/transactions/{id}/rollback.
func extractTransactionID(r *http.Request) (uuid.UUID, bool) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/transactions/")
	parts := strings.SplitN(path, "/", 2)
	if len(parts) == 0 {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
