package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/vibecheck/backend/internal/models"
)

const ctxActionKindKey contextKey = "parsed_action_kind"

// maxActionBody bounds how much of a request body the peek will read.
const maxActionBody = 1 << 16

// AllowedActionKinds is the set of action kinds the engine accepts.
// ActionCheck rejects requests with unknown kinds before any handler work.
var AllowedActionKinds = map[string]bool{
	models.ActionPostVibe:          true,
	models.ActionReact:             true,
	models.ActionComment:           true,
	models.ActionShare:             true,
	models.ActionChallengeComplete: true,
	models.ActionMissionComplete:   true,
	models.ActionStreakMilestone:   true,
	models.ActionSpend:             true,
	models.ActionDailyLogin:        true,
}

// actionEnvelope is the part of the body the middleware peeks at.
type actionEnvelope struct {
	Action string `json:"action"`
}

// ActionKindFromCtx returns the kind parsed by ActionCheck, or "".
func ActionKindFromCtx(ctx context.Context) string {
	kind, _ := ctx.Value(ctxActionKindKey).(string)
	return kind
}

// ActionCheck validates the action envelope early: the actor must be
// authenticated and the kind must be one the engine knows. Reads the body to
// extract "action", then replaces r.Body so the handler can re-read it.
func ActionCheck() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ActorFromCtx(r.Context()) == uuid.Nil {
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}

			bodyBytes, err := io.ReadAll(io.LimitReader(r.Body, maxActionBody))
			r.Body.Close()
			if err != nil {
				http.Error(w, `{"error":"failed to read body"}`, http.StatusBadRequest)
				return
			}
			// Restore body for the handler.
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))

			var peek actionEnvelope
			if err := json.Unmarshal(bodyBytes, &peek); err != nil {
				http.Error(w, `{"error":"invalid JSON body"}`, http.StatusBadRequest)
				return
			}
			if peek.Action == "" {
				http.Error(w, `{"error":"action is required"}`, http.StatusBadRequest)
				return
			}
			if !AllowedActionKinds[peek.Action] {
				http.Error(w, fmt.Sprintf(`{"error":"action %q is not supported"}`, peek.Action), http.StatusBadRequest)
				return
			}

			ctx := context.WithValue(r.Context(), ctxActionKindKey, peek.Action)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
