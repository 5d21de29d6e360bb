package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/vibecheck/backend/internal/catalog"
	"github.com/vibecheck/backend/internal/middleware"
	"github.com/vibecheck/backend/internal/models"
	"github.com/vibecheck/backend/internal/services"
)

// LedgerReader fetches the committed economy state for one actor.
type LedgerReader interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.UserLedger, error)
}

// TransactionReader lists and sums the actor's transaction log.
type TransactionReader interface {
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.RewardTransaction, error)
	SumByUser(ctx context.Context, userID uuid.UUID) (*models.LedgerSums, error)
}

// BadgeReader lists earned badges.
type BadgeReader interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Badge, error)
}

// StatsReader fetches the eligibility counters.
type StatsReader interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.UserStats, error)
}

// MissionReader fetches mission counters for the given period starts.
type MissionReader interface {
	ListForPeriods(ctx context.Context, userID uuid.UUID, periodStarts []time.Time) ([]*models.MissionProgress, error)
}

// ProgressHandler serves the read-side endpoints: ledger, history, badges,
// progression, missions, and the log-vs-ledger reconciliation view.
type ProgressHandler struct {
	Ledgers      LedgerReader
	Transactions TransactionReader
	Badges       BadgeReader
	Stats        StatsReader
	MissionLog   MissionReader
	Missions     *services.MissionTracker
	Eligibility  *services.EligibilityEngine
	Catalog      *catalog.Catalog
	Logger       *slog.Logger
}

// --- GET /v1/me/ledger ---

type ledgerResponse struct {
	Ledger    *models.UserLedger `json:"ledger"`
	KarmaTier models.KarmaTier   `json:"karma_tier"`
	Perks     models.TierPerks   `json:"perks"`
}

func (h *ProgressHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}
	ledger, err := h.Ledgers.GetByUserID(r.Context(), actor)
	if err != nil {
		http.Error(w, `{"error":"ledger not found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, ledgerResponse{
		Ledger:    ledger,
		KarmaTier: h.Catalog.KarmaTierFor(ledger.Karma),
		Perks:     h.Catalog.PerksFor(ledger.Tier),
	})
}

// --- GET /v1/me/transactions ---

func (h *ProgressHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 200 {
			http.Error(w, `{"error":"limit must be 1-200"}`, http.StatusBadRequest)
			return
		}
		limit = n
	}
	txs, err := h.Transactions.ListByUser(r.Context(), actor, limit)
	if err != nil {
		h.Logger.Error("list transactions", "actor_id", actor, "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"transactions": txs})
}

// --- GET /v1/me/badges ---

type badgeProgress struct {
	Badge    models.BadgeDefinition `json:"badge"`
	Progress int                    `json:"progress"` // percent, 0-100
}

type badgesResponse struct {
	Earned     []*models.Badge `json:"earned"`
	InProgress []badgeProgress `json:"in_progress"`
}

func (h *ProgressHandler) GetBadges(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}
	earned, err := h.Badges.ListByUser(r.Context(), actor)
	if err != nil {
		h.Logger.Error("list badges", "actor_id", actor, "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	snap, err := h.snapshot(r.Context(), actor)
	if err != nil {
		h.Logger.Error("build stats snapshot", "actor_id", actor, "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	earnedIDs := make(map[string]bool, len(earned))
	for _, b := range earned {
		earnedIDs[b.BadgeID] = true
	}

	inProgress := []badgeProgress{}
	for _, def := range h.Catalog.Badges {
		if earnedIDs[def.ID] {
			continue
		}
		inProgress = append(inProgress, badgeProgress{
			Badge:    def,
			Progress: h.Eligibility.Progress(def.Criteria, snap),
		})
	}
	for _, ach := range h.Catalog.Achievements {
		if earnedIDs[ach.ID] {
			continue
		}
		inProgress = append(inProgress, badgeProgress{
			Badge: models.BadgeDefinition{
				ID: ach.ID, Name: ach.Name, Description: ach.Description,
				Criteria: ach.Criteria,
				RewardXP: ach.RewardXP, RewardCoins: ach.RewardCoins, RewardGems: ach.RewardGems,
			},
			Progress: h.Eligibility.Progress(ach.Criteria, snap),
		})
	}

	writeJSON(w, http.StatusOK, badgesResponse{Earned: earned, InProgress: inProgress})
}

// --- GET /v1/me/progress ---

type missionView struct {
	Mission     models.MissionTemplate `json:"mission"`
	PeriodStart time.Time              `json:"period_start"`
	Count       int                    `json:"count"`
	Completed   bool                   `json:"completed"`
	Claimed     bool                   `json:"claimed"`
}

type progressResponse struct {
	Level         int              `json:"level"`
	Tier          string           `json:"tier"`
	XP            int              `json:"xp"`
	XPToNextLevel int              `json:"xp_to_next_level"` // 0 at max level
	PostingStreak int              `json:"posting_streak"`
	LongestStreak int              `json:"longest_streak"`
	Karma         int              `json:"karma"`
	KarmaTier     models.KarmaTier `json:"karma_tier"`
	Missions      []missionView    `json:"missions"`
}

func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}
	ledger, err := h.Ledgers.GetByUserID(r.Context(), actor)
	if err != nil {
		http.Error(w, `{"error":"ledger not found"}`, http.StatusNotFound)
		return
	}

	now := time.Now().UTC()
	progress, err := h.MissionLog.ListForPeriods(r.Context(), actor, h.Missions.CurrentPeriods(now))
	if err != nil {
		h.Logger.Error("list mission progress", "actor_id", actor, "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	byMission := make(map[string]*models.MissionProgress, len(progress))
	for _, p := range progress {
		byMission[p.MissionID] = p
	}

	missions := make([]missionView, 0, len(h.Catalog.Missions))
	for _, tpl := range h.Catalog.Missions {
		v := missionView{Mission: tpl, PeriodStart: models.PeriodStartFor(tpl.Cadence, now)}
		if p, ok := byMission[tpl.ID]; ok {
			v.Count = p.Count
			v.Completed = p.Completed()
			v.Claimed = p.Claimed()
		}
		missions = append(missions, v)
	}

	writeJSON(w, http.StatusOK, progressResponse{
		Level:         ledger.Level,
		Tier:          ledger.Tier,
		XP:            ledger.XP,
		XPToNextLevel: h.xpToNextLevel(ledger),
		PostingStreak: ledger.PostingStreak,
		LongestStreak: ledger.LongestStreak,
		Karma:         ledger.Karma,
		KarmaTier:     h.Catalog.KarmaTierFor(ledger.Karma),
		Missions:      missions,
	})
}

// --- GET /v1/me/reconciliation ---

type reconciliationResponse struct {
	Ledger     models.LedgerSums `json:"ledger"`
	LogTotals  models.LedgerSums `json:"log_totals"`
	Consistent bool              `json:"consistent"`
}

// GetReconciliation replays the transaction log and compares it against the
// ledger row. Karma is floored at zero on the ledger, so the log total may
// legitimately run below it only when both are zero-clamped the same way;
// the log stores net deltas, so equality is the invariant here too.
func (h *ProgressHandler) GetReconciliation(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}
	ledger, err := h.Ledgers.GetByUserID(r.Context(), actor)
	if err != nil {
		http.Error(w, `{"error":"ledger not found"}`, http.StatusNotFound)
		return
	}
	sums, err := h.Transactions.SumByUser(r.Context(), actor)
	if err != nil {
		h.Logger.Error("sum transactions", "actor_id", actor, "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	ledgerSums := models.LedgerSums{XP: ledger.XP, Coins: ledger.Coins, Gems: ledger.Gems, Karma: ledger.Karma}
	consistent := ledgerSums == *sums
	if !consistent {
		h.Logger.Warn("ledger drift detected",
			"actor_id", actor,
			"ledger_xp", ledgerSums.XP, "log_xp", sums.XP,
			"ledger_coins", ledgerSums.Coins, "log_coins", sums.Coins)
	}
	writeJSON(w, http.StatusOK, reconciliationResponse{
		Ledger:     ledgerSums,
		LogTotals:  *sums,
		Consistent: consistent,
	})
}

// --- helpers ---

func (h *ProgressHandler) requireActor(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	actor := middleware.ActorFromCtx(r.Context())
	if actor == uuid.Nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return uuid.Nil, false
	}
	return actor, true
}

func (h *ProgressHandler) snapshot(ctx context.Context, actor uuid.UUID) (*models.UserStatsSnapshot, error) {
	ledger, err := h.Ledgers.GetByUserID(ctx, actor)
	if err != nil {
		return nil, err
	}
	stats, err := h.Stats.GetByUserID(ctx, actor)
	if err != nil {
		return nil, err
	}
	return &models.UserStatsSnapshot{
		UserID:              actor,
		TotalVibes:          stats.TotalVibes,
		EmotionCounts:       stats.EmotionCounts,
		UniqueCities:        len(stats.Cities),
		PostingStreak:       ledger.PostingStreak,
		LongestStreak:       ledger.LongestStreak,
		ChallengesCompleted: stats.ChallengesCompleted,
		MissionsCompleted:   stats.MissionsCompleted,
		CommentsMade:        stats.CommentsMade,
		ReactionsGiven:      stats.ReactionsGiven,
		SharesGiven:         stats.SharesGiven,
		XP:                  ledger.XP,
		Level:               ledger.Level,
	}, nil
}

// xpToNextLevel returns the XP remaining to the next level threshold, or
// zero at the table's top.
func (h *ProgressHandler) xpToNextLevel(l *models.UserLedger) int {
	if l.Level >= len(h.Catalog.LevelXP) {
		return 0
	}
	return h.Catalog.LevelXP[l.Level] - l.XP
}
