package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vibecheck/backend/internal/catalog"
	"github.com/vibecheck/backend/internal/models"
	"github.com/vibecheck/backend/internal/services"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type mockLedgerReader struct {
	ledgers map[uuid.UUID]*models.UserLedger
}

func (m *mockLedgerReader) GetByUserID(_ context.Context, id uuid.UUID) (*models.UserLedger, error) {
	l, ok := m.ledgers[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return l, nil
}

type mockTxReader struct {
	txs  []*models.RewardTransaction
	sums *models.LedgerSums
}

func (m *mockTxReader) ListByUser(_ context.Context, _ uuid.UUID, limit int) ([]*models.RewardTransaction, error) {
	if limit > len(m.txs) {
		limit = len(m.txs)
	}
	return m.txs[:limit], nil
}

func (m *mockTxReader) SumByUser(context.Context, uuid.UUID) (*models.LedgerSums, error) {
	return m.sums, nil
}

type mockBadgeReader struct {
	badges []*models.Badge
}

func (m *mockBadgeReader) ListByUser(context.Context, uuid.UUID) ([]*models.Badge, error) {
	return m.badges, nil
}

type mockStatsReader struct {
	stats map[uuid.UUID]*models.UserStats
}

func (m *mockStatsReader) GetByUserID(_ context.Context, id uuid.UUID) (*models.UserStats, error) {
	s, ok := m.stats[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return s, nil
}

type mockMissionReader struct {
	rows []*models.MissionProgress
}

func (m *mockMissionReader) ListForPeriods(context.Context, uuid.UUID, []time.Time) ([]*models.MissionProgress, error) {
	return m.rows, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type progressFixture struct {
	h       *ProgressHandler
	actor   uuid.UUID
	ledgers *mockLedgerReader
	txs     *mockTxReader
	badges  *mockBadgeReader
	stats   *mockStatsReader
	miss    *mockMissionReader
}

func newProgressFixture(t *testing.T) *progressFixture {
	t.Helper()
	cat := catalog.Default()
	if err := cat.Validate(); err != nil {
		t.Fatalf("catalog: %v", err)
	}

	actor := uuid.New()
	f := &progressFixture{
		actor: actor,
		ledgers: &mockLedgerReader{ledgers: map[uuid.UUID]*models.UserLedger{
			actor: {UserID: actor, XP: 300, Coins: 120, Gems: 2, Karma: 40, Level: 3, Tier: models.TierBronze, PostingStreak: 2, LongestStreak: 5, Standing: models.StandingActive},
		}},
		txs:    &mockTxReader{sums: &models.LedgerSums{XP: 300, Coins: 120, Gems: 2, Karma: 40}},
		badges: &mockBadgeReader{},
		stats: &mockStatsReader{stats: map[uuid.UUID]*models.UserStats{
			actor: {UserID: actor, TotalVibes: 3, ReactionsGiven: 12},
		}},
		miss: &mockMissionReader{},
	}
	f.h = &ProgressHandler{
		Ledgers:      f.ledgers,
		Transactions: f.txs,
		Badges:       f.badges,
		Stats:        f.stats,
		MissionLog:   f.miss,
		Missions:     services.NewMissionTracker(cat, nil),
		Eligibility:  services.NewEligibilityEngine(cat),
		Catalog:      cat,
		Logger:       slog.Default(),
	}
	return f
}

func (f *progressFixture) get(t *testing.T, path string, fn http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req = injectActor(req, f.actor)
	rec := httptest.NewRecorder()
	fn(rec, req)
	return rec
}

// =====================================================================
// GET /v1/me/ledger
// =====================================================================

func TestGetLedger(t *testing.T) {
	f := newProgressFixture(t)

	rec := f.get(t, "/v1/me/ledger", f.h.GetLedger)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ledgerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Ledger.Coins != 120 {
		t.Errorf("coins = %d, want 120", resp.Ledger.Coins)
	}
	if resp.KarmaTier.Name == "" {
		t.Error("karma tier missing")
	}
}

func TestGetLedger_Unauthenticated(t *testing.T) {
	f := newProgressFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/me/ledger", nil)
	rec := httptest.NewRecorder()
	f.h.GetLedger(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

// =====================================================================
// GET /v1/me/transactions
// =====================================================================

func TestListTransactions_LimitValidation(t *testing.T) {
	f := newProgressFixture(t)
	for i := 0; i < 5; i++ {
		f.txs.txs = append(f.txs.txs, &models.RewardTransaction{ID: uuid.New(), UserID: f.actor, EntryType: models.EntryEarn})
	}

	rec := f.get(t, "/v1/me/transactions?limit=3", f.h.ListTransactions)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Transactions []*models.RewardTransaction `json:"transactions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Transactions) != 3 {
		t.Errorf("got %d transactions, want 3", len(resp.Transactions))
	}

	rec = f.get(t, "/v1/me/transactions?limit=9999", f.h.ListTransactions)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized limit, got %d", rec.Code)
	}
}

// =====================================================================
// GET /v1/me/badges
// =====================================================================

func TestGetBadges_ProgressForUnearned(t *testing.T) {
	f := newProgressFixture(t)
	f.badges.badges = []*models.Badge{{UserID: f.actor, BadgeID: "first_vibe", EarnedAt: time.Now()}}

	rec := f.get(t, "/v1/me/badges", f.h.GetBadges)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp badgesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Earned) != 1 || resp.Earned[0].BadgeID != "first_vibe" {
		t.Fatalf("earned = %+v", resp.Earned)
	}
	for _, p := range resp.InProgress {
		if p.Badge.ID == "first_vibe" {
			t.Error("earned badge must not appear in in_progress")
		}
		if p.Progress < 0 || p.Progress > 100 {
			t.Errorf("%s: progress %d out of range", p.Badge.ID, p.Progress)
		}
	}
}

// =====================================================================
// GET /v1/me/progress
// =====================================================================

func TestGetProgress(t *testing.T) {
	f := newProgressFixture(t)
	f.miss.rows = []*models.MissionProgress{{
		UserID: f.actor, MissionID: "daily_react_5",
		PeriodStart: models.PeriodStartFor(models.CadenceDaily, time.Now().UTC()),
		Count:       2,
	}}

	rec := f.get(t, "/v1/me/progress", f.h.GetProgress)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp progressResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Level != 3 || resp.XP != 300 {
		t.Errorf("level/xp = %d/%d", resp.Level, resp.XP)
	}
	// Level 3 at 300 XP: level 4 needs 450.
	if resp.XPToNextLevel != 150 {
		t.Errorf("xp_to_next_level = %d, want 150", resp.XPToNextLevel)
	}
	if len(resp.Missions) == 0 {
		t.Fatal("missions missing from progress view")
	}
	found := false
	for _, v := range resp.Missions {
		if v.Mission.ID == "daily_react_5" {
			found = true
			if v.Count != 2 {
				t.Errorf("daily_react_5 count = %d, want 2", v.Count)
			}
		}
	}
	if !found {
		t.Error("daily_react_5 missing from mission views")
	}
}

// =====================================================================
// GET /v1/me/reconciliation
// =====================================================================

func TestGetReconciliation(t *testing.T) {
	f := newProgressFixture(t)

	rec := f.get(t, "/v1/me/reconciliation", f.h.GetReconciliation)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp reconciliationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Consistent {
		t.Errorf("expected consistent view, got %+v", resp)
	}

	// Introduce drift and recheck.
	f.txs.sums = &models.LedgerSums{XP: 299, Coins: 120, Gems: 2, Karma: 40}
	rec = f.get(t, "/v1/me/reconciliation", f.h.GetReconciliation)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Consistent {
		t.Error("expected drift to be reported")
	}
}
