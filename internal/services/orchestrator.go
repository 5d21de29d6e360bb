package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vibecheck/backend/internal/catalog"
	"github.com/vibecheck/backend/internal/models"
)

// ErrTargetNotFound is returned as a validation block when the action names
// content that does not exist.
var ErrTargetNotFound = errors.New("target content not found")

// TxBeginner opens the database transaction the whole apply runs in.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrchestratorLedgerRepo is the minimal ledger interface for the apply path.
type OrchestratorLedgerRepo interface {
	GetForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*models.UserLedger, error)
	Update(ctx context.Context, tx pgx.Tx, l *models.UserLedger) error
	DeductBalances(ctx context.Context, tx pgx.Tx, userID uuid.UUID, coins, gems int) (bool, error)
}

// OrchestratorCapRepo is the cap-window interface for the apply path.
type OrchestratorCapRepo interface {
	GetForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*models.DailyCapState, error)
	Update(ctx context.Context, tx pgx.Tx, s *models.DailyCapState) error
}

// OrchestratorTxRepo is the transaction-log interface for the apply path.
// The count queries run against the pool: they inspect committed history,
// not the in-flight transaction.
type OrchestratorTxRepo interface {
	InsertTx(ctx context.Context, tx pgx.Tx, t *models.RewardTransaction) error
	InsertRollbackTx(ctx context.Context, tx pgx.Tx, t *models.RewardTransaction) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.RewardTransaction, error)
	CountApplied(ctx context.Context, userID uuid.UUID, kind string, since time.Time) (int, error)
	CounterpartCounts(ctx context.Context, userID uuid.UUID, since time.Time) (map[uuid.UUID]int, int, error)
}

// OrchestratorFraudRepo records and counts fraud flags.
type OrchestratorFraudRepo interface {
	InsertTx(ctx context.Context, tx pgx.Tx, c *models.FraudCheck) error
	CountByUserTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (int, error)
	HasPriorSevereTx(ctx context.Context, tx pgx.Tx, userID, excludeID uuid.UUID) (bool, error)
}

// OrchestratorBadgeRepo awards badges idempotently.
type OrchestratorBadgeRepo interface {
	AwardTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, badgeID string, earnedAt time.Time) (bool, error)
	EarnedIDsTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (map[string]bool, error)
}

// OrchestratorStatsRepo maintains the eligibility counters.
type OrchestratorStatsRepo interface {
	GetForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*models.UserStats, error)
	Update(ctx context.Context, tx pgx.Tx, s *models.UserStats) error
}

// ChallengeClaimRepo is the one-shot challenge dedupe.
type ChallengeClaimRepo interface {
	ClaimChallengeTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, challengeID string) (bool, error)
}

// ContentGateway resolves content ownership. Content itself lives outside
// this service; the engine only needs to know a target exists and who owns
// it, for validation and collaboration-ring bookkeeping.
type ContentGateway interface {
	// OwnerOf returns uuid.Nil when the target does not exist.
	OwnerOf(ctx context.Context, targetID uuid.UUID) (uuid.UUID, error)
}

// ActionLimiter is the pre-transaction attempt gate.
type ActionLimiter interface {
	Allow(ctx context.Context, userID uuid.UUID, kind string) VelocityVerdict
}

// MedianSource supplies the fraud anomaly baseline.
type MedianSource interface {
	Medians(ctx context.Context) *models.CohortMedians
}

// KarmaApplier resolves reputation deltas.
type KarmaApplier interface {
	Apply(ctx context.Context, userID uuid.UUID, signal string, current int) KarmaOutcome
}

// Orchestrator owns the action state machine: validate, rate-check, then a
// single database transaction covering fraud checks, the ledger write, cap
// accounting, stats, missions, and badge awards. Everything an action
// changes commits atomically or not at all.
type Orchestrator struct {
	DB          TxBeginner
	Ledgers     OrchestratorLedgerRepo
	Caps        OrchestratorCapRepo
	TxLog       OrchestratorTxRepo
	Frauds      OrchestratorFraudRepo
	Badges      OrchestratorBadgeRepo
	Stats       OrchestratorStatsRepo
	Claims      ChallengeClaimRepo
	Missions    *MissionTracker
	Calc        *RewardCalculator
	Detector    *FraudDetector
	Policy      *SanctionPolicy
	Karma       KarmaApplier
	Eligibility *EligibilityEngine
	Limiter     ActionLimiter
	Content     ContentGateway
	Cohort      MedianSource
	Catalog     *catalog.Catalog
	Logger      *slog.Logger

	// Now is swappable in tests.
	Now func() time.Time
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now().UTC()
}

// Process runs one inbound action through the full pipeline and returns the
// outcome. A nil error with Success=false is a normal business denial; a
// non-nil error means the engine itself failed and nothing was applied.
func (o *Orchestrator) Process(ctx context.Context, req *models.ActionRequest) (*models.RewardResult, error) {
	now := o.now()

	if err := req.Validate(); err != nil {
		return blockedResult(models.BlockValidationFailed, err.Error()), nil
	}
	counterpart, result, err := o.resolveTarget(ctx, req)
	if err != nil {
		return nil, err
	}
	if result != nil {
		return result, nil
	}

	if verdict := o.Limiter.Allow(ctx, req.ActorID, req.Kind); !verdict.Allowed {
		return blockedResult(models.BlockRateLimited, verdict.Reason), nil
	}

	tx, err := o.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin action tx: %w", err)
	}
	defer tx.Rollback(ctx)

	ledger, err := o.Ledgers.GetForUpdate(ctx, tx, req.ActorID)
	if err != nil {
		return nil, fmt.Errorf("lock ledger for %s: %w", req.ActorID, err)
	}
	if blocked := o.checkStanding(ledger, now); blocked != nil {
		return blocked, nil
	}

	switch req.Kind {
	case models.ActionSpend:
		return o.processSpend(ctx, tx, req, ledger)
	default:
		return o.processEarning(ctx, tx, req, ledger, counterpart, now)
	}
}

// resolveTarget validates content-target actions against the content
// gateway. For post/share the vibe must belong to the actor; for reactions
// and comments it must belong to someone else, who becomes the counterpart.
func (o *Orchestrator) resolveTarget(ctx context.Context, req *models.ActionRequest) (*uuid.UUID, *models.RewardResult, error) {
	target := req.TargetID()
	if target == uuid.Nil {
		return nil, nil, nil
	}
	owner, err := o.Content.OwnerOf(ctx, target)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve target %s: %w", target, err)
	}
	if owner == uuid.Nil {
		return nil, blockedResult(models.BlockValidationFailed, ErrTargetNotFound.Error()), nil
	}
	switch req.Kind {
	case models.ActionPostVibe, models.ActionShare:
		if owner != req.ActorID {
			return nil, blockedResult(models.BlockValidationFailed, "content does not belong to actor"), nil
		}
		return nil, nil, nil
	default:
		if owner == req.ActorID {
			return nil, blockedResult(models.BlockValidationFailed, "cannot earn from own content"), nil
		}
		return &owner, nil, nil
	}
}

// checkStanding gates banned and suspended actors. An elapsed suspension is
// lifted in place; the updated standing persists when the action commits.
func (o *Orchestrator) checkStanding(ledger *models.UserLedger, now time.Time) *models.RewardResult {
	switch {
	case ledger.Standing == models.StandingBanned:
		return blockedResult(models.BlockAccountStanding, "account is banned")
	case ledger.Suspended(now):
		return blockedResult(models.BlockAccountStanding,
			fmt.Sprintf("account suspended until %s", ledger.SuspendedUntil.Format(time.RFC3339)))
	case ledger.Standing == models.StandingSuspended:
		ledger.Standing = models.StandingActive
		ledger.SuspendedUntil = nil
	}
	return nil
}

// processSpend debits the ledger. The conditional UPDATE is the funds check;
// the spend record goes in alongside it so the log stays conservative.
func (o *Orchestrator) processSpend(ctx context.Context, tx pgx.Tx, req *models.ActionRequest, ledger *models.UserLedger) (*models.RewardResult, error) {
	meta := req.Meta.(models.SpendMeta)

	ok, err := o.Ledgers.DeductBalances(ctx, tx, req.ActorID, meta.Coins, meta.Gems)
	if err != nil {
		return nil, fmt.Errorf("deduct balances: %w", err)
	}
	if !ok {
		return blockedResult(models.BlockInsufficientFunds, "insufficient coins or gems"), nil
	}

	record := &models.RewardTransaction{
		ID:         uuid.New(),
		UserID:     req.ActorID,
		ActionKind: models.ActionSpend,
		EntryType:  models.EntrySpend,
		CoinsDelta: -meta.Coins,
		GemsDelta:  -meta.Gems,
		Metadata:   mustMarshal(meta),
	}
	if err := o.TxLog.InsertTx(ctx, tx, record); err != nil {
		return nil, fmt.Errorf("insert spend record: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit spend: %w", err)
	}

	ledger.Coins -= meta.Coins
	ledger.Gems -= meta.Gems
	res := successResult(ledger, record.ID)
	res.CoinsEarned = -meta.Coins
	res.GemsEarned = -meta.Gems
	return res, nil
}

// pendingReward is one earning about to be applied: the base action or a
// bonus layered on top of it.
type pendingReward struct {
	xp, coins, gems int
}

// processEarning is the credit path shared by every non-spend action kind.
func (o *Orchestrator) processEarning(ctx context.Context, tx pgx.Tx, req *models.ActionRequest, ledger *models.UserLedger, counterpart *uuid.UUID, now time.Time) (*models.RewardResult, error) {
	caps, err := o.Caps.GetForUpdate(ctx, tx, req.ActorID)
	if err != nil {
		return nil, fmt.Errorf("lock cap window: %w", err)
	}
	if caps.Expired(now) {
		caps.Reset(now)
	}

	var (
		reward      pendingReward
		entryType   = models.EntryEarn
		milestone   *models.StreakMilestone
		karmaSignal = req.Kind
	)

	switch req.Kind {
	case models.ActionChallengeComplete:
		meta := req.Meta.(models.ChallengeCompleteMeta)
		inserted, err := o.Claims.ClaimChallengeTx(ctx, tx, req.ActorID, meta.ChallengeID)
		if err != nil {
			return nil, fmt.Errorf("claim challenge %s: %w", meta.ChallengeID, err)
		}
		if !inserted {
			return blockedResult(models.BlockAlreadyClaimed, "challenge already claimed"), nil
		}

	case models.ActionMissionComplete:
		meta := req.Meta.(models.MissionCompleteMeta)
		tmpl, err := o.Missions.ClaimTx(ctx, tx, req.ActorID, meta.MissionID, now)
		switch {
		case errors.Is(err, ErrMissionUnknown), errors.Is(err, ErrMissionIncomplete):
			return blockedResult(models.BlockValidationFailed, err.Error()), nil
		case errors.Is(err, ErrMissionClaimed):
			return blockedResult(models.BlockAlreadyClaimed, err.Error()), nil
		case err != nil:
			return nil, fmt.Errorf("claim mission %s: %w", meta.MissionID, err)
		}
		reward = pendingReward{xp: tmpl.RewardXP, coins: tmpl.RewardCoins, gems: tmpl.RewardGems}
		entryType = models.EntryMissionBonus

	case models.ActionStreakMilestone:
		meta := req.Meta.(models.StreakMilestoneMeta)
		milestone = o.Catalog.MilestoneForDays(meta.Days)
		if milestone == nil {
			return blockedResult(models.BlockValidationFailed,
				fmt.Sprintf("no streak milestone at %d days", meta.Days)), nil
		}
		ledger.PostingStreak = meta.Days
		if meta.Days > ledger.LongestStreak {
			ledger.LongestStreak = meta.Days
		}
	}

	if req.Kind == models.ActionMissionComplete || req.Kind == models.ActionStreakMilestone {
		// Paid from their own tables; only the tier coin cap applies.
		if reward.coins > 0 && caps.Coins+reward.coins > o.Catalog.DailyCoinCap(ledger.Tier) {
			return blockedResult(models.BlockDailyCoinCap, "daily coin cap reached"), nil
		}
	} else {
		rctx := RewardContext{
			Tier:             ledger.Tier,
			FirstOfDay:       len(caps.ActionCounts) == 0,
			DailyCoins:       caps.Coins,
			DailyActionCount: caps.ActionCounts[req.Kind],
			DailyActionXP:    caps.XPByAction[req.Kind],
		}
		amounts, err := o.Calc.Calculate(req.Kind, rctx)
		if err != nil {
			return nil, err
		}
		if amounts.Blocked {
			return blockedResult(amounts.BlockReason, "earning cap reached"), nil
		}
		reward = pendingReward{xp: amounts.XP, coins: amounts.Coins, gems: amounts.Gems}
	}

	flag, sanction, err := o.runFraudChecks(ctx, tx, req, caps, reward, now)
	if err != nil {
		return nil, err
	}
	if sanction != nil {
		switch sanction.Action {
		case models.SanctionRollback:
			return o.applySanctionedRollback(ctx, tx, req, ledger, reward, entryType, counterpart, sanction)
		case models.SanctionSuspension, models.SanctionBan:
			return o.applySanctionHold(ctx, tx, ledger, sanction, now)
		}
		// Warning: the reward still applies, with a reputation hit.
	}

	// Karma for the action itself, plus the warning penalty when flagged.
	karmaBefore := ledger.Karma
	out := o.Karma.Apply(ctx, req.ActorID, karmaSignal, ledger.Karma)
	ledger.Karma = out.NewTotal
	if flag != nil && sanction != nil && sanction.Action == models.SanctionWarning {
		warned := o.Karma.Apply(ctx, req.ActorID, catalog.KarmaSignalWarningIssued, ledger.Karma)
		ledger.Karma = warned.NewTotal
	}
	karmaDelta := ledger.Karma - karmaBefore

	record := &models.RewardTransaction{
		ID:            uuid.New(),
		UserID:        req.ActorID,
		ActionKind:    req.Kind,
		EntryType:     entryType,
		XPDelta:       reward.xp,
		CoinsDelta:    reward.coins,
		GemsDelta:     reward.gems,
		KarmaDelta:    karmaDelta,
		CounterpartID: counterpart,
		Metadata:      mustMarshal(req.Meta),
	}
	if target := req.TargetID(); target != uuid.Nil {
		record.TargetID = &target
	}
	if err := o.TxLog.InsertTx(ctx, tx, record); err != nil {
		return nil, fmt.Errorf("insert transaction record: %w", err)
	}

	ledger.XP += reward.xp
	ledger.Coins += reward.coins
	ledger.Gems += reward.gems
	caps.Record(req.Kind, reward.coins, reward.xp)

	streakChanged := false
	if req.Kind == models.ActionPostVibe {
		streakChanged = advanceStreak(ledger, now)
	}

	stats, err := o.Stats.GetForUpdate(ctx, tx, req.ActorID)
	if err != nil {
		return nil, fmt.Errorf("lock stats: %w", err)
	}
	bumpStats(stats, req)

	completed, err := o.Missions.AdvanceTx(ctx, tx, req.ActorID, req.Kind, now)
	if err != nil {
		return nil, fmt.Errorf("advance missions: %w", err)
	}
	for _, tmpl := range completed {
		o.Logger.Info("mission completed", "user_id", req.ActorID, "mission_id", tmpl.ID)
	}

	var earnedBadges []string

	// Streak milestones pay at the exact day count, once per badge.
	if milestone == nil && streakChanged {
		milestone = o.Catalog.MilestoneForDays(ledger.PostingStreak)
	}
	if milestone != nil {
		ids, err := o.awardMilestone(ctx, tx, req.ActorID, ledger, caps, milestone, now)
		if err != nil {
			return nil, err
		}
		if req.Kind == models.ActionStreakMilestone && len(ids) == 0 {
			return blockedResult(models.BlockAlreadyClaimed, "streak milestone already claimed"), nil
		}
		earnedBadges = append(earnedBadges, ids...)
	}

	ledger.Level = o.Catalog.LevelForXP(ledger.XP)
	ledger.Tier = o.Catalog.TierForXP(ledger.XP)

	// Badge scan runs after progression so level criteria see fresh values.
	scanned, err := o.scanBadges(ctx, tx, req.ActorID, ledger, stats, caps, now)
	if err != nil {
		return nil, err
	}
	earnedBadges = append(earnedBadges, scanned...)

	ledger.Level = o.Catalog.LevelForXP(ledger.XP)
	ledger.Tier = o.Catalog.TierForXP(ledger.XP)

	if err := o.Stats.Update(ctx, tx, stats); err != nil {
		return nil, fmt.Errorf("update stats: %w", err)
	}
	if err := o.Caps.Update(ctx, tx, caps); err != nil {
		return nil, fmt.Errorf("update cap window: %w", err)
	}
	if err := o.Ledgers.Update(ctx, tx, ledger); err != nil {
		return nil, fmt.Errorf("update ledger: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit action: %w", err)
	}

	res := successResult(ledger, record.ID)
	res.XPEarned = record.XPDelta
	res.CoinsEarned = record.CoinsDelta
	res.GemsEarned = record.GemsDelta
	res.KarmaChange = karmaDelta
	res.NewlyEarnedBadges = earnedBadges
	if sanction != nil {
		res.Sanction = sanction
		res.Message = sanction.Message
	}
	return res, nil
}

// runFraudChecks gathers detector input, records any flag, and resolves the
// sanction. Only earning events are screened; the spend path has nothing to
// farm.
func (o *Orchestrator) runFraudChecks(ctx context.Context, tx pgx.Tx, req *models.ActionRequest, caps *models.DailyCapState, reward pendingReward, now time.Time) (*models.FraudCheck, *models.SanctionDecision, error) {
	input := FraudInput{
		UserID:     req.ActorID,
		DailyCoins: caps.Coins + reward.coins,
		DailyXP:    caps.XP + reward.xp,
		Medians:    o.Cohort.Medians(ctx),
	}
	var err error
	if input.Posts5Min, err = o.TxLog.CountApplied(ctx, req.ActorID, models.ActionPostVibe, now.Add(-velocityShortWindow)); err != nil {
		return nil, nil, fmt.Errorf("count recent posts: %w", err)
	}
	if input.Posts1Hour, err = o.TxLog.CountApplied(ctx, req.ActorID, models.ActionPostVibe, now.Add(-velocityLongWindow)); err != nil {
		return nil, nil, fmt.Errorf("count hourly posts: %w", err)
	}
	if input.Reactions5Min, err = o.TxLog.CountApplied(ctx, req.ActorID, models.ActionReact, now.Add(-velocityShortWindow)); err != nil {
		return nil, nil, fmt.Errorf("count recent reactions: %w", err)
	}
	if input.Reactions1Hour, err = o.TxLog.CountApplied(ctx, req.ActorID, models.ActionReact, now.Add(-velocityLongWindow)); err != nil {
		return nil, nil, fmt.Errorf("count hourly reactions: %w", err)
	}
	if input.CounterpartCounts, input.TotalInteractions, err = o.TxLog.CounterpartCounts(ctx, req.ActorID, now.Add(-velocityLongWindow)); err != nil {
		return nil, nil, fmt.Errorf("count counterparts: %w", err)
	}

	flag := o.Detector.Check(input)
	if flag == nil {
		return nil, nil, nil
	}
	flag.CreatedAt = now
	if err := o.Frauds.InsertTx(ctx, tx, flag); err != nil {
		return nil, nil, fmt.Errorf("record fraud flag: %w", err)
	}
	flagCount, err := o.Frauds.CountByUserTx(ctx, tx, req.ActorID)
	if err != nil {
		return nil, nil, fmt.Errorf("count fraud flags: %w", err)
	}
	repeat, err := o.Frauds.HasPriorSevereTx(ctx, tx, req.ActorID, flag.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("check fraud history: %w", err)
	}
	decision := o.Policy.Decide(flag.Severity, flagCount, repeat)
	o.Logger.Warn("fraud flag raised",
		"user_id", req.ActorID, "check_type", flag.CheckType,
		"severity", flag.Severity, "sanction", decision.Action, "reason", flag.FlagReason)
	return flag, &decision, nil
}

// applySanctionedRollback applies the reward and immediately reverses it, so
// the audit trail shows both the attempt and the reversal while the ledger
// nets to its prior state plus the karma penalty.
func (o *Orchestrator) applySanctionedRollback(ctx context.Context, tx pgx.Tx, req *models.ActionRequest, ledger *models.UserLedger, reward pendingReward, entryType string, counterpart *uuid.UUID, sanction *models.SanctionDecision) (*models.RewardResult, error) {
	record := &models.RewardTransaction{
		ID:            uuid.New(),
		UserID:        req.ActorID,
		ActionKind:    req.Kind,
		EntryType:     entryType,
		XPDelta:       reward.xp,
		CoinsDelta:    reward.coins,
		GemsDelta:     reward.gems,
		CounterpartID: counterpart,
		Metadata:      mustMarshal(req.Meta),
	}
	if target := req.TargetID(); target != uuid.Nil {
		record.TargetID = &target
	}
	if err := o.TxLog.InsertTx(ctx, tx, record); err != nil {
		return nil, fmt.Errorf("insert flagged record: %w", err)
	}

	karmaBefore := ledger.Karma
	out := o.Karma.Apply(ctx, req.ActorID, catalog.KarmaSignalFraudRollback, ledger.Karma)
	ledger.Karma = out.NewTotal

	// The penalty rides the reversal record so the log still sums to the
	// ledger: the attempt and its reversal cancel, the net karma hit stays.
	rev := record.Reversed()
	rev.KarmaDelta = ledger.Karma - karmaBefore
	if _, err := o.TxLog.InsertRollbackTx(ctx, tx, rev); err != nil {
		return nil, fmt.Errorf("insert reversal record: %w", err)
	}

	if err := o.Ledgers.Update(ctx, tx, ledger); err != nil {
		return nil, fmt.Errorf("update ledger: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit sanctioned rollback: %w", err)
	}

	res := blockedResult(models.BlockFraudSanction, sanction.Message)
	res.Sanction = sanction
	res.KarmaChange = ledger.Karma - karmaBefore
	res.NewTotals = totalsFrom(ledger)
	return res, nil
}

// applySanctionHold suspends or bans the actor instead of paying the reward.
func (o *Orchestrator) applySanctionHold(ctx context.Context, tx pgx.Tx, ledger *models.UserLedger, sanction *models.SanctionDecision, now time.Time) (*models.RewardResult, error) {
	ledger.SanctionCount++
	if sanction.Action == models.SanctionBan {
		ledger.Standing = models.StandingBanned
		ledger.SuspendedUntil = nil
	} else {
		until := now.Add(sanction.Duration)
		ledger.Standing = models.StandingSuspended
		ledger.SuspendedUntil = &until
	}
	if err := o.Ledgers.Update(ctx, tx, ledger); err != nil {
		return nil, fmt.Errorf("update ledger standing: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit sanction: %w", err)
	}

	res := blockedResult(models.BlockFraudSanction, sanction.Message)
	res.Sanction = sanction
	res.NewTotals = totalsFrom(ledger)
	return res, nil
}

// awardMilestone pays a streak milestone through its badge: the badge insert
// is the once-only gate, the bonus record carries the payout.
func (o *Orchestrator) awardMilestone(ctx context.Context, tx pgx.Tx, userID uuid.UUID, ledger *models.UserLedger, caps *models.DailyCapState, m *models.StreakMilestone, now time.Time) ([]string, error) {
	inserted, err := o.Badges.AwardTx(ctx, tx, userID, m.BadgeID, now)
	if err != nil {
		return nil, fmt.Errorf("award streak badge %s: %w", m.BadgeID, err)
	}
	if !inserted {
		return nil, nil
	}
	bonus := &models.RewardTransaction{
		ID:         uuid.New(),
		UserID:     userID,
		ActionKind: models.ActionStreakMilestone,
		EntryType:  models.EntryBadgeBonus,
		XPDelta:    m.RewardXP,
		CoinsDelta: m.RewardCoins,
		GemsDelta:  m.RewardGems,
	}
	if err := o.TxLog.InsertTx(ctx, tx, bonus); err != nil {
		return nil, fmt.Errorf("insert milestone bonus: %w", err)
	}
	ledger.XP += m.RewardXP
	ledger.Coins += m.RewardCoins
	ledger.Gems += m.RewardGems
	caps.Record(models.ActionStreakMilestone, m.RewardCoins, m.RewardXP)
	return []string{m.BadgeID}, nil
}

// scanBadges awards every newly satisfied badge and achievement, paying each
// bonus through its own record.
func (o *Orchestrator) scanBadges(ctx context.Context, tx pgx.Tx, userID uuid.UUID, ledger *models.UserLedger, stats *models.UserStats, caps *models.DailyCapState, now time.Time) ([]string, error) {
	earned, err := o.Badges.EarnedIDsTx(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("load earned badges: %w", err)
	}
	snap := snapshotFrom(ledger, stats)

	var out []string
	for _, def := range o.Eligibility.NewlyEligible(snap, earned) {
		inserted, err := o.Badges.AwardTx(ctx, tx, userID, def.ID, now)
		if err != nil {
			return nil, fmt.Errorf("award badge %s: %w", def.ID, err)
		}
		if !inserted {
			continue
		}
		out = append(out, def.ID)
		if def.RewardXP == 0 && def.RewardCoins == 0 && def.RewardGems == 0 {
			continue
		}
		bonus := &models.RewardTransaction{
			ID:         uuid.New(),
			UserID:     userID,
			ActionKind: def.ID,
			EntryType:  models.EntryBadgeBonus,
			XPDelta:    def.RewardXP,
			CoinsDelta: def.RewardCoins,
			GemsDelta:  def.RewardGems,
		}
		if err := o.TxLog.InsertTx(ctx, tx, bonus); err != nil {
			return nil, fmt.Errorf("insert badge bonus: %w", err)
		}
		ledger.XP += def.RewardXP
		ledger.Coins += def.RewardCoins
		ledger.Gems += def.RewardGems
		caps.Record(def.ID, def.RewardCoins, def.RewardXP)
	}
	return out, nil
}

// Rollback reverses a committed transaction, typically after manual review.
// A repeat call is a no-op: the reversal insert carries the only-once guard.
func (o *Orchestrator) Rollback(ctx context.Context, txID uuid.UUID) (*models.RewardResult, error) {
	original, err := o.TxLog.GetByID(ctx, txID)
	if err != nil {
		return nil, fmt.Errorf("load transaction %s: %w", txID, err)
	}
	if original.EntryType == models.EntryRollback {
		return nil, fmt.Errorf("transaction %s is itself a rollback", txID)
	}

	tx, err := o.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin rollback tx: %w", err)
	}
	defer tx.Rollback(ctx)

	ledger, err := o.Ledgers.GetForUpdate(ctx, tx, original.UserID)
	if err != nil {
		return nil, fmt.Errorf("lock ledger: %w", err)
	}

	rev := original.Reversed()
	// When the earn was already spent the ledger cannot absorb the full
	// reversal. Clamp each delta so balances stay at zero and record the
	// applied amounts, keeping the log summable against the ledger.
	if ledger.XP+rev.XPDelta < 0 {
		rev.XPDelta = -ledger.XP
	}
	if ledger.Coins+rev.CoinsDelta < 0 {
		rev.CoinsDelta = -ledger.Coins
	}
	if ledger.Gems+rev.GemsDelta < 0 {
		rev.GemsDelta = -ledger.Gems
	}
	if ledger.Karma+rev.KarmaDelta < 0 {
		rev.KarmaDelta = -ledger.Karma
	}
	inserted, err := o.TxLog.InsertRollbackTx(ctx, tx, rev)
	if err != nil {
		return nil, fmt.Errorf("insert reversal: %w", err)
	}
	if !inserted {
		res := successResult(ledger, txID)
		res.Message = "transaction already reversed"
		return res, nil
	}

	ledger.XP += rev.XPDelta
	ledger.Coins += rev.CoinsDelta
	ledger.Gems += rev.GemsDelta
	ledger.Karma += rev.KarmaDelta
	ledger.Level = o.Catalog.LevelForXP(ledger.XP)
	ledger.Tier = o.Catalog.TierForXP(ledger.XP)

	// Give the cap budget back so a reversed action cannot starve the
	// actor's legitimate earning for the rest of the window.
	if original.CoinsDelta > 0 || original.XPDelta > 0 {
		caps, err := o.Caps.GetForUpdate(ctx, tx, original.UserID)
		if err != nil {
			return nil, fmt.Errorf("lock cap window: %w", err)
		}
		caps.Refund(original.ActionKind, original.CoinsDelta, original.XPDelta)
		if err := o.Caps.Update(ctx, tx, caps); err != nil {
			return nil, fmt.Errorf("refund cap window: %w", err)
		}
	}

	if err := o.Ledgers.Update(ctx, tx, ledger); err != nil {
		return nil, fmt.Errorf("update ledger: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit rollback: %w", err)
	}

	res := successResult(ledger, rev.ID)
	res.XPEarned = rev.XPDelta
	res.CoinsEarned = rev.CoinsDelta
	res.GemsEarned = rev.GemsDelta
	res.KarmaChange = rev.KarmaDelta
	return res, nil
}

// advanceStreak rolls the posting streak for a new post: consecutive day
// extends it, a gap resets it to one, a repeat day changes nothing. Returns
// whether the streak value changed.
func advanceStreak(ledger *models.UserLedger, now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	prev := ledger.PostingStreak
	switch {
	case ledger.LastActiveDate == nil:
		ledger.PostingStreak = 1
	case ledger.LastActiveDate.Equal(today):
		// Second post today; streak unchanged.
	case ledger.LastActiveDate.Equal(today.AddDate(0, 0, -1)):
		ledger.PostingStreak++
	default:
		ledger.PostingStreak = 1
	}
	ledger.LastActiveDate = &today
	if ledger.PostingStreak > ledger.LongestStreak {
		ledger.LongestStreak = ledger.PostingStreak
	}
	return ledger.PostingStreak != prev
}

// bumpStats advances the eligibility counters touched by one applied action.
func bumpStats(stats *models.UserStats, req *models.ActionRequest) {
	switch meta := req.Meta.(type) {
	case models.PostVibeMeta:
		stats.TotalVibes++
		if meta.Emotion != "" {
			if stats.EmotionCounts == nil {
				stats.EmotionCounts = map[string]int{}
			}
			stats.EmotionCounts[meta.Emotion]++
		}
		if meta.City != "" {
			if stats.Cities == nil {
				stats.Cities = map[string]int{}
			}
			stats.Cities[meta.City]++
		}
	case models.ReactMeta:
		stats.ReactionsGiven++
	case models.CommentMeta:
		stats.CommentsMade++
	case models.ShareMeta:
		stats.SharesGiven++
	case models.ChallengeCompleteMeta:
		stats.ChallengesCompleted++
	case models.MissionCompleteMeta:
		stats.MissionsCompleted++
	}
}

func snapshotFrom(ledger *models.UserLedger, stats *models.UserStats) *models.UserStatsSnapshot {
	return &models.UserStatsSnapshot{
		UserID:              ledger.UserID,
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
	}
}

func totalsFrom(l *models.UserLedger) models.LedgerTotals {
	return models.LedgerTotals{
		XP: l.XP, Coins: l.Coins, Gems: l.Gems,
		Karma: l.Karma, Level: l.Level, Tier: l.Tier,
	}
}

func blockedResult(reason, message string) *models.RewardResult {
	return &models.RewardResult{
		BlockReason: reason,
		Message:     message,
		CappedByDaily: reason == models.BlockDailyCoinCap ||
			reason == models.BlockActionXPCap ||
			reason == models.BlockActionDailyLimit,
	}
}

func successResult(l *models.UserLedger, txID uuid.UUID) *models.RewardResult {
	id := txID
	return &models.RewardResult{
		Success:       true,
		NewTotals:     totalsFrom(l),
		TransactionID: &id,
	}
}

func mustMarshal(v any) json.RawMessage {
	s, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return s
}
