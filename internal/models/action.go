package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Action kind enums. Every inbound request names exactly one of these; the
// metadata union below carries the kind-specific fields.
const (
	ActionPostVibe          = "post_vibe"
	ActionReact             = "react"
	ActionComment           = "comment"
	ActionShare             = "share"
	ActionChallengeComplete = "challenge_complete"
	ActionMissionComplete   = "mission_complete"
	ActionStreakMilestone   = "streak_milestone"
	ActionSpend             = "spend"
	ActionDailyLogin        = "daily_login"
)

// ErrUnknownActionKind is returned when decoding metadata for a kind the
// engine does not handle.
var ErrUnknownActionKind = errors.New("unknown action kind")

// ActionMetadata is the closed union of per-kind request payloads. Each
// variant validates its own required fields so the orchestrator never sees a
// half-formed request.
type ActionMetadata interface {
	ActionKind() string
	Validate() error
}

type PostVibeMeta struct {
	VibeID  uuid.UUID `json:"vibe_id"`
	Emotion string    `json:"emotion,omitempty"`
	City    string    `json:"city,omitempty"`
}

func (PostVibeMeta) ActionKind() string { return ActionPostVibe }
func (m PostVibeMeta) Validate() error {
	if m.VibeID == uuid.Nil {
		return errors.New("post_vibe: vibe_id is required")
	}
	return nil
}

type ReactMeta struct {
	TargetVibeID uuid.UUID `json:"target_vibe_id"`
	Reaction     string    `json:"reaction,omitempty"`
}

func (ReactMeta) ActionKind() string { return ActionReact }
func (m ReactMeta) Validate() error {
	if m.TargetVibeID == uuid.Nil {
		return errors.New("react: target_vibe_id is required")
	}
	return nil
}

type CommentMeta struct {
	TargetVibeID uuid.UUID `json:"target_vibe_id"`
	Length       int       `json:"length"`
}

func (CommentMeta) ActionKind() string { return ActionComment }
func (m CommentMeta) Validate() error {
	if m.TargetVibeID == uuid.Nil {
		return errors.New("comment: target_vibe_id is required")
	}
	if m.Length <= 0 {
		return errors.New("comment: length must be > 0")
	}
	return nil
}

type ShareMeta struct {
	VibeID uuid.UUID `json:"vibe_id"`
}

func (ShareMeta) ActionKind() string { return ActionShare }
func (m ShareMeta) Validate() error {
	if m.VibeID == uuid.Nil {
		return errors.New("share: vibe_id is required")
	}
	return nil
}

type ChallengeCompleteMeta struct {
	ChallengeID string `json:"challenge_id"`
}

func (ChallengeCompleteMeta) ActionKind() string { return ActionChallengeComplete }
func (m ChallengeCompleteMeta) Validate() error {
	if m.ChallengeID == "" {
		return errors.New("challenge_complete: challenge_id is required")
	}
	return nil
}

type MissionCompleteMeta struct {
	MissionID string `json:"mission_id"`
}

func (MissionCompleteMeta) ActionKind() string { return ActionMissionComplete }
func (m MissionCompleteMeta) Validate() error {
	if m.MissionID == "" {
		return errors.New("mission_complete: mission_id is required")
	}
	return nil
}

type StreakMilestoneMeta struct {
	Days int `json:"days"`
}

func (StreakMilestoneMeta) ActionKind() string { return ActionStreakMilestone }
func (m StreakMilestoneMeta) Validate() error {
	if m.Days <= 0 {
		return errors.New("streak_milestone: days must be > 0")
	}
	return nil
}

type SpendMeta struct {
	Coins  int    `json:"coins"`
	Gems   int    `json:"gems"`
	Reason string `json:"reason"`
}

func (SpendMeta) ActionKind() string { return ActionSpend }
func (m SpendMeta) Validate() error {
	if m.Coins < 0 || m.Gems < 0 {
		return errors.New("spend: amounts must be >= 0")
	}
	if m.Coins == 0 && m.Gems == 0 {
		return errors.New("spend: nothing to spend")
	}
	if m.Reason == "" {
		return errors.New("spend: reason is required")
	}
	return nil
}

type DailyLoginMeta struct{}

func (DailyLoginMeta) ActionKind() string { return ActionDailyLogin }
func (DailyLoginMeta) Validate() error    { return nil }

// ActionRequest is one inbound action from an out-of-scope layer.
type ActionRequest struct {
	Kind    string         `json:"action"`
	ActorID uuid.UUID      `json:"actor_id"`
	Meta    ActionMetadata `json:"metadata"`
}

// Validate checks the envelope and the kind-specific metadata.
func (r *ActionRequest) Validate() error {
	if r.ActorID == uuid.Nil {
		return errors.New("actor_id is required")
	}
	if r.Meta == nil {
		return fmt.Errorf("%w: %q", ErrUnknownActionKind, r.Kind)
	}
	if r.Meta.ActionKind() != r.Kind {
		return fmt.Errorf("metadata kind %q does not match action %q", r.Meta.ActionKind(), r.Kind)
	}
	return r.Meta.Validate()
}

// TargetID returns the content id this action touches, or uuid.Nil for
// actions without a target. Recorded on the transaction for audit and
// collaboration-ring analysis.
func (r *ActionRequest) TargetID() uuid.UUID {
	switch m := r.Meta.(type) {
	case PostVibeMeta:
		return m.VibeID
	case ReactMeta:
		return m.TargetVibeID
	case CommentMeta:
		return m.TargetVibeID
	case ShareMeta:
		return m.VibeID
	default:
		return uuid.Nil
	}
}

// DecodeActionMetadata unmarshals the raw metadata for the given kind into
// its concrete variant. The switch is exhaustive over the action enum; an
// unknown kind is a hard error, never a silently-empty payload.
func DecodeActionMetadata(kind string, raw json.RawMessage) (ActionMetadata, error) {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	var (
		meta ActionMetadata
		err  error
	)
	switch kind {
	case ActionPostVibe:
		var m PostVibeMeta
		err = json.Unmarshal(raw, &m)
		meta = m
	case ActionReact:
		var m ReactMeta
		err = json.Unmarshal(raw, &m)
		meta = m
	case ActionComment:
		var m CommentMeta
		err = json.Unmarshal(raw, &m)
		meta = m
	case ActionShare:
		var m ShareMeta
		err = json.Unmarshal(raw, &m)
		meta = m
	case ActionChallengeComplete:
		var m ChallengeCompleteMeta
		err = json.Unmarshal(raw, &m)
		meta = m
	case ActionMissionComplete:
		var m MissionCompleteMeta
		err = json.Unmarshal(raw, &m)
		meta = m
	case ActionStreakMilestone:
		var m StreakMilestoneMeta
		err = json.Unmarshal(raw, &m)
		meta = m
	case ActionSpend:
		var m SpendMeta
		err = json.Unmarshal(raw, &m)
		meta = m
	case ActionDailyLogin:
		var m DailyLoginMeta
		err = json.Unmarshal(raw, &m)
		meta = m
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownActionKind, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s metadata: %w", kind, err)
	}
	return meta, nil
}
