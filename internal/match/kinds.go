package match

import "fmt"

// Status is the match status label shown alongside the score.
// Only StatusDraw has a rule effect (it ends the match).
type Status string

const (
	StatusLive   Status = "live"
	StatusBreak  Status = "break"
	StatusLunch  Status = "lunch"
	StatusStumps Status = "stumps"
	StatusDraw   Status = "draw"
)

// Paused reports whether s is one of the interval statuses.
func (s Status) Paused() bool {
	return s == StatusBreak || s == StatusLunch || s == StatusStumps
}

// ParseStatus converts a status label to a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusLive, StatusBreak, StatusLunch, StatusStumps, StatusDraw:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown match status %q", s)
}

// Phase is the scoring engine state.
type Phase string

const (
	PhaseSetup        Phase = "setup"
	PhaseLive         Phase = "live"
	PhaseInningsBreak Phase = "innings_break"
	PhaseComplete     Phase = "complete"
)

// TossDecision is what the toss winner elected to do.
type TossDecision string

const (
	DecisionBat  TossDecision = "bat"
	DecisionBowl TossDecision = "bowl"
)

// ParseTossDecision accepts "bat" or "bowl" in any case.
func ParseTossDecision(s string) (TossDecision, error) {
	switch Fold(s) {
	case "bat":
		return DecisionBat, nil
	case "bowl", "field":
		return DecisionBowl, nil
	}
	return "", fmt.Errorf("unknown toss decision %q", s)
}

// ExtraKind is a delivery that does not count toward the over.
type ExtraKind string

const (
	Wide   ExtraKind = "wide"
	NoBall ExtraKind = "no_ball"
)

// Label returns the ball-log label for the extra.
func (k ExtraKind) Label() string {
	if k == Wide {
		return "WD"
	}
	return "NB"
}

// ParseExtraKind converts "wide"/"wd" and "no_ball"/"nb" to an ExtraKind.
func ParseExtraKind(s string) (ExtraKind, error) {
	switch Fold(s) {
	case "wide", "wd":
		return Wide, nil
	case "no_ball", "noball", "no-ball", "nb":
		return NoBall, nil
	}
	return "", fmt.Errorf("unknown extra %q", s)
}

// WicketKind is the mode of dismissal.
type WicketKind string

const (
	Bowled           WicketKind = "bowled"
	Caught           WicketKind = "caught"
	Stumped          WicketKind = "stumped"
	LBW              WicketKind = "lbw"
	RunOut           WicketKind = "run_out"
	RetiredHurt      WicketKind = "retired_hurt"
	HitWicket        WicketKind = "hit_wicket"
	ObstructingField WicketKind = "obstructing_field"
)

var wicketKinds = []WicketKind{Bowled, Caught, Stumped, LBW, RunOut, RetiredHurt, HitWicket, ObstructingField}

// WicketKinds returns every supported mode of dismissal in menu order.
func WicketKinds() []WicketKind {
	return append([]WicketKind(nil), wicketKinds...)
}

// ParseWicketKind converts a dismissal name to a WicketKind.
func ParseWicketKind(s string) (WicketKind, error) {
	f := Fold(s)
	for _, k := range wicketKinds {
		if f == string(k) || f == k.Phrase() {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown dismissal %q", s)
}

// Phrase is the dismissal as written in a scorecard, e.g. "hit wicket".
func (k WicketKind) Phrase() string {
	switch k {
	case RunOut:
		return "run out"
	case RetiredHurt:
		return "retired hurt"
	case HitWicket:
		return "hit wicket"
	case ObstructingField:
		return "obstructing the field"
	}
	return string(k)
}

// AllowedOnFreeHit reports whether a batter can be dismissed this way off
// a free hit.
func (k WicketKind) AllowedOnFreeHit() bool {
	return k == RunOut || k == RetiredHurt
}

// ConfirmsBatter reports whether the dismissed batter must be identified,
// because either batter can be out this way.
func (k WicketKind) ConfirmsBatter() bool {
	return k == RunOut || k == RetiredHurt
}
