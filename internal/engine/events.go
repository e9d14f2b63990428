package engine

import (
	"fmt"

	"github.com/roach88/cricscore/internal/match"
)

// EventKind names an engine event in the log.
type EventKind string

const (
	EventToss      EventKind = "toss"
	EventStart     EventKind = "start"
	EventRuns      EventKind = "runs"
	EventExtra     EventKind = "extra"
	EventWicket    EventKind = "wicket"
	EventReview    EventKind = "review"
	EventStatus    EventKind = "status"
	EventResume    EventKind = "resume"
	EventDraw      EventKind = "draw"
	EventSuperOver EventKind = "super_over"
	EventView      EventKind = "view"
)

// Event is one accepted event as stamped by Clock.
type Event struct {
	Seq     int64     `json:"seq"`
	Kind    EventKind `json:"kind"`
	Value   string    `json:"value,omitempty"`
	Innings int       `json:"innings"`
	Score   string    `json:"score"`
}

// scoreLine renders "runs/wickets (overs)" for the current innings.
func scoreLine(m *match.Match) string {
	inn := m.Current()
	if inn == nil {
		return "-"
	}
	return fmt.Sprintf("%d/%d (%s)", inn.Runs, inn.Wickets, match.Overs(inn.Balls))
}
