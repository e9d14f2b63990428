package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/cricscore/internal/engine"
	"github.com/roach88/cricscore/internal/match"
)

// Scenario defines a scripted match.
// Scenarios drive the real engine through a sequence of ball events, with
// every prompt answered from a fixed answer list, then assert on the
// final state and the event log.
type Scenario struct {
	// Name uniquely identifies this scenario. Used for golden file names.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Setup registers the teams, records the toss, and opens innings 1.
	Setup MatchSetup `yaml:"setup"`

	// Answers are replayed in order for every text prompt and
	// confirmation. "y"/"yes" confirm; any other answer declines.
	Answers []string `yaml:"answers,omitempty"`

	// AllowDefaults answers text prompts with "" once Answers is used up,
	// so the engine falls back to its default names.
	AllowDefaults bool `yaml:"allow_defaults,omitempty"`

	// Steps are the events, applied in order.
	Steps []Step `yaml:"steps"`

	// Expect checks the final match state.
	Expect *Expect `yaml:"expect,omitempty"`

	// Assertions check the event log, notifications, and saved records.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// MatchSetup describes the match before the first ball.
type MatchSetup struct {
	TeamA  string   `yaml:"team_a"`
	TeamB  string   `yaml:"team_b"`
	Overs  int      `yaml:"overs"`
	SquadA []string `yaml:"squad_a,omitempty"`
	SquadB []string `yaml:"squad_b,omitempty"`

	// TossWinner and TossDecision are applied before Start. Leave
	// TossWinner empty to begin in phase setup.
	TossWinner   string `yaml:"toss_winner,omitempty"`
	TossDecision string `yaml:"toss_decision,omitempty"`

	Striker    string `yaml:"striker,omitempty"`
	NonStriker string `yaml:"non_striker,omitempty"`
	Bowler     string `yaml:"bowler,omitempty"`
}

// Toss is a toss step, used to restart a super over.
type Toss struct {
	Winner   string `yaml:"winner"`
	Decision string `yaml:"decision"`
}

// Step is one engine event. Exactly one event field must be set.
type Step struct {
	Runs      *int            `yaml:"runs,omitempty"`
	Extra     string          `yaml:"extra,omitempty"`
	Wicket    string          `yaml:"wicket,omitempty"`
	Review    string          `yaml:"review,omitempty"`
	Status    string          `yaml:"status,omitempty"`
	Resume    bool            `yaml:"resume,omitempty"`
	Draw      bool            `yaml:"draw,omitempty"`
	SuperOver bool            `yaml:"super_over,omitempty"`
	View      int             `yaml:"view,omitempty"`
	Toss      *Toss           `yaml:"toss,omitempty"`
	Start     *engine.Openers `yaml:"start,omitempty"`

	// ExpectError is the error code the step must fail with, e.g.
	// FREE_HIT_DISMISSAL. Empty means the step must succeed.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// kind names the event of the step, or "" if none or several are set.
func (s Step) kind() string {
	var kinds []string
	if s.Runs != nil {
		kinds = append(kinds, "runs")
	}
	if s.Extra != "" {
		kinds = append(kinds, "extra")
	}
	if s.Wicket != "" {
		kinds = append(kinds, "wicket")
	}
	if s.Review != "" {
		kinds = append(kinds, "review")
	}
	if s.Status != "" {
		kinds = append(kinds, "status")
	}
	if s.Resume {
		kinds = append(kinds, "resume")
	}
	if s.Draw {
		kinds = append(kinds, "draw")
	}
	if s.SuperOver {
		kinds = append(kinds, "super_over")
	}
	if s.View != 0 {
		kinds = append(kinds, "view")
	}
	if s.Toss != nil {
		kinds = append(kinds, "toss")
	}
	if s.Start != nil {
		kinds = append(kinds, "start")
	}
	if len(kinds) != 1 {
		return ""
	}
	return kinds[0]
}

// Expect is a subset match on the final state: only fields that are set
// are checked.
type Expect struct {
	Phase     string                `yaml:"phase,omitempty"`
	Status    string                `yaml:"status,omitempty"`
	Result    string                `yaml:"result,omitempty"`
	Target    *int                  `yaml:"target,omitempty"`
	FreeHit   *bool                 `yaml:"free_hit,omitempty"`
	DRSA      *int                  `yaml:"drs_a,omitempty"`
	DRSB      *int                  `yaml:"drs_b,omitempty"`
	SuperOver *bool                 `yaml:"super_over,omitempty"`
	Innings   map[int]InningsExpect `yaml:"innings,omitempty"`
}

// InningsExpect checks one innings.
type InningsExpect struct {
	Team       string `yaml:"team,omitempty"`
	Runs       *int   `yaml:"runs,omitempty"`
	Wickets    *int   `yaml:"wickets,omitempty"`
	Balls      *int   `yaml:"balls,omitempty"`
	Closed     *bool  `yaml:"closed,omitempty"`
	Striker    string `yaml:"striker,omitempty"`
	NonStriker string `yaml:"non_striker,omitempty"`
	Bowler     string `yaml:"bowler,omitempty"`
}

// Assertion validates the event log, the prompter traffic, or the store.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": an event matching Event is in the log
	// - "trace_order": the Events appear in this order
	// - "trace_count": exactly Count events match Event
	// - "notified": some notification contains Message
	// - "prompted": some text prompt or confirmation contains Message
	// - "saved": the store holds Count records for the scenario user,
	//   and the newest one matches Expect (team_a, team_b, result)
	Type string `yaml:"type"`

	// Event is "kind" or "kind:value", e.g. "wicket:caught".
	Event string `yaml:"event,omitempty"`

	// Events is the expected order (used by trace_order).
	Events []string `yaml:"events,omitempty"`

	// Count is the expected number of matches (trace_count, saved).
	Count int `yaml:"count,omitempty"`

	// Message is the expected substring (notified, prompted).
	Message string `yaml:"message,omitempty"`

	// Expect contains expected field values of the newest saved record.
	Expect map[string]string `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertNotified      = "notified"
	AssertPrompted      = "prompted"
	AssertSaved         = "saved"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// FindScenarioFiles returns the .yaml and .yml files under dir, in lexical
// order. A non-empty filter is a glob matched against the file name
// without extension.
func FindScenarioFiles(dir, filter string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if s.Description == "" {
		return errors.New("description is required")
	}
	if s.Setup.TeamA == "" || s.Setup.TeamB == "" {
		return errors.New("setup.team_a and setup.team_b are required")
	}
	if s.Setup.Overs <= 0 {
		return errors.New("setup.overs must be positive")
	}
	if s.Setup.TossWinner != "" {
		if _, err := match.ParseTossDecision(s.Setup.TossDecision); err != nil {
			return fmt.Errorf("setup.toss_decision: %w", err)
		}
	}
	if len(s.Steps) == 0 {
		return errors.New("steps list is required and must be non-empty")
	}
	if s.Expect == nil && len(s.Assertions) == 0 {
		return errors.New("expect or assertions is required")
	}

	for i, step := range s.Steps {
		if step.kind() == "" {
			return fmt.Errorf("steps[%d]: exactly one event is required", i)
		}
		if step.Toss != nil {
			if _, err := match.ParseTossDecision(step.Toss.Decision); err != nil {
				return fmt.Errorf("steps[%d].toss: %w", i, err)
			}
		}
	}

	if s.Expect != nil {
		for n := range s.Expect.Innings {
			if n != 1 && n != 2 {
				return fmt.Errorf("expect.innings: no innings %d", n)
			}
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Event == "" {
			return fmt.Errorf("assertions[%d]: event is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Events) == 0 {
			return fmt.Errorf("assertions[%d]: events list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Event == "" {
			return fmt.Errorf("assertions[%d]: event is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertNotified, AssertPrompted:
		if a.Message == "" {
			return fmt.Errorf("assertions[%d]: message is required for %s", index, a.Type)
		}
	case AssertSaved:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for saved", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
