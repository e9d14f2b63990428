package match

// BallsPerOver is the number of legal deliveries in an over.
const BallsPerOver = 6

// MaxWickets is the number of wickets that ends an innings (all out).
const MaxWickets = 10

// DefaultReviews is the DRS allowance each team starts a match with.
const DefaultReviews = 2

// NotOut is the dismissal description of a batter still at the crease.
const NotOut = "not out"

// Batter is one batter's line on the scorecard.
type Batter struct {
	Name    string `json:"name"`
	Runs    int    `json:"runs"`
	Balls   int    `json:"balls"`
	Fours   int    `json:"fours"`
	Sixes   int    `json:"sixes"`
	OutDesc string `json:"out_desc"`
	IsOut   bool   `json:"is_out"`
}

// NewBatter returns a batter who has not faced a ball.
func NewBatter(name string) Batter {
	return Batter{Name: name, OutDesc: NotOut}
}

// Bowler is one bowler's line on the scorecard.
type Bowler struct {
	Name    string `json:"name"`
	Balls   int    `json:"balls"` // legal deliveries only
	Maidens int    `json:"maidens"`
	Runs    int    `json:"runs"`
	Wickets int    `json:"wickets"`
}

// Extras counts runs not credited to a batter.
type Extras struct {
	Wides   int `json:"wd"`
	NoBalls int `json:"nb"`
	LegByes int `json:"lb"`
	Byes    int `json:"b"`
	Total   int `json:"total"`
}

// BallLog is one entry of the current-over ball log.
type BallLog struct {
	Kind  string `json:"kind"` // "run", "extra", "wicket"
	Runs  int    `json:"runs"` // runs conceded by the bowler on this ball
	Label string `json:"label"`
}

// Innings is one team's batting effort.
//
// INVARIANTS:
//   - StrikerIdx != NonStrikerIdx while two or more batters are at the crease
//   - BowlerIdx indexes Bowlers whenever Bowlers is non-empty
//   - Once Closed, no field changes
type Innings struct {
	TeamName         string   `json:"team_name"`
	Runs             int      `json:"runs"`
	Wickets          int      `json:"wickets"`
	Balls            int      `json:"balls"`
	Batters          []Batter `json:"batters"`
	Bowlers          []Bowler `json:"bowlers"`
	Extras           Extras   `json:"extras"`
	StrikerIdx       int      `json:"striker_idx"`
	NonStrikerIdx    int      `json:"non_striker_idx"`
	BowlerIdx        int      `json:"bowler_idx"`
	PartnershipRuns  int      `json:"partnership_runs"`
	PartnershipBalls int      `json:"partnership_balls"`
	Closed           bool     `json:"closed"`
}

// NewInnings returns an empty innings for the given team.
func NewInnings(team string) *Innings {
	return &Innings{
		TeamName:      team,
		Batters:       []Batter{},
		Bowlers:       []Bowler{},
		StrikerIdx:    0,
		NonStrikerIdx: 1,
		BowlerIdx:     0,
	}
}

// Striker returns the batter on strike.
func (inn *Innings) Striker() *Batter {
	return &inn.Batters[inn.StrikerIdx]
}

// NonStriker returns the batter at the non-striker's end.
func (inn *Innings) NonStriker() *Batter {
	return &inn.Batters[inn.NonStrikerIdx]
}

// Bowler returns the bowler of the current over.
func (inn *Innings) Bowler() *Bowler {
	return &inn.Bowlers[inn.BowlerIdx]
}

// RotateStrike swaps striker and non-striker.
func (inn *Innings) RotateStrike() {
	inn.StrikerIdx, inn.NonStrikerIdx = inn.NonStrikerIdx, inn.StrikerIdx
}

// FindBowler returns the index of the bowler whose name folds to the same
// value as name, or -1.
func (inn *Innings) FindBowler(name string) int {
	for i, b := range inn.Bowlers {
		if SameName(b.Name, name) {
			return i
		}
	}
	return -1
}

// AllOut reports whether the innings has lost all its wickets.
func (inn *Innings) AllOut() bool {
	return inn.Wickets >= MaxWickets
}

// Clone returns a deep copy of the innings.
func (inn *Innings) Clone() *Innings {
	if inn == nil {
		return nil
	}
	c := *inn
	c.Batters = append([]Batter(nil), inn.Batters...)
	c.Bowlers = append([]Bowler(nil), inn.Bowlers...)
	if c.Batters == nil {
		c.Batters = []Batter{}
	}
	if c.Bowlers == nil {
		c.Bowlers = []Bowler{}
	}
	return &c
}

// Side identifies one of the two teams by registration order.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// Valid reports whether s names a team.
func (s Side) Valid() bool {
	return s == SideA || s == SideB
}

// Match is the full state of one match.
type Match struct {
	TeamA          string      `json:"team_a"`
	TeamB          string      `json:"team_b"`
	SquadA         []string    `json:"squad_a,omitempty"`
	SquadB         []string    `json:"squad_b,omitempty"`
	MaxOvers       int         `json:"max_overs"`
	CurrentInnings int         `json:"current_innings"`
	Toss           string      `json:"toss"`
	BattingFirst   string      `json:"batting_first"`
	BattingSecond  string      `json:"batting_second"`
	Innings        [2]*Innings `json:"innings"` // index 0 is innings 1
	Target         *int        `json:"target"`
	ViewingInnings int         `json:"viewing_innings"`
	FreeHit        bool        `json:"free_hit"`
	DRSTeamA       int         `json:"drs_team_a"`
	DRSTeamB       int         `json:"drs_team_b"`
	Status         Status      `json:"match_status"`
	Phase          Phase       `json:"phase"`
	SuperOver      bool        `json:"is_super_over"`
	ThisOver       []BallLog   `json:"this_over"`
	Result         string      `json:"result,omitempty"`
}

// Inning returns innings n (1 or 2), or nil when it has not been created.
// Panics for any other n: asking for a third innings is a programming error.
func (m *Match) Inning(n int) *Innings {
	if n != 1 && n != 2 {
		panic("match: innings number out of range")
	}
	return m.Innings[n-1]
}

// Current returns the innings in progress.
func (m *Match) Current() *Innings {
	return m.Inning(m.CurrentInnings)
}

// Reviews returns the DRS counter for side.
func (m *Match) Reviews(s Side) int {
	if s == SideA {
		return m.DRSTeamA
	}
	return m.DRSTeamB
}

// SetReviews sets the DRS counter for side.
func (m *Match) SetReviews(s Side, n int) {
	if s == SideA {
		m.DRSTeamA = n
		return
	}
	m.DRSTeamB = n
}

// TeamName returns the team registered as side s.
func (m *Match) TeamName(s Side) string {
	if s == SideA {
		return m.TeamA
	}
	return m.TeamB
}

// BallsRemaining returns the legal deliveries left in the current innings.
func (m *Match) BallsRemaining() int {
	inn := m.Current()
	if inn == nil {
		return m.MaxOvers * BallsPerOver
	}
	left := m.MaxOvers*BallsPerOver - inn.Balls
	if left < 0 {
		return 0
	}
	return left
}

// Clone returns a deep copy of the match.
func (m *Match) Clone() *Match {
	c := *m
	c.SquadA = append([]string(nil), m.SquadA...)
	c.SquadB = append([]string(nil), m.SquadB...)
	c.Innings[0] = m.Innings[0].Clone()
	c.Innings[1] = m.Innings[1].Clone()
	if m.Target != nil {
		t := *m.Target
		c.Target = &t
	}
	c.ThisOver = append([]BallLog(nil), m.ThisOver...)
	return &c
}
