package match

import (
	"encoding/json"
	"fmt"
	"time"
)

// Record is a finished match as handed to the persistence port.
// ScoreData is opaque to the engine: the JSON of the two innings.
type Record struct {
	ID        string          `json:"id,omitempty"`
	TeamA     string          `json:"team_a"`
	TeamB     string          `json:"team_b"`
	ScoreData json.RawMessage `json:"score_data"`
	Result    string          `json:"result"`
	CreatedAt time.Time       `json:"created_at,omitempty"`
}

// ScoreData serializes both innings as a JSON array. An innings that was
// never started is encoded as null.
func (m *Match) ScoreData() (json.RawMessage, error) {
	data, err := json.Marshal(m.Innings)
	if err != nil {
		return nil, fmt.Errorf("marshal score data: %w", err)
	}
	return data, nil
}

// DecodeScoreData is the inverse of ScoreData.
func DecodeScoreData(data json.RawMessage) ([2]*Innings, error) {
	var innings [2]*Innings
	if len(data) == 0 {
		return innings, nil
	}
	if err := json.Unmarshal(data, &innings); err != nil {
		return innings, fmt.Errorf("decode score data: %w", err)
	}
	return innings, nil
}

// NewRecord builds the persistence record for a finished match.
func NewRecord(m *Match) (Record, error) {
	data, err := m.ScoreData()
	if err != nil {
		return Record{}, err
	}
	return Record{
		TeamA:     m.TeamA,
		TeamB:     m.TeamB,
		ScoreData: data,
		Result:    m.Result,
	}, nil
}
