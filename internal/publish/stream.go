// Package publish announces finished matches on a Redis stream.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/roach88/cricscore/internal/engine"
	"github.com/roach88/cricscore/internal/match"
)

// DefaultStream is the stream finished matches are appended to.
const DefaultStream = "cricscore.matches.completed"

// Completed is the payload of one stream entry.
type Completed struct {
	ID     string `json:"id"`
	TeamA  string `json:"team_a"`
	TeamB  string `json:"team_b"`
	Result string `json:"result"`
}

// StreamPublisher publishes finished matches to a Redis stream.
type StreamPublisher struct {
	client redis.Cmdable
	stream string
}

// NewStreamPublisher creates a publisher for stream. An empty stream uses
// DefaultStream.
func NewStreamPublisher(client redis.Cmdable, stream string) *StreamPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &StreamPublisher{
		client: client,
		stream: stream,
	}
}

// Stream returns the stream key entries are appended to.
func (p *StreamPublisher) Stream() string {
	return p.stream
}

// PublishCompleted appends a finished match to the stream.
func (p *StreamPublisher) PublishCompleted(ctx context.Context, id string, rec match.Record) error {
	data, err := json.Marshal(Completed{
		ID:     id,
		TeamA:  rec.TeamA,
		TeamB:  rec.TeamB,
		Result: rec.Result,
	})
	if err != nil {
		return fmt.Errorf("marshaling completed match: %w", err)
	}

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"data":     string(data),
			"match_id": id,
			"result":   rec.Result,
		},
	}).Err()
}

// Recorder saves through next and then publishes the saved match.
//
// Publishing is best-effort: a publish failure is logged and never turns
// a successful save into an error.
type Recorder struct {
	next      engine.Recorder
	publisher *StreamPublisher
	logger    *slog.Logger
}

// NewRecorder decorates next with stream publishing.
func NewRecorder(next engine.Recorder, publisher *StreamPublisher, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{next: next, publisher: publisher, logger: logger}
}

// SaveMatch implements engine.Recorder.
func (r *Recorder) SaveMatch(ctx context.Context, rec match.Record) (string, error) {
	id, err := r.next.SaveMatch(ctx, rec)
	if err != nil {
		return "", err
	}
	if err := r.publisher.PublishCompleted(ctx, id, rec); err != nil {
		r.logger.Error("publish completed match failed",
			"stream", r.publisher.Stream(),
			"match_id", id,
			"error", err,
		)
		return id, nil
	}
	r.logger.Debug("published completed match", "stream", r.publisher.Stream(), "match_id", id)
	return id, nil
}
