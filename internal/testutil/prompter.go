package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNoAnswer is returned when a ScriptedPrompter runs out of answers.
var ErrNoAnswer = errors.New("scripted prompter: no answer queued")

// Answer is one queued response. Exactly one of the kinds applies:
// a Text answer satisfies RequestText and a Confirm answer satisfies
// RequestConfirmation. Err makes the request fail.
type Answer struct {
	Text    string
	Confirm bool
	IsText  bool
	Err     error
}

// Text queues a RequestText answer.
func Text(s string) Answer { return Answer{Text: s, IsText: true} }

// Yes queues a positive confirmation.
func Yes() Answer { return Answer{Confirm: true} }

// No queues a negative confirmation.
func No() Answer { return Answer{Confirm: false} }

// Fail queues a failing request of either kind.
func Fail(err error) Answer { return Answer{Err: err} }

// Exchange is one recorded call on the prompter.
type Exchange struct {
	Kind    string // "text", "confirm", "notify"
	Prompt  string
	Reply   string
	Failure string
}

// ScriptedPrompter replays queued answers in order and records every
// prompt and notification it receives.
//
// Text() answers may also satisfy confirmations: "y"/"yes" is true and
// anything else false. This keeps YAML scenarios to a single answer list.
//
// When the queue is empty RequestText returns "" (the engine default) if
// AllowDefaults is set, and ErrNoAnswer otherwise. Confirmations on an
// empty queue always fail.
//
// Thread-safety: all methods are safe for concurrent use.
type ScriptedPrompter struct {
	mu            sync.Mutex
	answers       []Answer
	exchanges     []Exchange
	AllowDefaults bool

	// OnNotify, if set, is called for every notification after it is
	// recorded. Tests use it to attempt re-entrant events.
	OnNotify func(ctx context.Context, message string)
}

// NewScriptedPrompter creates a prompter with the given queued answers.
func NewScriptedPrompter(answers ...Answer) *ScriptedPrompter {
	return &ScriptedPrompter{answers: answers}
}

// Queue appends answers.
func (p *ScriptedPrompter) Queue(answers ...Answer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.answers = append(p.answers, answers...)
}

// Remaining returns the number of unused answers.
func (p *ScriptedPrompter) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.answers)
}

func (p *ScriptedPrompter) next() (Answer, bool) {
	if len(p.answers) == 0 {
		return Answer{}, false
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, true
}

// RequestText implements engine.Prompter.
func (p *ScriptedPrompter) RequestText(ctx context.Context, prompt string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		p.exchanges = append(p.exchanges, Exchange{Kind: "text", Prompt: prompt, Failure: err.Error()})
		return "", err
	}
	a, ok := p.next()
	if !ok {
		if p.AllowDefaults {
			p.exchanges = append(p.exchanges, Exchange{Kind: "text", Prompt: prompt})
			return "", nil
		}
		p.exchanges = append(p.exchanges, Exchange{Kind: "text", Prompt: prompt, Failure: ErrNoAnswer.Error()})
		return "", fmt.Errorf("%w for %q", ErrNoAnswer, prompt)
	}
	if a.Err != nil {
		p.exchanges = append(p.exchanges, Exchange{Kind: "text", Prompt: prompt, Failure: a.Err.Error()})
		return "", a.Err
	}
	if !a.IsText {
		p.exchanges = append(p.exchanges, Exchange{Kind: "text", Prompt: prompt, Failure: "confirmation queued"})
		return "", fmt.Errorf("scripted prompter: confirmation queued for text prompt %q", prompt)
	}
	p.exchanges = append(p.exchanges, Exchange{Kind: "text", Prompt: prompt, Reply: a.Text})
	return a.Text, nil
}

// RequestConfirmation implements engine.Prompter.
func (p *ScriptedPrompter) RequestConfirmation(ctx context.Context, prompt string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		p.exchanges = append(p.exchanges, Exchange{Kind: "confirm", Prompt: prompt, Failure: err.Error()})
		return false, err
	}
	a, ok := p.next()
	if !ok {
		p.exchanges = append(p.exchanges, Exchange{Kind: "confirm", Prompt: prompt, Failure: ErrNoAnswer.Error()})
		return false, fmt.Errorf("%w for %q", ErrNoAnswer, prompt)
	}
	if a.Err != nil {
		p.exchanges = append(p.exchanges, Exchange{Kind: "confirm", Prompt: prompt, Failure: a.Err.Error()})
		return false, a.Err
	}

	yes := a.Confirm
	if a.IsText {
		yes = IsYes(a.Text)
	}
	p.exchanges = append(p.exchanges, Exchange{Kind: "confirm", Prompt: prompt, Reply: fmt.Sprintf("%t", yes)})
	return yes, nil
}

// Notify implements engine.Prompter.
func (p *ScriptedPrompter) Notify(ctx context.Context, message string) {
	p.mu.Lock()
	p.exchanges = append(p.exchanges, Exchange{Kind: "notify", Prompt: message})
	hook := p.OnNotify
	p.mu.Unlock()

	if hook != nil {
		hook(ctx, message)
	}
}

// Exchanges returns a copy of every recorded call.
func (p *ScriptedPrompter) Exchanges() []Exchange {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Exchange(nil), p.exchanges...)
}

// Prompts returns the prompts of the recorded calls of the given kind.
func (p *ScriptedPrompter) Prompts(kind string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, x := range p.exchanges {
		if x.Kind == kind {
			out = append(out, x.Prompt)
		}
	}
	return out
}

// Notifications returns every notification message in order.
func (p *ScriptedPrompter) Notifications() []string {
	return p.Prompts("notify")
}

// IsYes reports whether s is an affirmative answer ("y" or "yes").
func IsYes(s string) bool {
	switch s {
	case "y", "Y", "yes", "Yes", "YES", "true":
		return true
	}
	return false
}
