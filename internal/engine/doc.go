// Package engine implements the live cricket scoring state machine.
//
// An Engine owns exactly one match.Match. Callers feed it one event at a
// time (runs, extras, wickets, reviews, status changes) and it applies
// cricket rules: strike rotation, free hits, the consecutive-over
// restriction for bowlers, partnerships, targets, innings completion and
// the match result.
//
// ARCHITECTURE:
//
// Single-Writer Events:
// Each public event method runs to completion, including any Prompter
// round-trips, before the next is accepted. There is no queue: an event
// that arrives while another is in flight is rejected with ENGINE_BUSY.
//
// Event Processing Flow:
//  1. The busy flag is taken and the match is snapshotted
//  2. The event mutates the match, prompting through the Prompter as needed
//  3. Over-end and innings-end checks run
//  4. At match end the Result Calculator runs and the Recorder is called
//  5. On success the event is stamped by the Clock and appended to the log;
//     on failure the snapshot is restored
//
// PORTS:
//
// Prompter is the Human-Input Port and Recorder the Persistence Port. A
// Prompter failure fails the event. A Recorder failure is logged and kept
// in SaveError; the completed match stays complete.
//
// CRITICAL PATTERNS:
//
// Logical Clock:
// Accepted events are stamped with a monotonic seq by Clock.Stamp.
// Wall-clock time is never used for ordering.
package engine
