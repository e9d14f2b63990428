// Package harness runs scripted matches through the scoring engine.
//
// A scenario registers two teams, answers every prompt from a fixed list,
// applies a sequence of ball events, and checks the final state, the
// event log, and the matches saved to the store.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	setup:
//	  team_a: India
//	  team_b: Australia
//	  overs: 1
//	  toss_winner: India
//	  toss_decision: bat
//	  striker: Rohit
//	  non_striker: Gill
//	  bowler: Starc
//	steps:
//	  - runs: 4
//	  - extra: no_ball
//	  - wicket: caught
//	    expect_error: FREE_HIT_DISMISSAL
//	expect:
//	  phase: live
//	  innings:
//	    1: { runs: 5, wickets: 0, balls: 1 }
//	assertions:
//	  - type: notified
//	    message: "FREE HIT!"
//
// # Assertion Types
//
// The following assertion types are supported:
//
//   - trace_contains: an event "kind" or "kind:value" is in the log
//   - trace_order: events appear in the specified order
//   - trace_count: an event appears exactly N times
//   - notified: a notification contains the message
//   - prompted: a text prompt or confirmation contains the message
//   - saved: the store holds N records and the newest matches expect
//
// # Deterministic Testing
//
// The harness uses:
//   - Scripted answers (testutil.ScriptedPrompter), with leftovers reported
//   - Deterministic wall clock for saved records (testutil.DeterministicClock)
//   - Sequential record ids "<scenario>-<n>"
//   - In-memory SQLite database (isolated per scenario)
//
// This ensures identical snapshots across runs for golden file comparison.
package harness
