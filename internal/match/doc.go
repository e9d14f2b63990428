// Package match provides the cricket match state types for CricScore.
//
// This package contains data definitions and pure helpers only. The scoring
// engine (internal/engine) is the single writer of these types; everything
// else reads copies.
//
// Key design constraints:
//   - Batters are append-only; striker and non-striker are indices into the
//     batter slice and are never invalidated by a wicket
//   - innings.Runs == sum(batter.Runs) + extras.Total at all times
//   - innings.Balls counts legal deliveries only; wides and no-balls never
//     advance an over
//   - Player names are compared with Fold, never with ==
//   - All JSON tags use snake_case
package match
