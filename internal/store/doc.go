// Package store provides durable storage for finished matches.
//
// A saved match is the engine's opaque score data plus the team names,
// the result text, the owning user, a UUIDv7 id, and a creation time.
//
// # Backends
//
//   - Open: SQLite via mattn/go-sqlite3; schema.sql creates the table and
//     numbered migrations run above PRAGMA user_version
//   - OpenPostgres: PostgreSQL via lib/pq, schema managed by golang-migrate
//     from the embedded migrations directory
//
// # Ordering
//
//   - ListMatches returns newest first: ORDER BY created_at DESC, id DESC
//   - created_at is stored as unix milliseconds in both backends
//
// SQLite connections are opened in WAL mode with synchronous=NORMAL, a
// 5s busy timeout and foreign keys on, through a pool of one.
//
// The engine reaches the store only through RecorderFor, which binds a
// user id and satisfies engine.Recorder.
package store
