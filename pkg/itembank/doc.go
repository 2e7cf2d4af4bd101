// Package itembank provides read access to an educational question bank:
// draft items under authoring, published (production) items, and the
// concepts, tags, media assets and users they reference.
//
// It exposes a single Service interface backed by a pluggable Repository.
// The SQL implementation lives in repo/sqlstore and runs on PostgreSQL
// (repo/postgres) or SQLite (repo/sqlite).
//
// Child Records
//
// Options, hints, solutions and media links are stored in shared tables and
// keyed by the pair (owner_id, owner_type). A draft item and a published item
// may carry the same id; the owner type is what keeps their children apart.
// Listings fetch one page of items and then load each requested relation for
// the whole page with a single query, never one query per item.
//
// Metadata
//
// The meta columns are free-form JSON. They are decoded into Metadata and
// passed through untouched; the library never interprets their keys.
package itembank
