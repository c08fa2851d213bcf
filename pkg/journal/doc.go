// Package journal persists completed evaluation runs to SQLite.
//
// Each run is stored as one row in the runs table plus one row per
// invariant result in the results table. The package also provides
// retention pruning, either on demand or on a cron schedule.
package journal
