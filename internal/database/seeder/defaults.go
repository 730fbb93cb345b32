package seeder

import "skill-graph/internal/repository"

// Defaults seeds the graph described by snap.
func Defaults(snap repository.Snapshot, reset bool) []Seeder {
	return []Seeder{
		SnapshotSeeder{Snapshot: snap, Reset: reset},
	}
}
