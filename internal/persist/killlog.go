package persist

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// KillEntry is one row of the kill log. The sim never reads these back;
// they exist for offline balance analysis across runs.
type KillEntry struct {
	RunID     uuid.UUID
	Tick      int64
	Layer     int16
	KillerTpl int32
	VictimTpl int32
	Overkill  int32
}

type KillLogRepo struct {
	db *DB
}

func NewKillLogRepo(db *DB) *KillLogRepo {
	return &KillLogRepo{db: db}
}

// WriteBatch writes a batch of kill entries in a single transaction.
func (r *KillLogRepo) WriteBatch(ctx context.Context, entries []KillEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("kill log begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		if _, err := tx.Exec(ctx,
			`INSERT INTO kill_log (run_id, tick, layer, killer_tpl, victim_tpl, overkill)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			e.RunID, e.Tick, e.Layer, e.KillerTpl, e.VictimTpl, e.Overkill,
		); err != nil {
			return fmt.Errorf("kill log insert: %w", err)
		}
	}

	return tx.Commit(ctx)
}
