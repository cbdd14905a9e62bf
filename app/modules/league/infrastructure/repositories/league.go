package leaguedb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
	"github.com/uptrace/bun"
)

// ErrMalformedRecord is returned when a stored league cannot be decoded.
var ErrMalformedRecord = errors.New("malformed league record")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new league repository.
func NewRepository(db bun.IDB) *Impl {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// ListLeagues decodes every stored league in position order.
func (r *Impl) ListLeagues(ctx context.Context, db bun.IDB) ([]leaguetypes.League, error) {
	db = r.resolveDB(db)
	var records []LeagueRecord
	err := db.NewSelect().
		Model(&records).
		Order("position ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []leaguetypes.League{}, nil
		}
		return nil, fmt.Errorf("failed to list leagues: %w", err)
	}

	leagues := make([]leaguetypes.League, 0, len(records))
	for _, rec := range records {
		var league leaguetypes.League
		if err := json.Unmarshal([]byte(rec.State), &league); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedRecord, rec.ID, err)
		}
		if string(league.ID) != rec.ID {
			return nil, fmt.Errorf("%w: %s: state carries id %q", ErrMalformedRecord, rec.ID, league.ID)
		}
		leagues = append(leagues, league)
	}
	return leagues, nil
}

// ReplaceLeagues makes the stored set equal to leagues: rows are upserted in
// order and rows for leagues no longer present are deleted.
func (r *Impl) ReplaceLeagues(ctx context.Context, db bun.IDB, leagues []leaguetypes.League) error {
	db = r.resolveDB(db)
	now := time.Now().UTC()

	records := make([]LeagueRecord, 0, len(leagues))
	ids := make([]string, 0, len(leagues))
	for i, l := range leagues {
		state, err := json.Marshal(l)
		if err != nil {
			return fmt.Errorf("failed to encode league %s: %w", l.ID, err)
		}
		records = append(records, LeagueRecord{
			ID:        string(l.ID),
			Name:      l.Name,
			OwnerID:   string(l.OwnerID),
			Position:  i,
			State:     string(state),
			CreatedAt: now,
			UpdatedAt: now,
		})
		ids = append(ids, string(l.ID))
	}

	return db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		del := tx.NewDelete().Model((*LeagueRecord)(nil))
		if len(ids) > 0 {
			del = del.Where("id NOT IN (?)", bun.In(ids))
		} else {
			del = del.Where("1 = 1")
		}
		if _, err := del.Exec(ctx); err != nil {
			return fmt.Errorf("failed to prune leagues: %w", err)
		}

		if len(records) == 0 {
			return nil
		}
		_, err := tx.NewInsert().
			Model(&records).
			On("CONFLICT (id) DO UPDATE").
			Set("name = EXCLUDED.name").
			Set("owner_id = EXCLUDED.owner_id").
			Set("position = EXCLUDED.position").
			Set("state = EXCLUDED.state").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to upsert leagues: %w", err)
		}
		return nil
	})
}

// Load satisfies the league service's Store using the default connection.
func (r *Impl) Load(ctx context.Context) ([]leaguetypes.League, error) {
	return r.ListLeagues(ctx, nil)
}

// Save satisfies the league service's Store using the default connection.
func (r *Impl) Save(ctx context.Context, leagues []leaguetypes.League) error {
	return r.ReplaceLeagues(ctx, nil, leagues)
}
