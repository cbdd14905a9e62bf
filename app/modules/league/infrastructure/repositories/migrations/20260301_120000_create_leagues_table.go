package migrations

import (
	"context"
	"fmt"

	leaguedb "github.com/Black-And-White-Club/bakeoff-league/app/modules/league/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating leagues table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().
				Model((*leaguedb.LeagueRecord)(nil)).
				IfNotExists().
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create leagues table: %w", err)
			}

			if _, err := tx.NewCreateIndex().
				Model((*leaguedb.LeagueRecord)(nil)).
				Index("idx_leagues_owner_id").
				Column("owner_id").
				IfNotExists().
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create leagues owner index: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping leagues table...")

		if _, err := db.NewDropTable().
			Model((*leaguedb.LeagueRecord)(nil)).
			IfExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop leagues table: %w", err)
		}
		return nil
	})
}
