package leaguedb_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	leaguedb "github.com/Black-And-White-Club/bakeoff-league/app/modules/league/infrastructure/repositories"
	"github.com/Black-And-White-Club/bakeoff-league/app/modules/league/infrastructure/repositories/migrations"
	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/migrate"
	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	migrator := migrate.NewMigrator(db, migrations.Migrations)
	require.NoError(t, migrator.Init(ctx))
	_, err = migrator.Migrate(ctx)
	require.NoError(t, err)
	return db
}

func sampleLeague(id, name string) leaguetypes.League {
	return leaguetypes.League{
		ID:      leaguetypes.LeagueID(id),
		Name:    name,
		OwnerID: "p1",
		Players: []leaguetypes.PlayerID{"p1", "p2"},
		Teams: []leaguetypes.Team{
			{PlayerID: "p1", BakerIDs: []leaguetypes.BakerID{"b1"}},
			{PlayerID: "p2", BakerIDs: []leaguetypes.BakerID{"b2"}},
		},
		DraftState: leaguetypes.DraftState{
			PickOrder:          []leaguetypes.PlayerID{"p2", "p1"},
			Round:              2,
			AvailableBakers:    []leaguetypes.BakerID{"b3"},
			CurrentPlayerIndex: 1,
		},
		WeeklyLogs: []leaguetypes.WeeklyLog{
			{Week: 1, Events: []leaguetypes.WeeklyEvent{{Week: 1, BakerID: "b1", Type: leaguetypes.EventStarBaker}}},
		},
	}
}

func TestRepository_ReplaceThenList(t *testing.T) {
	db := newTestDB(t)
	repo := leaguedb.NewRepository(db)
	ctx := context.Background()

	want := []leaguetypes.League{sampleLeague("abc123", "Tent"), sampleLeague("zzz999", "Bread Week")}
	require.NoError(t, repo.Save(ctx, want))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestRepository_ReplaceUpdatesAndPrunes(t *testing.T) {
	db := newTestDB(t)
	repo := leaguedb.NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []leaguetypes.League{sampleLeague("a", "A"), sampleLeague("b", "B")}))

	renamed := sampleLeague("b", "B renamed")
	renamed.DraftState.IsDraftComplete = true
	require.NoError(t, repo.ReplaceLeagues(ctx, nil, []leaguetypes.League{renamed}))

	got, err := repo.ListLeagues(ctx, db)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "B renamed", got[0].Name)
	require.True(t, got[0].DraftState.IsDraftComplete)

	require.NoError(t, repo.Save(ctx, nil))
	got, err = repo.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestRepository_PreservesOrder(t *testing.T) {
	db := newTestDB(t)
	repo := leaguedb.NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []leaguetypes.League{sampleLeague("m", "M"), sampleLeague("a", "A")}))
	require.NoError(t, repo.Save(ctx, []leaguetypes.League{sampleLeague("a", "A"), sampleLeague("m", "M")}))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, leaguetypes.LeagueID("a"), got[0].ID)
	require.Equal(t, leaguetypes.LeagueID("m"), got[1].ID)
}

func TestRepository_MalformedState(t *testing.T) {
	db := newTestDB(t)
	repo := leaguedb.NewRepository(db)
	ctx := context.Background()

	_, err := db.NewInsert().Model(&leaguedb.LeagueRecord{
		ID:      "bad",
		Name:    "Bad",
		OwnerID: "p1",
		State:   "{not json",
	}).Exec(ctx)
	require.NoError(t, err)

	_, err = repo.Load(ctx)
	require.True(t, errors.Is(err, leaguedb.ErrMalformedRecord), "got %v", err)
}

func TestRepository_MismatchedID(t *testing.T) {
	db := newTestDB(t)
	repo := leaguedb.NewRepository(db)
	ctx := context.Background()

	_, err := db.NewInsert().Model(&leaguedb.LeagueRecord{
		ID:      "one",
		Name:    "One",
		OwnerID: "p1",
		State:   `{"id":"two","name":"One"}`,
	}).Exec(ctx)
	require.NoError(t, err)

	_, err = repo.Load(ctx)
	require.ErrorIs(t, err, leaguedb.ErrMalformedRecord)
}

func TestRepository_RunsInsideCallerTx(t *testing.T) {
	db := newTestDB(t)
	repo := leaguedb.NewRepository(db)
	ctx := context.Background()

	sentinel := errors.New("rollback")
	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := repo.ReplaceLeagues(ctx, tx, []leaguetypes.League{sampleLeague("t", "T")}); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, got)
}
