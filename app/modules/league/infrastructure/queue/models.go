package leaguequeue

import (
	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
)

// LeagueSaveJob carries a full snapshot of every persistable league.
// Sequence increases with each enqueue so the worker can drop snapshots that
// were overtaken by a newer one.
type LeagueSaveJob struct {
	Sequence int64                `json:"sequence"`
	Leagues  []leaguetypes.League `json:"leagues"`
}

// Kind returns the job type identifier for River
func (LeagueSaveJob) Kind() string { return "league_save" }
