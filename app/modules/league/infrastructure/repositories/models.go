package leaguedb

import (
	"time"

	"github.com/uptrace/bun"
)

// LeagueRecord stores one league. The full league state lives in State as
// JSON; the other columns exist for lookups and ordering.
type LeagueRecord struct {
	bun.BaseModel `bun:"table:leagues,alias:l"`

	ID        string    `bun:"id,pk"`
	Name      string    `bun:"name,notnull"`
	OwnerID   string    `bun:"owner_id,notnull"`
	Position  int       `bun:"position,notnull,default:0"`
	State     string    `bun:"state,type:text,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
