package leaguerouter

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Black-And-White-Club/bakeoff-league/app/eventbus"
	leagueevents "github.com/Black-And-White-Club/bakeoff-league/app/events/league"
	leagueservice "github.com/Black-And-White-Club/bakeoff-league/app/modules/league/application"
	leaguehandlers "github.com/Black-And-White-Club/bakeoff-league/app/modules/league/infrastructure/handlers"
	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type stubStandings struct{}

func (stubStandings) Standings(_ context.Context, leagueID leaguetypes.LeagueID) []leagueservice.StandingView {
	return []leagueservice.StandingView{{Rank: 1, PlayerID: "p1", PlayerName: "You", Score: 7}}
}

func TestLeagueRouter_WeekSubmittedPublishesStandings(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := noop.NewTracerProvider().Tracer("test")
	bus := eventbus.NewEventBus(logger, nil)
	defer bus.Close()

	router, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
	require.NoError(t, err)

	lr := NewLeagueRouter(logger, router, bus, bus, tracer, prometheus.NewRegistry())
	require.NoError(t, lr.Configure(ctx, leaguehandlers.NewLeagueHandlers(stubStandings{}, logger, tracer)))

	updates, err := bus.Subscribe(ctx, leagueevents.StandingsUpdatedV1)
	require.NoError(t, err)

	go func() { _ = router.Run(ctx) }()
	defer lr.Close()
	<-router.Running()

	payload, err := json.Marshal(leagueevents.WeekSubmittedPayloadV1{LeagueID: "abc123", Week: 2})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(leagueevents.WeekSubmittedV1, message.NewMessage(watermill.NewUUID(), payload)))

	select {
	case msg := <-updates:
		msg.Ack()
		var got leagueevents.StandingsUpdatedPayloadV1
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		require.Equal(t, leaguetypes.LeagueID("abc123"), got.LeagueID)
		require.Equal(t, leagueevents.WeekSubmittedV1, got.Trigger)
		require.Len(t, got.Standings, 1)
		require.Equal(t, 7, got.Standings[0].Score)
	case <-ctx.Done():
		t.Fatal("timed out waiting for standings update")
	}
}
