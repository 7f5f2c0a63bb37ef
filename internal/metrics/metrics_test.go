package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CommunityEconomy_Go/internal/domain"
	"github.com/osse101/CommunityEconomy_Go/internal/event"
)

func TestOutcome(t *testing.T) {
	assert.Equal(t, OutcomeSuccess, Outcome(nil))
	assert.Equal(t, OutcomeRejected, Outcome(fmt.Errorf("%w: Shop", domain.ErrPropertyNotOwned)))
	assert.Equal(t, OutcomeError, Outcome(fmt.Errorf("%w: boom", domain.ErrOperationFailed)))
	assert.Equal(t, OutcomeError, Outcome(errors.New("other")))
}

func TestEventMetricsCollector(t *testing.T) {
	bus := event.NewMemoryBus()
	NewEventMetricsCollector().Register(bus)
	ctx := context.Background()

	levelsBefore := testutil.ToFloat64(LevelUps.WithLabelValues(domain.SourceVoice))
	riskBefore := testutil.ToFloat64(RiskEvents.WithLabelValues("Shop"))
	incomeBefore := testutil.ToFloat64(IncomeCollected)

	require.NoError(t, bus.Publish(ctx, event.NewLevelUpEvent(domain.LevelUpPayload{
		OldLevel: 2, NewLevel: 4, Source: domain.SourceVoice,
	})))
	require.NoError(t, bus.Publish(ctx, event.NewRiskEventTriggered(domain.RiskEventPayload{PropertyName: "Shop"})))
	require.NoError(t, bus.Publish(ctx, event.NewIncomeCollectedEvent(domain.IncomeCollectedPayload{Amount: 120})))

	assert.InDelta(t, levelsBefore+2, testutil.ToFloat64(LevelUps.WithLabelValues(domain.SourceVoice)), 0.001)
	assert.InDelta(t, riskBefore+1, testutil.ToFloat64(RiskEvents.WithLabelValues("Shop")), 0.001)
	assert.InDelta(t, incomeBefore+120, testutil.ToFloat64(IncomeCollected), 0.001)
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/accounts/{userID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/accounts/{userID}", "418"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts/12345", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/accounts/{userID}", "418"))
	assert.InDelta(t, before+1, after, 0.001)
}
