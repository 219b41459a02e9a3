package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vault-wallet-tui/coordinator"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := New()

	r.ActionStarted(coordinator.ActionDeposit)
	assert.Equal(t, 1.0, testutil.ToFloat64(r.inFlight.WithLabelValues("deposit")))

	r.ActionFinished(coordinator.ActionDeposit, coordinator.Result{Action: coordinator.ActionDeposit}, time.Second)
	r.ActionStarted(coordinator.ActionDeposit)
	r.ActionFinished(coordinator.ActionDeposit, coordinator.Result{
		Action:  coordinator.ActionDeposit,
		Failure: &coordinator.Failure{Kind: coordinator.Timeout},
	}, 2*time.Minute)

	assert.Equal(t, 0.0, testutil.ToFloat64(r.inFlight.WithLabelValues("deposit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.actions.WithLabelValues("deposit", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.actions.WithLabelValues("deposit", "timeout")))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "vault_wallet_actions_total"))
}

func TestActionRejected(t *testing.T) {
	r := New()
	r.ActionStarted(coordinator.ActionWithdraw)
	r.ActionRejected(coordinator.ActionWithdraw, coordinator.Result{
		Action:  coordinator.ActionWithdraw,
		Failure: &coordinator.Failure{Kind: coordinator.InFlight},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(r.actions.WithLabelValues("withdraw", "in_flight")))
	// the running withdrawal is still counted as in flight
	assert.Equal(t, 1.0, testutil.ToFloat64(r.inFlight.WithLabelValues("withdraw")))
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "success", Outcome(coordinator.Result{}))
	assert.Equal(t, "invalid_amount", Outcome(coordinator.Result{
		Failure: &coordinator.Failure{Kind: coordinator.InvalidAmount},
	}))
}
