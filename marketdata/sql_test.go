package marketdata_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/dpm"
	"github.com/meenmo/dpm/marketdata"
	"github.com/meenmo/dpm/utils"
)

// TestSQLStore runs against a live PostgreSQL named by DPM_TEST_DSN.
func TestSQLStore(t *testing.T) {
	dsn := os.Getenv("DPM_TEST_DSN")
	if dsn == "" {
		t.Skip("DPM_TEST_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := marketdata.OpenSQLStore(ctx, dsn, nil)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Migrate(ctx))

	name := "test_curve_" + time.Now().UTC().Format("20060102150405")
	require.NoError(t, store.SaveCurve(ctx, name, map[int]float64{0: 1, 91: 0.98, 182: 0.96}))

	points, err := store.Curve(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, map[int]float64{0: 1, 91: 0.98, 182: 0.96}, points)

	_, err = store.LoadCurves(ctx, name, name+"_missing")
	assert.ErrorIs(t, err, dpm.ErrMissingMarketData)

	fixing := utils.MustDate("2022-10-17")
	require.NoError(t, store.SaveFixings(ctx, name, map[time.Time]float64{fixing: 0.0715}))
	fixings, err := store.Fixings(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, 0.0715, fixings[fixing])
}
