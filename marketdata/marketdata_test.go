package marketdata_test

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/dpm"
	"github.com/meenmo/dpm/marketdata"
	"github.com/meenmo/dpm/utils"
)

func writeDoc(t *testing.T, root, dir, file, body string) {
	t.Helper()
	path := filepath.Join(root, dir, file)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestFileStoreCurve(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeDoc(t, root, "curves", "zar_disc.json", `{"365": 0.93, "0": 1.0, "91": 0.982}`)
	store := marketdata.NewFileStore(root, nil)

	term, err := marketdata.LoadCurve(context.Background(), store, "zar_disc", 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 91.0 / 365.0, 1}, term.X())
	assert.Equal(t, []float64{1.0, 0.982, 0.93}, term.Y())
}

func TestFileStoreFallsBackToTxt(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeDoc(t, root, "curves", "legacy.txt", `{"0": 1.0, "30": 0.99}`)
	points, err := marketdata.NewFileStore(root, nil).Curve(context.Background(), "legacy")
	require.NoError(t, err)
	assert.Len(t, points, 2)
}

func TestFileStoreRejectsGaps(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeDoc(t, root, "curves", "gappy.json", `{"0": 1.0, "91": null, "182": 0.96}`)
	writeDoc(t, root, "curves", "badkey.json", `{"0": 1.0, "3M": 0.99}`)
	writeDoc(t, root, "spot", "jibar.json", `{"2022-10-17": null}`)
	store := marketdata.NewFileStore(root, nil)
	ctx := context.Background()

	_, err := store.Curve(ctx, "gappy")
	assert.ErrorIs(t, err, dpm.ErrMissingMarketData)

	_, err = store.Curve(ctx, "badkey")
	assert.ErrorIs(t, err, dpm.ErrInvalidInput)

	_, err = store.Fixings(ctx, "jibar")
	assert.ErrorIs(t, err, dpm.ErrMissingMarketData)

	_, err = store.Curve(ctx, "absent")
	assert.ErrorIs(t, err, dpm.ErrMissingMarketData)
}

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := marketdata.NewFileStore(t.TempDir(), nil)
	ctx := context.Background()

	require.NoError(t, store.SaveCurve("zar_swap", map[int]float64{0: 1, 182: 0.96}))
	points, err := store.Curve(ctx, "zar_swap")
	require.NoError(t, err)
	assert.Equal(t, map[int]float64{0: 1, 182: 0.96}, points)

	fixing := utils.MustDate("2022-10-17")
	require.NoError(t, store.SaveFixings("jibar", map[time.Time]float64{fixing: 0.0715}))
	term, err := marketdata.LoadFixings(ctx, store, "jibar")
	require.NoError(t, err)
	require.Equal(t, 1, term.Len())
	date, rate := term.At(0)
	assert.Equal(t, fixing, date)
	assert.Equal(t, 0.0715, rate)
}

func TestCurveTerm(t *testing.T) {
	t.Parallel()

	_, err := marketdata.CurveTerm(nil, 365)
	assert.ErrorIs(t, err, dpm.ErrMissingMarketData)

	_, err = marketdata.CurveTerm(map[int]float64{0: 1, 91: math.Inf(1)}, 365)
	assert.ErrorIs(t, err, dpm.ErrMissingMarketData)

	term, err := marketdata.CurveTerm(map[int]float64{360: 0.95}, 360)
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, term.X())
}

func TestParseTenor(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"0": 0, "91": 91, "30D": 30, "1W": 7, "3M": 91, "6m": 183, "1Y": 365, "10Y": 3650,
	}
	for in, want := range cases {
		got, err := marketdata.ParseTenor(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, bad := range []string{"", "Y", "3Q", "-1M"} {
		_, err := marketdata.ParseTenor(bad)
		assert.ErrorIs(t, err, dpm.ErrInvalidInput, bad)
	}
}
