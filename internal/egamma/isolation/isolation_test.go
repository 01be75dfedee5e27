package isolation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/banshee-data/egamma.report/internal/egamma/effarea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTable(t *testing.T, bins ...effarea.Bin) *effarea.Table {
	t.Helper()
	tbl, err := effarea.New(bins)
	require.NoError(t, err)
	return tbl
}

func TestCorrector_Correct(t *testing.T) {
	c, err := NewCorrector(map[string]*effarea.Table{
		Comb: mustTable(t, effarea.Bin{UpperBound: 1.0, Area: 0.2}, effarea.Bin{UpperBound: 2.5, Area: 0.4}),
	})
	require.NoError(t, err)

	got, err := c.Correct(Comb, 5.0, -0.5, 10)
	require.NoError(t, err)
	assert.Equal(t, 5.0-0.2*10, got)

	got, err = c.Correct(Comb, 5.0, 1.7, 10)
	require.NoError(t, err)
	assert.Equal(t, 5.0-0.4*10, got)

	off, err := c.Offset(Comb, 1.7, 10)
	require.NoError(t, err)
	assert.Equal(t, 0.4*10, off)
}

func TestCorrector_UnknownTable(t *testing.T) {
	c, err := NewCorrector(nil)
	require.NoError(t, err)
	assert.False(t, c.Has(Ecal))

	_, err = c.Correct(Ecal, 1, 0, 1)
	assert.Error(t, err)
}

func TestNewCorrector_NilTable(t *testing.T) {
	_, err := NewCorrector(map[string]*effarea.Table{Hcal: nil})
	assert.Error(t, err)
}

func TestLoadCorrector(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.txt")
	require.NoError(t, os.WriteFile(good, []byte("0 1.5 0.1\n1.5 5 0.2\n"), 0o644))

	c, err := LoadCorrector(map[string]string{Ecal: good, Hcal: good})
	require.NoError(t, err)
	assert.True(t, c.Has(Ecal))
	assert.True(t, c.Has(Hcal))

	_, err = LoadCorrector(map[string]string{Ecal: good, Hcal: filepath.Join(dir, "missing.txt")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), Hcal)
}
