//go:build integration
// +build integration

package historical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socintel/socintel/resources"
)

func TestMongoRepository(t *testing.T) {
	res := resources.InitIntegrationTestingResources(t)
	require.Nil(t, CreateIndexes(res))

	repo := NewMongoRepository(res)

	// no record yet: nil stats, not zero counts
	stats, err := repo.Get("198.51.100.23")
	require.Nil(t, err)
	assert.Nil(t, stats)

	require.Nil(t, repo.Record("198.51.100.23", true))
	require.Nil(t, repo.Record("198.51.100.23", true))
	require.Nil(t, repo.Record("198.51.100.23", false))

	stats, err = repo.Get("198.51.100.23")
	require.Nil(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, int64(2), stats.TPCount)
	assert.Equal(t, int64(1), stats.FPCount)

	ratio, defined := stats.ThreatRatio()
	assert.True(t, defined)
	assert.InDelta(t, 2.0/3.0, ratio, 1e-9)
}
