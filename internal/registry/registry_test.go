package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForSportPath(t *testing.T) {
	r := New()

	module, err := r.ForSportPath("football/nfl")
	require.NoError(t, err)
	assert.Equal(t, "americanfootball_nfl", module.GetSportKey())

	_, err = r.ForSportPath("basketball/nba")
	assert.ErrorContains(t, err, "sport module not found")
	assert.Equal(t, []string{"football/nfl"}, r.SportPaths())
}
