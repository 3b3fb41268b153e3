package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSite(t *testing.T) {
	s, err := NewSite("  中心仓 ", "工业路1号")
	require.NoError(t, err)
	assert.Equal(t, "中心仓", s.Name)
	assert.True(t, s.IsActive)
	assert.NoError(t, s.EnsureActive())

	_, err = NewSite("   ", "")
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestSite_Deactivate(t *testing.T) {
	s, err := NewSite("门店", "")
	require.NoError(t, err)

	s.Deactivate()
	assert.False(t, s.IsActive)
	assert.ErrorIs(t, s.EnsureActive(), ErrSiteInactive)
}
