package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	d, ok := Lookup(TypeActivity)
	require.True(t, ok)
	assert.Equal(t, "Activities", d.PluralTitle)
	assert.True(t, d.StatusAware)

	_, ok = Lookup(EntityType("unknown"))
	assert.False(t, ok)
}

func TestAll_IsSorted(t *testing.T) {
	all := All()
	require.Len(t, all, 10)
	for i := 1; i < len(all); i++ {
		assert.Less(t, string(all[i-1].Type), string(all[i].Type))
	}
}

func TestRequireCapabilities(t *testing.T) {
	assert.NoError(t, RequireStatusAware(TypeMeeting))
	assert.Error(t, RequireStatusAware(TypeInvoice))
	assert.Error(t, RequireStatusAware(EntityType("nope")))

	assert.NoError(t, RequireCommentable(TypeSprint))
	assert.Error(t, RequireAttachable(TypeSprint))
	assert.NoError(t, RequireAttachable(TypeAsset))
}
