package stores_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/splashngo/dashboard-service/internal/stores"
)

func TestResolveLocation(t *testing.T) {
	info := stores.ResolveLocation("LDHMQX9WPW34B")
	assert.Equal(t, "SPLASH'N'GO!高崎棟高店", info.Name)
	assert.Equal(t, "1003", info.Code)

	info = stores.ResolveLocation("")
	assert.Equal(t, stores.DefaultStore, info)

	info = stores.ResolveLocation("LXXXXXXXXXXXX")
	assert.Equal(t, "SPLASH'N'GO!店舗(LXXXXXXXXXXXX)", info.Name)
	assert.Equal(t, stores.DefaultStore.Code, info.Code)
}

func TestResolveReferencePrefix(t *testing.T) {
	info := stores.ResolveReferencePrefix("1005-0021")
	assert.Equal(t, "1005", info.Code)

	assert.Equal(t, stores.DefaultStore, stores.ResolveReferencePrefix("9999X"))
	assert.Equal(t, stores.DefaultStore, stores.ResolveReferencePrefix("10"))
	assert.Equal(t, stores.DefaultStore, stores.ResolveReferencePrefix(""))
}

func TestTrustLiveName(t *testing.T) {
	assert.True(t, stores.TrustLiveName("SPLASH'N'GO!新店舗"))
	assert.False(t, stores.TrustLiveName("Some Other Shop"))
	assert.False(t, stores.TrustLiveName(""))
}
