package blocklist

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRevokeAndIsRevoked(t *testing.T) {
	b := New()

	require.False(t, b.IsRevoked("jti-1"))

	b.Revoke("jti-1")
	require.True(t, b.IsRevoked("jti-1"))
	require.False(t, b.IsRevoked("jti-2"))

	// idempotent
	b.Revoke("jti-1")
	require.Equal(t, 1, b.Len())
}

func TestConcurrentAccess(t *testing.T) {
	b := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			b.Revoke(fmt.Sprintf("jti-%d", n))
		}(i)
		go func(n int) {
			defer wg.Done()
			b.IsRevoked(fmt.Sprintf("jti-%d", n))
		}(i)
	}
	wg.Wait()

	require.Equal(t, 50, b.Len())
	for i := 0; i < 50; i++ {
		require.True(t, b.IsRevoked(fmt.Sprintf("jti-%d", i)))
	}
}
