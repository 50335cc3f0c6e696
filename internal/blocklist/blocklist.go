package blocklist

import "sync"

// Blocklist is the process-wide set of revoked token identifiers. Every
// protected request consults it after signature and expiry checks, so reads
// vastly outnumber writes. Entries live for the process lifetime; a restart
// empties the set, which is accepted for single-process deployments.
type Blocklist struct {
	mu  sync.RWMutex
	jti map[string]struct{}
}

func New() *Blocklist {
	return &Blocklist{jti: make(map[string]struct{})}
}

// Revoke is idempotent.
func (b *Blocklist) Revoke(jti string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.jti[jti] = struct{}{}
}

func (b *Blocklist) IsRevoked(jti string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.jti[jti]
	return ok
}

func (b *Blocklist) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.jti)
}
