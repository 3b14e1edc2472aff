package cache

// ScopedKeyer wraps a Keyer with a prefix so that several generators can
// share one Redis or MongoDB store without colliding.
//
//	serverKeyer := NewScopedKeyer(NewDefaultKeyer(), "srv:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DungeonKey generates a prefixed dungeon key.
func (k *ScopedKeyer) DungeonKey(configHash string, seed uint64) string {
	return k.prefix + k.inner.DungeonKey(configHash, seed)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(dungeonKey string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(dungeonKey, opts)
}
