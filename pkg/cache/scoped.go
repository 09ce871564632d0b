package cache

// ScopedKeyer wraps a Keyer with a prefix so that several networks or
// deployments can share one Redis instance.
//
// Example usage:
//
//	testnet := NewScopedKeyer(NewDefaultKeyer(), "testnet3:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SourceKey generates a prefixed key for a loaded transaction set.
func (k *ScopedKeyer) SourceKey(kind, ref string) string {
	return k.prefix + k.inner.SourceKey(kind, ref)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(txHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(txHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
