package cache

// ScopedKeyer wraps a Keyer with a prefix so renders that differ in something
// outside ArtifactKeyOpts never share entries. The pipeline scopes by font
// source:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "sans@embedded: Go Regular:")
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

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(cardsHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(cardsHash, opts)
}
