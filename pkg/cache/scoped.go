package cache

// ScopedKeyer prefixes every key produced by an inner Keyer. The server uses
// it so charts from different sources sharing one Redis never collide:
//
//	keyer := cache.NewScopedKeyer(nil, "popchart:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a [DefaultKeyer] when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) LayoutKey(dataHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(dataHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(dataHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(dataHash, opts)
}
