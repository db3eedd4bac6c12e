package cache

// ScopedKeyer prefixes every key of an inner Keyer. The preview server
// scopes keys per palette so one Redis instance can hold several styles
// without relying on the artifact options alone.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer means the DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// TrajectoryKey implements Keyer.
func (k *ScopedKeyer) TrajectoryKey(sourceHash string, opts TrajectoryKeyOpts) string {
	return k.prefix + k.inner.TrajectoryKey(sourceHash, opts)
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(figureHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(figureHash, opts)
}
