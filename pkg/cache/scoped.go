package cache

// ScopedKeyer prefixes every key of an inner Keyer. It keeps several
// projects apart when they share one Redis database.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "lasers:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ProgressionKey implements Keyer.
func (k *ScopedKeyer) ProgressionKey(graphHash string, opts ProgressionKeyOpts) string {
	return k.prefix + k.inner.ProgressionKey(graphHash, opts)
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(progressionHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(progressionHash, opts)
}
