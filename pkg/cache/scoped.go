package cache

// ScopedKeyer wraps a Keyer with a prefix for per-player isolation.
// Players sharing one Redis each get their own namespace, keyed by a hash
// of their token.
//
// Example usage:
//
//	playerKeyer := NewScopedKeyer(NewDefaultKeyer(), "player:"+Hash([]byte(token))[:12]+":")
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

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// WordsKey generates a prefixed key for word list caching.
func (k *ScopedKeyer) WordsKey(source string) string {
	return k.prefix + k.inner.WordsKey(source)
}

// BuildKey generates a prefixed key for build caching.
func (k *ScopedKeyer) BuildKey(vocabHash string, opts BuildKeyOpts) string {
	return k.prefix + k.inner.BuildKey(vocabHash, opts)
}

// ReportKey generates a prefixed key for report caching.
func (k *ScopedKeyer) ReportKey(vocabHash string, placements any) string {
	return k.prefix + k.inner.ReportKey(vocabHash, placements)
}
