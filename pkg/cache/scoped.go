package cache

// ScopedKeyer prefixes every key of another Keyer. The API server scopes
// its keys so that one Redis instance can serve several deployments.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, the DefaultKeyer when nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey implements Keyer.
func (k *ScopedKeyer) LayoutKey(optionHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(optionHash, opts)
}

// ExportKey implements Keyer.
func (k *ScopedKeyer) ExportKey(layoutHash string, opts ExportKeyOpts) string {
	return k.prefix + k.inner.ExportKey(layoutHash, opts)
}
