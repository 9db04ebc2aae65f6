package scanner

// Options configures a local scan (spec.md §4.3).
type Options struct {
	Root string
	// MaxDepth limits descent; nil means unlimited.
	MaxDepth *int
	// ExcludePatterns are doublestar glob patterns matched against the
	// full entry path. A matching entry, file or directory, is dropped
	// at enumeration time so excluded subtrees are never descended into.
	ExcludePatterns []string
	// CrossMount, when false, forbids descending across filesystem
	// mount boundaries from Root.
	CrossMount bool
	// ApparentSize toggles len()-style size (true) vs block-allocated
	// disk usage (false) on platforms that distinguish them.
	ApparentSize bool
}

// WithMaxDepth sets a depth limit and returns the Options for chaining.
func (o Options) WithMaxDepth(depth int) Options {
	o.MaxDepth = &depth
	return o
}

// WithExcludePatterns sets the exclude pattern list and returns the
// Options for chaining.
func (o Options) WithExcludePatterns(patterns ...string) Options {
	o.ExcludePatterns = patterns
	return o
}

// DefaultOptions returns the spec's baseline: no depth limit, no
// exclusions, mount-boundary respecting, apparent size.
func DefaultOptions(root string) Options {
	return Options{
		Root:         root,
		CrossMount:   false,
		ApparentSize: true,
	}
}
