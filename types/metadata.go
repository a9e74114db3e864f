package types

// Metadata carries the declarative capability descriptors a check module
// attaches to its checks at registration time. A zero Metadata is valid: no
// tags, no config requirement, not a group check, no explanation.
type Metadata struct {
	Tags        []string
	TakesConfig bool
	IsGroup     bool
	Explanation string
}

// MetadataOption mutates a Metadata under construction. Options are additive;
// none removes or overwrites metadata set by an unrelated option.
type MetadataOption func(*Metadata)

// NewMetadata builds an immutable Metadata from the given options.
func NewMetadata(opts ...MetadataOption) Metadata {
	var m Metadata
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// WithTags appends tags to the check's tag set. Repeated application
// accumulates rather than replaces.
func WithTags(tags ...string) MetadataOption {
	return func(m *Metadata) {
		m.Tags = append(m.Tags, tags...)
	}
}

// GroupCheck marks the check as bundling several sub-checks. Informational
// only; execution semantics are unchanged. Idempotent.
func GroupCheck() MetadataOption {
	return func(m *Metadata) {
		m.IsGroup = true
	}
}

// RequiresConfig marks the check as needing a config value at invocation
// time. Idempotent.
func RequiresConfig() MetadataOption {
	return func(m *Metadata) {
		m.TakesConfig = true
	}
}

// WithExplanation records why the check matters from a security perspective.
// Last write wins.
func WithExplanation(exp string) MetadataOption {
	return func(m *Metadata) {
		m.Explanation = exp
	}
}

// HasAnyTag reports whether any of the given tags is in the check's tag set.
func (m Metadata) HasAnyTag(tags []string) bool {
	for _, want := range tags {
		for _, have := range m.Tags {
			if want == have {
				return true
			}
		}
	}
	return false
}
