// Copyright 2023 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqlbar

// Oracle decides whether the caller may use fields carrying a given
// permission tag. It is supplied by the embedding application and invoked
// synchronously once per field reference; if it blocks, translation
// blocks with it.
type Oracle interface {
	// Allowed reports whether fields tagged with the given permission tag
	// are visible to the caller.
	Allowed(tag string) bool
}

// AllowAll is an [Oracle] that permits every field.
type AllowAll struct{}

// Allowed implements [Oracle].
func (AllowAll) Allowed(string) bool {
	return true
}

// TagSet is an [Oracle] permitting exactly the tags it contains.
type TagSet map[string]bool

// NewTagSet builds a TagSet from the given permission tags.
func NewTagSet(tags ...string) TagSet {
	s := make(TagSet, len(tags))
	for _, t := range tags {
		s[t] = true
	}
	return s
}

// Allowed implements [Oracle].
func (s TagSet) Allowed(tag string) bool {
	return s[tag]
}
