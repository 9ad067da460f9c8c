package post

import (
	"strings"

	"git.sr.ht/~mariusor/tagextractor"
)

type tags []string

func stringsContain(sl []string, v string) bool {
	for _, vs := range sl {
		if vs == v {
			return true
		}
	}
	return false
}

func uniqueValues[T comparable](sl []T, containsFn func(sl []T, u T) bool) []T {
	newSl := make([]T, 0, len(sl))
	for _, v := range sl {
		if !containsFn(newSl, v) {
			newSl = append(newSl, v)
		}
	}
	return newSl
}

// renderTagsText leaves the passed tags untouched, it gets re-run on the
// same events when a post is cleaved to fit the size limit.
func renderTagsText(t tags, tagPref string) string {
	rendered := make([]string, 0, len(t))
	for _, g := range t {
		rendered = append(rendered, tagPref+tagextractor.TagNormalize(g))
	}
	return strings.Join(uniqueValues(rendered, stringsContain), " ")
}
