package item

import "strings"

// FeatureText is the text vectorized for similarity: genre tags joined by
// spaces, one space, then the synopsis. It depends only on the Item fields so
// it is reproducible byte for byte.
func FeatureText(it *Item) string {
	return strings.Join(it.Genres, " ") + " " + it.Synopsis
}
