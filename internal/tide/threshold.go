package tide

// IsUsable reports whether a height leaves the site usable. The boundary is
// inclusive and every state flip in this package is decided here.
func IsUsable(height, threshold float64) bool {
	return height <= threshold
}
