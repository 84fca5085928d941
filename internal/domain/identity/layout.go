package identity

// LayoutMode is the split orientation of list/detail pages
type LayoutMode string

const (
	LayoutHorizontal LayoutMode = "horizontal"
	LayoutVertical   LayoutMode = "vertical"
)

// IsValid reports whether m is a known layout mode
func (m LayoutMode) IsValid() bool {
	return m == LayoutHorizontal || m == LayoutVertical
}

// Toggle returns the other layout mode
func (m LayoutMode) Toggle() LayoutMode {
	if m == LayoutVertical {
		return LayoutHorizontal
	}
	return LayoutVertical
}

// ResolveLayout picks the user's mode, falling back to the default and
// then to horizontal.
func ResolveLayout(userMode, defaultMode LayoutMode) LayoutMode {
	if userMode.IsValid() {
		return userMode
	}
	if defaultMode.IsValid() {
		return defaultMode
	}
	return LayoutHorizontal
}
