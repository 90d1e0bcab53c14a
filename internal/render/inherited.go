package render

// Inherited is the context a parent hands to its children during a render
// pass. It is derived per subtree and never written back into the document.
type Inherited struct {
	// Route is the active navigation destination.
	Route string
	// SidebarExpanded is set by a sidebar for its descendants.
	SidebarExpanded *bool
	// SidebarMode is the mode of the enclosing sidebar.
	SidebarMode string
	// Focused is the node id holding keyboard focus.
	Focused string
	// Hovered holds per-node hover state owned by the host. Read only.
	Hovered map[string]bool
}

// WithRoute returns a copy with the active route replaced.
func (i Inherited) WithRoute(route string) Inherited {
	i.Route = route
	return i
}

// WithSidebar returns a copy carrying the sidebar expansion state.
func (i Inherited) WithSidebar(expanded bool, mode string) Inherited {
	i.SidebarExpanded = &expanded
	i.SidebarMode = mode
	return i
}

// WithFocus returns a copy with the focused node id replaced.
func (i Inherited) WithFocus(nodeID string) Inherited {
	i.Focused = nodeID
	return i
}

// InSidebar reports whether an enclosing sidebar set an expansion state.
func (i Inherited) InSidebar() bool {
	return i.SidebarExpanded != nil
}

// Expanded returns the sidebar expansion state, or def outside a sidebar.
func (i Inherited) Expanded(def bool) bool {
	if i.SidebarExpanded == nil {
		return def
	}
	return *i.SidebarExpanded
}

// IsHovered reports host hover state for the node.
func (i Inherited) IsHovered(nodeID string) bool {
	return nodeID != "" && i.Hovered[nodeID]
}

// IsFocused reports whether the node holds focus.
func (i Inherited) IsFocused(nodeID string) bool {
	return nodeID != "" && i.Focused == nodeID
}
