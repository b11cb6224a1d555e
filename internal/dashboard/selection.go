package dashboard

import "github.com/saherflow/saher/internal/api"

// SelectionKind tags which entity, if any, the dashboard is showing.
type SelectionKind int

const (
	SelectNone SelectionKind = iota
	SelectDevice
	SelectHierarchy
)

// String returns a label used in logs and metrics.
func (k SelectionKind) String() string {
	switch k {
	case SelectDevice:
		return "device"
	case SelectHierarchy:
		return "hierarchy"
	default:
		return "none"
	}
}

// Selection is either nothing, one device, or one hierarchy node.
// The zero value is the empty selection. Selections are comparable.
type Selection struct {
	kind SelectionKind
	id   string
	name string
}

// NoSelection returns the empty selection.
func NoSelection() Selection {
	return Selection{}
}

// DeviceSelection selects a single device.
func DeviceSelection(d api.Device) Selection {
	if d.ID == "" {
		return Selection{}
	}
	return Selection{kind: SelectDevice, id: d.ID, name: d.Name}
}

// HierarchySelection selects a hierarchy node.
func HierarchySelection(n api.HierarchyNode) Selection {
	if n.ID == "" {
		return Selection{}
	}
	return Selection{kind: SelectHierarchy, id: n.ID, name: n.Name}
}

// SelectionFrom maps a pair of independent pickers onto a Selection.
// Exactly one non-nil picker wins; neither or both is the empty selection.
func SelectionFrom(device *api.Device, node *api.HierarchyNode) Selection {
	switch {
	case device != nil && node == nil:
		return DeviceSelection(*device)
	case node != nil && device == nil:
		return HierarchySelection(*node)
	default:
		return Selection{}
	}
}

func (s Selection) Kind() SelectionKind { return s.kind }
func (s Selection) ID() string          { return s.id }
func (s Selection) IsNone() bool        { return s.kind == SelectNone }

// Name returns the display name, falling back to the id.
func (s Selection) Name() string {
	if s.name != "" {
		return s.name
	}
	return s.id
}

// String returns e.g. "device mpfm-101" or "none".
func (s Selection) String() string {
	if s.kind == SelectNone {
		return "none"
	}
	return s.kind.String() + " " + s.id
}
