package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ToggleID uniquely identifies a switchable mode.
type ToggleID string

// Standard toggle IDs.
const (
	ToggleField       ToggleID = "field"
	ToggleInteraction ToggleID = "interaction"
	ToggleRainbow     ToggleID = "rainbow"
	ToggleBackground  ToggleID = "background"
	ToggleGrid        ToggleID = "spatial_grid"
	ToggleControls    ToggleID = "controls"
	ToggleStats       ToggleID = "stats"
	TogglePause       ToggleID = "pause"
)

// ToggleDescriptor defines a mode that can be switched from the keyboard or
// the control panel.
type ToggleDescriptor struct {
	ID          ToggleID
	Name        string
	Description string
	Key         int32  // Keyboard key (0 = panel only)
	KeyLabel    string // Key label for display
	Category    string // "physics", "visual", "panels" or "debug"
	Default     bool
}

// ToggleRegistry holds toggle metadata and current state.
type ToggleRegistry struct {
	descriptors []ToggleDescriptor
	byID        map[ToggleID]ToggleDescriptor
	enabled     map[ToggleID]bool
}

// NewToggleRegistry creates a registry with the standard toggles.
func NewToggleRegistry() *ToggleRegistry {
	reg := &ToggleRegistry{
		byID:    make(map[ToggleID]ToggleDescriptor),
		enabled: make(map[ToggleID]bool),
	}
	reg.registerDefaults()
	return reg
}

func (r *ToggleRegistry) registerDefaults() {
	r.Register(ToggleDescriptor{
		ID:          ToggleField,
		Name:        "Mouse Field",
		Description: "Force field following the cursor",
		Key:         rl.KeyF,
		KeyLabel:    "F",
		Category:    "physics",
		Default:     true,
	})
	r.Register(ToggleDescriptor{
		ID:          ToggleInteraction,
		Name:        "Interaction",
		Description: "Pairwise particle repulsion",
		Key:         rl.KeyI,
		KeyLabel:    "I",
		Category:    "physics",
	})
	r.Register(ToggleDescriptor{
		ID:          TogglePause,
		Name:        "Pause",
		Description: "Freeze the simulation",
		Key:         rl.KeyP,
		KeyLabel:    "P",
		Category:    "physics",
	})

	r.Register(ToggleDescriptor{
		ID:          ToggleRainbow,
		Name:        "Rainbow",
		Description: "Cycle hue with age for the current preset",
		Key:         rl.KeyC,
		KeyLabel:    "C",
		Category:    "visual",
	})
	r.Register(ToggleDescriptor{
		ID:          ToggleBackground,
		Name:        "Dynamic Background",
		Description: "Slowly cycle the background hue",
		Key:         rl.KeyB,
		KeyLabel:    "B",
		Category:    "visual",
	})

	r.Register(ToggleDescriptor{
		ID:          ToggleControls,
		Name:        "Control Panel",
		Description: "Show the control panel",
		Key:         rl.KeyH,
		KeyLabel:    "H",
		Category:    "panels",
	})
	r.Register(ToggleDescriptor{
		ID:          ToggleStats,
		Name:        "Stats",
		Description: "Show the engine stats panel",
		Key:         rl.KeyS,
		KeyLabel:    "S",
		Category:    "panels",
		Default:     true,
	})

	r.Register(ToggleDescriptor{
		ID:          ToggleGrid,
		Name:        "Spatial Grid",
		Description: "Show spatial index bucket occupancy",
		Key:         rl.KeyG,
		KeyLabel:    "G",
		Category:    "debug",
	})
}

// Register adds a toggle in its default state. Re-registering an ID
// replaces its descriptor and resets its state.
func (r *ToggleRegistry) Register(desc ToggleDescriptor) {
	if _, ok := r.byID[desc.ID]; ok {
		for i := range r.descriptors {
			if r.descriptors[i].ID == desc.ID {
				r.descriptors[i] = desc
			}
		}
	} else {
		r.descriptors = append(r.descriptors, desc)
	}
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = desc.Default
}

// Toggle flips a toggle and returns its new state. Unknown IDs stay off.
func (r *ToggleRegistry) Toggle(id ToggleID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	r.enabled[id] = !r.enabled[id]
	return r.enabled[id]
}

// SetEnabled explicitly sets a toggle's state.
func (r *ToggleRegistry) SetEnabled(id ToggleID, enabled bool) {
	if _, ok := r.byID[id]; !ok {
		return
	}
	r.enabled[id] = enabled
}

// IsEnabled returns whether a toggle is on.
func (r *ToggleRegistry) IsEnabled(id ToggleID) bool {
	return r.enabled[id]
}

// Get returns a toggle descriptor by ID.
func (r *ToggleRegistry) Get(id ToggleID) (ToggleDescriptor, bool) {
	desc, ok := r.byID[id]
	return desc, ok
}

// All returns all registered toggles in registration order.
func (r *ToggleRegistry) All() []ToggleDescriptor {
	return r.descriptors
}

// ByCategory returns toggles filtered by category.
func (r *ToggleRegistry) ByCategory(category string) []ToggleDescriptor {
	var result []ToggleDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in order.
func (r *ToggleRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeyPress toggles the mode bound to key. Returns the toggle ID, its
// new state and whether a toggle occurred.
func (r *ToggleRegistry) HandleKeyPress(key int32) (ToggleID, bool, bool) {
	if key == 0 {
		return "", false, false
	}
	for _, desc := range r.descriptors {
		if desc.Key == key {
			return desc.ID, r.Toggle(desc.ID), true
		}
	}
	return "", false, false
}

// Legend returns "Key: Name" pairs for every keyed toggle.
func (r *ToggleRegistry) Legend() []string {
	var out []string
	for _, desc := range r.descriptors {
		if desc.KeyLabel != "" {
			out = append(out, desc.KeyLabel+": "+desc.Name)
		}
	}
	return out
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "physics":
		return "Physics"
	case "visual":
		return "Visual"
	case "panels":
		return "Panels"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}
