package ui

import (
	"slices"
	"strings"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestToggleRegistry_Defaults(t *testing.T) {
	reg := NewToggleRegistry()

	if !reg.IsEnabled(ToggleField) {
		t.Error("mouse field should start enabled")
	}
	if !reg.IsEnabled(ToggleStats) {
		t.Error("stats panel should start enabled")
	}
	for _, id := range []ToggleID{ToggleInteraction, ToggleRainbow, ToggleBackground, ToggleGrid, ToggleControls, TogglePause} {
		if reg.IsEnabled(id) {
			t.Errorf("%s should start disabled", id)
		}
	}
}

func TestToggleRegistry_HandleKeyPress(t *testing.T) {
	reg := NewToggleRegistry()

	id, state, ok := reg.HandleKeyPress(rl.KeyB)
	if !ok || id != ToggleBackground || !state {
		t.Fatalf("got (%s, %v, %v), want (background, true, true)", id, state, ok)
	}

	id, state, ok = reg.HandleKeyPress(rl.KeyB)
	if !ok || id != ToggleBackground || state {
		t.Errorf("second press: got (%s, %v, %v), want (background, false, true)", id, state, ok)
	}

	if _, _, ok := reg.HandleKeyPress(rl.KeyZ); ok {
		t.Error("unbound key should not toggle anything")
	}
	if _, _, ok := reg.HandleKeyPress(0); ok {
		t.Error("zero key should not toggle anything")
	}
}

func TestToggleRegistry_UnknownID(t *testing.T) {
	reg := NewToggleRegistry()

	if reg.Toggle("missing") {
		t.Error("unknown toggle reported enabled")
	}
	reg.SetEnabled("missing", true)
	if reg.IsEnabled("missing") {
		t.Error("SetEnabled should ignore unknown IDs")
	}
}

func TestToggleRegistry_ReRegister(t *testing.T) {
	reg := NewToggleRegistry()
	n := len(reg.All())

	reg.Toggle(ToggleGrid)
	reg.Register(ToggleDescriptor{ID: ToggleGrid, Name: "Grid", Category: "debug", Default: false})

	if len(reg.All()) != n {
		t.Errorf("re-register changed count: got %d, want %d", len(reg.All()), n)
	}
	if reg.IsEnabled(ToggleGrid) {
		t.Error("re-register should reset state to default")
	}
	if d, _ := reg.Get(ToggleGrid); d.Name != "Grid" {
		t.Errorf("descriptor not replaced: %q", d.Name)
	}
}

func TestToggleRegistry_Categories(t *testing.T) {
	reg := NewToggleRegistry()

	want := []string{"physics", "visual", "panels", "debug"}
	if got := reg.Categories(); !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	for _, cat := range want {
		for _, d := range reg.ByCategory(cat) {
			if d.Category != cat {
				t.Errorf("%s listed under %s", d.ID, cat)
			}
		}
	}
}

func TestToggleRegistry_Legend(t *testing.T) {
	reg := NewToggleRegistry()
	legend := reg.Legend()

	if len(legend) != len(reg.All()) {
		t.Fatalf("got %d legend entries, want %d", len(legend), len(reg.All()))
	}
	if !slices.Contains(legend, "F: Mouse Field") {
		t.Errorf("legend missing field entry: %v", legend)
	}
}

func TestAnchorOrigin(t *testing.T) {
	tests := []struct {
		anchor PanelAnchor
		x, y   int32
	}{
		{AnchorTopLeft, 10, 10},
		{AnchorTopRight, 1280 - 200 - 10, 10},
		{AnchorBottomLeft, 10, 720 - 100 - 10},
		{AnchorBottomRight, 1280 - 200 - 10, 720 - 100 - 10},
	}
	for _, tt := range tests {
		x, y := AnchorOrigin(tt.anchor, 200, 100, 1280, 720, 10)
		if x != tt.x || y != tt.y {
			t.Errorf("anchor %d: got (%d, %d), want (%d, %d)", tt.anchor, x, y, tt.x, tt.y)
		}
	}
}

func TestPanelHeight_SkipsHiddenFields(t *testing.T) {
	r := NewRenderer()
	pd := StatsPanelDescriptor()

	quiet := &Snapshot{Capacity: 100}
	busy := &Snapshot{Capacity: 100, Dropped: 3, FieldActive: true, Interaction: true}

	hq := r.PanelHeight(pd, quiet)
	hb := r.PanelHeight(pd, busy)

	// Dropped is a text row; field strength is a bar row; pair checks is text
	want := 2*r.Theme.LineHeight + (r.Theme.LineHeight + 2)
	if hb-hq != want {
		t.Errorf("height difference = %d, want %d", hb-hq, want)
	}
}

func TestSnapshotUtilization(t *testing.T) {
	if got := (&Snapshot{}).Utilization(); got != 0 {
		t.Errorf("empty pool: got %v, want 0", got)
	}
	if got := (&Snapshot{Active: 25, Capacity: 100}).Utilization(); got != 0.25 {
		t.Errorf("got %v, want 0.25", got)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		value float32
		rng   FieldRange
		want  float32
	}{
		{0.5, DefaultRange(), 0.5},
		{-1, DefaultRange(), 0},
		{2, DefaultRange(), 1},
		{0, FieldRange{Min: -10, Max: 10}, 0.5},
		{5, FieldRange{Min: 1, Max: 1}, 0},
	}
	for _, tt := range tests {
		if got := normalize(tt.value, tt.rng); got != tt.want {
			t.Errorf("normalize(%v, %v) = %v, want %v", tt.value, tt.rng, got, tt.want)
		}
	}
}

func TestModeLine(t *testing.T) {
	s := &Snapshot{Preset: "fountain", FieldActive: true, FieldStrength: -500, Rainbow: true}
	line := ModeLine(s)

	for _, want := range []string{"Preset: fountain", "Field: repel", "Interaction: off", "Rainbow: on"} {
		if !strings.Contains(line, want) {
			t.Errorf("%q missing %q", line, want)
		}
	}

	s.FieldStrength = 500
	if !strings.Contains(ModeLine(s), "Field: attract") {
		t.Errorf("positive strength should read attract: %q", ModeLine(s))
	}

	s.FieldActive = false
	if !strings.Contains(ModeLine(s), "Field: off") {
		t.Errorf("inactive field should read off: %q", ModeLine(s))
	}
}
