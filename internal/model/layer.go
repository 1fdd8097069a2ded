package model

import (
	"fmt"
	"strings"
)

// LayerMask selects which level layers a ray query collides with.
type LayerMask uint32

// Level layers.
const (
	LayerWall         LayerMask = 1 << 0 // solid walls: block sight, sound and movement
	LayerDoor         LayerMask = 1 << 1 // closed doors
	LayerGlass        LayerMask = 1 << 2 // windows: block movement, let sight through
	LayerSoundBarrier LayerMask = 1 << 3 // padded walls, curtains, vents

	LayerNone LayerMask = 0
	LayerAll  LayerMask = 0xFFFFFFFF
)

var layerNames = map[string]LayerMask{
	"wall":          LayerWall,
	"door":          LayerDoor,
	"glass":         LayerGlass,
	"sound_barrier": LayerSoundBarrier,
	"all":           LayerAll,
}

// Has reports whether any bit of o is set in m.
func (m LayerMask) Has(o LayerMask) bool {
	return m&o != 0
}

// String returns layer names joined by "|".
func (m LayerMask) String() string {
	if m == LayerNone {
		return "none"
	}
	if m == LayerAll {
		return "all"
	}
	var parts []string
	for _, l := range []struct {
		name string
		mask LayerMask
	}{
		{"wall", LayerWall},
		{"door", LayerDoor},
		{"glass", LayerGlass},
		{"sound_barrier", LayerSoundBarrier},
	} {
		if m.Has(l.mask) {
			parts = append(parts, l.name)
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("0x%x", uint32(m))
	}
	return strings.Join(parts, "|")
}

// ParseLayerMask builds a mask from layer names (case-insensitive).
func ParseLayerMask(names []string) (LayerMask, error) {
	var m LayerMask
	for _, n := range names {
		l, ok := layerNames[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return LayerNone, fmt.Errorf("unknown layer %q", n)
		}
		m |= l
	}
	return m, nil
}
