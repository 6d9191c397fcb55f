// Package ids generates collision-free identifiers for sheets and render
// resources (spec §9 leaves ID generation to the implementer).
package ids

import "github.com/google/uuid"

// NewSheetID returns a fresh opaque sheet identifier string.
func NewSheetID() string {
	return uuid.NewString()
}

// NewTextureUID returns a fresh opaque texture/atlas identifier string. The
// render package does not call it; its textures are the uint32 handles a
// GPUBackend hands out.
func NewTextureUID() string {
	return uuid.NewString()
}
