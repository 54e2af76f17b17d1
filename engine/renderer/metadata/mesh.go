package metadata

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/tinyrender/engine/math"
)

// Triangle is three points plus the flat illumination computed for it.
// Points are world/view space before projection and screen space after.
type Triangle struct {
	P [3]math.Vec4
	// Illumination in [ambient, 1]. Only meaningful after lighting.
	Illumination float32
}

// MeanZ is the average depth of the three points, used for painter's ordering.
func (t Triangle) MeanZ() float32 {
	return (t.P[0].Z + t.P[1].Z + t.P[2].Z) / 3.0
}

// Also used as result_data from job.
type MeshLoadParams struct {
	ResourceName string
	// Longest accepted line in bytes. 0 selects the loader default.
	MaxLineLength int
}

// Mesh is an ordered, read-only list of triangles. Reloads replace the whole value.
type Mesh struct {
	ID        uuid.UUID
	Name      string
	Triangles []Triangle
}

// NewMesh creates an empty mesh with a fresh identifier.
func NewMesh(name string) *Mesh {
	return &Mesh{
		ID:   uuid.New(),
		Name: name,
	}
}

func (m *Mesh) TriangleCount() int {
	if m == nil {
		return 0
	}
	return len(m.Triangles)
}
