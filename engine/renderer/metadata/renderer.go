package metadata

import (
	"image/color"
)

/**
 * @brief Everything the renderer needs to draw one frame.
 */
type RenderPacket struct {
	DeltaTime float64
	/** @brief Screen-space triangles, already sorted back to front. */
	Triangles []Triangle
	/** @brief Colour of a fully lit triangle. */
	BaseColor color.RGBA
	/** @brief Outline every triangle on top of the fill. */
	Wireframe bool
	/** @brief Colour used for outlines. */
	WireframeColor color.RGBA
	/** @brief Optional text drawn by the display on top of the frame. */
	Overlay []string
}

/**
 * @brief Counters collected by the pipeline for a single frame.
 */
type PipelineStats struct {
	/** @brief Triangles read from the mesh. */
	Submitted int
	/** @brief Triangles facing away from the camera. */
	Culled int
	/** @brief Triangles without area (no usable normal). */
	Degenerate int
	/** @brief Triangles removed or split by the near plane. */
	Clipped int
	/** @brief Triangles dropped because a vertex projected with w ~ 0. */
	DroppedW int
	/** @brief Triangles handed to the rasterizer. */
	Emitted int
}

func (s *PipelineStats) Reset() {
	*s = PipelineStats{}
}
