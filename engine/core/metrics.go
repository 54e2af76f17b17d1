package core

import "github.com/spaghettifunk/tinyrender/engine/containers"

const AVG_COUNT int = 30

// Metrics keeps a moving average of frame times and a frames-per-second counter.
type Metrics struct {
	frameTimes         *containers.RingQueue[float64]
	sumMS              float64
	frames             int32
	accumulatedFrameMS float64
	fps                float64
	total              uint64
}

func NewMetrics() *Metrics {
	return &Metrics{
		frameTimes: containers.NewRingQueue[float64](AVG_COUNT),
	}
}

// Update records one frame that took frameElapsedTime seconds.
func (m *Metrics) Update(frameElapsedTime float64) {
	frameMS := frameElapsedTime * 1000.0

	if m.frameTimes.IsFull() {
		oldest, _ := m.frameTimes.Dequeue()
		m.sumMS -= oldest
	}
	_ = m.frameTimes.Enqueue(frameMS)
	m.sumMS += frameMS

	// Calculate Frames per second.
	m.accumulatedFrameMS += frameMS
	m.frames++
	if m.accumulatedFrameMS >= 1000 {
		m.fps = float64(m.frames)
		m.accumulatedFrameMS -= 1000
		m.frames = 0
	}

	m.total++
}

func (m *Metrics) FPS() float64 {
	return m.fps
}

// FrameTime is the average frame time in milliseconds over the last AVG_COUNT frames.
func (m *Metrics) FrameTime() float64 {
	if m.frameTimes.IsEmpty() {
		return 0
	}
	return m.sumMS / float64(m.frameTimes.Len())
}

func (m *Metrics) Frame() (float64, float64) {
	return m.FPS(), m.FrameTime()
}

// Frames is the number of frames recorded since creation.
func (m *Metrics) Frames() uint64 {
	return m.total
}
