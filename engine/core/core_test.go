package core

import (
	"testing"
	"time"
)

func TestEventRegisterFire(t *testing.T) {
	if !EventInitialize() {
		t.Fatal("EventInitialize: want true on first call")
	}
	defer EventShutdown()
	if EventInitialize() {
		t.Fatal("EventInitialize: want false when already initialized")
	}

	type listener struct{ name string }
	first, second := &listener{"first"}, &listener{"second"}

	var calls []string
	onEvent := func(handled bool) FnOnEvent {
		return func(code SystemEventCode, sender, inst interface{}, data EventContext) bool {
			calls = append(calls, inst.(*listener).name)
			return handled
		}
	}

	if !EventRegister(EVENT_CODE_APPLICATION_QUIT, first, onEvent(false)) {
		t.Fatal("EventRegister(first): want true")
	}
	if EventRegister(EVENT_CODE_APPLICATION_QUIT, first, onEvent(false)) {
		t.Fatal("EventRegister(first) twice: want false")
	}
	if !EventRegister(EVENT_CODE_APPLICATION_QUIT, second, onEvent(true)) {
		t.Fatal("EventRegister(second): want true")
	}

	if !EventFire(EVENT_CODE_APPLICATION_QUIT, nil, EventContext{}) {
		t.Fatal("EventFire: want handled")
	}
	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Fatalf("EventFire call order\nhave %v\nwant [first second]", calls)
	}

	if !EventUnregister(EVENT_CODE_APPLICATION_QUIT, second) {
		t.Fatal("EventUnregister(second): want true")
	}
	if EventUnregister(EVENT_CODE_APPLICATION_QUIT, second) {
		t.Fatal("EventUnregister(second) twice: want false")
	}
	calls = nil
	if EventFire(EVENT_CODE_APPLICATION_QUIT, nil, EventContext{}) {
		t.Fatal("EventFire: want unhandled once the handling listener is gone")
	}
	if len(calls) != 1 {
		t.Fatalf("EventFire calls\nhave %v\nwant [first]", calls)
	}
}

func TestInputProcessKey(t *testing.T) {
	EventInitialize()
	defer EventShutdown()

	var pressed, released []uint16
	EventRegister(EVENT_CODE_KEY_PRESSED, nil, func(code SystemEventCode, sender, inst interface{}, data EventContext) bool {
		pressed = append(pressed, data.Data.U16[0])
		return true
	})
	EventRegister(EVENT_CODE_KEY_RELEASED, nil, func(code SystemEventCode, sender, inst interface{}, data EventContext) bool {
		released = append(released, data.Data.U16[0])
		return true
	})

	in := NewInputState()
	in.ProcessKey(KEY_W, true)
	in.ProcessKey(KEY_W, true)
	if !in.IsKeyDown(KEY_W) || in.IsKeyUp(KEY_W) {
		t.Fatal("InputState: W should be down")
	}
	if len(pressed) != 1 || pressed[0] != uint16(KEY_W) {
		t.Fatalf("key pressed events\nhave %v\nwant [%d]", pressed, KEY_W)
	}

	in.Update()
	in.ProcessKey(KEY_W, false)
	if !in.WasKeyDown(KEY_W) || in.IsKeyDown(KEY_W) {
		t.Fatal("InputState: W should have been down and now be up")
	}
	if len(released) != 1 {
		t.Fatalf("key released events\nhave %v\nwant 1", released)
	}
}

func TestParseKeyName(t *testing.T) {
	for name, want := range map[string]KeyCode{
		"up": KEY_UP, "Down": KEY_DOWN, "left": KEY_LEFT, "right": KEY_RIGHT,
		"w": KEY_W, "a": KEY_A, "s": KEY_S, "d": KEY_D, "escape": KEY_ESCAPE,
	} {
		have, ok := ParseKeyName(name)
		if !ok || have != want {
			t.Fatalf("ParseKeyName(%q)\nhave %v, %v\nwant %v, true", name, have, ok, want)
		}
	}
	if _, ok := ParseKeyName("hyper"); ok {
		t.Fatal("ParseKeyName(hyper): want false")
	}
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	if m.FrameTime() != 0 {
		t.Fatalf("Metrics.FrameTime (empty)\nhave %v\nwant 0", m.FrameTime())
	}
	for i := 0; i < 100; i++ {
		m.Update(0.010)
	}
	// 100 frames of 10ms = exactly one second.
	if fps := m.FPS(); fps != 100 {
		t.Fatalf("Metrics.FPS\nhave %v\nwant 100", fps)
	}
	if ft := m.FrameTime(); ft < 9.999 || ft > 10.001 {
		t.Fatalf("Metrics.FrameTime\nhave %v\nwant 10", ft)
	}

	for i := 0; i < AVG_COUNT; i++ {
		m.Update(0.020)
	}
	if ft := m.FrameTime(); ft < 19.999 || ft > 20.001 {
		t.Fatalf("Metrics.FrameTime after window rollover\nhave %v\nwant 20", ft)
	}
	if m.Frames() != uint64(100+AVG_COUNT) {
		t.Fatalf("Metrics.Frames\nhave %v\nwant %v", m.Frames(), 100+AVG_COUNT)
	}
}

func TestClock(t *testing.T) {
	c := NewClock()
	c.Update()
	if c.Elapsed() != 0 || c.IsRunning() {
		t.Fatal("Clock: a clock that was never started must not advance")
	}
	c.Start()
	time.Sleep(2 * time.Millisecond)
	c.Update()
	if c.Elapsed() <= 0 {
		t.Fatalf("Clock.Elapsed\nhave %v\nwant > 0", c.Elapsed())
	}
	c.Stop()
	e := c.Elapsed()
	c.Update()
	if c.Elapsed() != e {
		t.Fatal("Clock: Stop must freeze elapsed time")
	}
}

func TestParseLogLevel(t *testing.T) {
	for in, want := range map[string]LogLevel{
		"debug": LOG_LEVEL_DEBUG, "INFO": LOG_LEVEL_INFO, " warn ": LOG_LEVEL_WARN, "error": LOG_LEVEL_ERROR,
	} {
		have, err := ParseLogLevel(in)
		if err != nil || have != want {
			t.Fatalf("ParseLogLevel(%q)\nhave %v, %v\nwant %v, nil", in, have, err, want)
		}
	}
	if _, err := ParseLogLevel("chatty"); err == nil {
		t.Fatal("ParseLogLevel(chatty): want error")
	}
}
