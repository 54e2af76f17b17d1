package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/spaghettifunk/tinyrender/engine/config"
	"github.com/spaghettifunk/tinyrender/engine/core"
	"github.com/spaghettifunk/tinyrender/engine/renderer/raster"
)

func newTestDisplay(t *testing.T) (*Display, *httptest.Server) {
	t.Helper()
	d := New(config.RemoteConfig{Addr: "127.0.0.1:0"})
	srv := httptest.NewServer(d.Handler())
	t.Cleanup(func() {
		d.Shutdown()
		srv.Close()
	})
	return d, srv
}

func get(t *testing.T, url string) (int, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, body
}

func TestRemoteHTTP(t *testing.T) {
	d, srv := newTestDisplay(t)

	if code, body := get(t, srv.URL+"/healthz"); code != http.StatusOK || string(body) != "ok" {
		t.Fatalf("GET /healthz\nhave %d %q\nwant 200 %q", code, body, "ok")
	}
	if code, _ := get(t, srv.URL+"/frame.png"); code != http.StatusNotFound {
		t.Fatalf("GET /frame.png before the first frame\nhave %d\nwant 404", code)
	}

	frame := raster.NewFrame(6, 3)
	frame.Pixel(1, 1, color.RGBA{G: 255, A: 255})
	frame.Pixel(2, 1, color.RGBA{G: 255, A: 255})
	if err := d.Present(frame); err != nil {
		t.Fatalf("Display.Present: unexpected error %v", err)
	}

	code, body := get(t, srv.URL+"/frame.png")
	if code != http.StatusOK {
		t.Fatalf("GET /frame.png\nhave %d\nwant 200", code)
	}
	img, err := png.Decode(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("png.Decode: unexpected error %v", err)
	}
	if img.Bounds().Dx() != 6 || img.Bounds().Dy() != 3 {
		t.Fatalf("frame bounds\nhave %v\nwant 6x3", img.Bounds())
	}

	code, body = get(t, srv.URL+"/stats")
	if code != http.StatusOK {
		t.Fatalf("GET /stats\nhave %d\nwant 200", code)
	}
	var stats Stats
	if err := json.Unmarshal(body, &stats); err != nil {
		t.Fatalf("stats body %q: %v", body, err)
	}
	want := Stats{Frame: 1, Pixels: 2, Width: 6, Height: 3}
	if stats != want {
		t.Fatalf("GET /stats\nhave %+v\nwant %+v", stats, want)
	}

	resp, err := http.Post(srv.URL+"/stats", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("POST /stats\nhave %d\nwant 405", resp.StatusCode)
	}
}

func TestRemoteWebSocket(t *testing.T) {
	d, srv := newTestDisplay(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("websocket.Dial: unexpected error %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	if err := conn.Write(ctx, websocket.MessageText, []byte(`{"key":"w","down":true}`)); err != nil {
		t.Fatal(err)
	}

	input := core.NewInputState()
	waitFor(t, func() bool {
		input.Update()
		return d.Poll(input) && input.IsKeyDown(core.KEY_W)
	})

	// the client is registered once a key went through, so frames reach it
	if err := d.Present(raster.NewFrame(4, 4)); err != nil {
		t.Fatal(err)
	}
	typ, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("websocket read: unexpected error %v", err)
	}
	if typ != websocket.MessageBinary {
		t.Fatalf("message type\nhave %v\nwant %v", typ, websocket.MessageBinary)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("streamed frame is not a PNG: %v", err)
	}

	if err := conn.Write(ctx, websocket.MessageText, []byte(`{"quit":true}`)); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool {
		return !d.Poll(input)
	})
}

func TestRemoteShutdownClosesClients(t *testing.T) {
	d, srv := newTestDisplay(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("websocket.Dial: unexpected error %v", err)
	}
	defer conn.CloseNow()

	if err := conn.Write(ctx, websocket.MessageText, []byte(`{"key":"a","down":true}`)); err != nil {
		t.Fatal(err)
	}
	input := core.NewInputState()
	waitFor(t, func() bool {
		input.Update()
		return d.Poll(input) && input.IsKeyDown(core.KEY_A)
	})

	done := make(chan error, 1)
	go func() {
		done <- d.Shutdown()
	}()

	// the client sees the close frame without hanging up itself
	if _, _, err := conn.Read(ctx); websocket.CloseStatus(err) != websocket.StatusGoingAway {
		t.Fatalf("websocket read after Shutdown\nhave %v\nwant close status %v", err, websocket.StatusGoingAway)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Display.Shutdown: unexpected error %v", err)
		}
	case <-ctx.Done():
		t.Fatal("Display.Shutdown did not return")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before the deadline")
}
