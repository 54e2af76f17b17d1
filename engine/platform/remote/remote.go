package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"
	"github.com/spaghettifunk/tinyrender/engine/config"
	"github.com/spaghettifunk/tinyrender/engine/core"
	"github.com/spaghettifunk/tinyrender/engine/platform"
	"github.com/spaghettifunk/tinyrender/engine/renderer/raster"
)

const (
	writeWait  = 10 * time.Second
	maxMsgSize = 1024
	sendBuffer = 4
)

// Stats is the body of GET /stats.
type Stats struct {
	Frame  uint64 `json:"frame"`
	Pixels int    `json:"pixels"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Message is what clients send over the websocket.
type Message struct {
	Key  string `json:"key,omitempty"`
	Down bool   `json:"down,omitempty"`
	Quit bool   `json:"quit,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Display serves the latest frame over HTTP and streams every frame to
// websocket clients as PNG. Clients drive the keyboard.
type Display struct {
	addr   string
	router *mux.Router
	srv    *http.Server
	ln     net.Listener

	mu      sync.RWMutex
	png     []byte
	stats   Stats
	keys    map[core.KeyCode]bool
	quit    bool
	clients map[*client]struct{}
}

func New(cfg config.RemoteConfig) *Display {
	d := &Display{
		addr:    cfg.Addr,
		keys:    make(map[core.KeyCode]bool),
		clients: make(map[*client]struct{}),
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", d.handleHealth).Methods("GET")
	r.HandleFunc("/frame.png", d.handleFrame).Methods("GET")
	r.HandleFunc("/stats", d.handleStats).Methods("GET")
	r.HandleFunc("/ws", d.handleWebSocket)
	d.router = r

	return d
}

// Handler exposes the routes, mostly for tests.
func (d *Display) Handler() http.Handler {
	return d.router
}

// Start listens on the configured address and serves in the background.
func (d *Display) Start() error {
	ln, err := net.Listen("tcp", d.addr)
	if err != nil {
		return fmt.Errorf("%w: listen %s: %w", core.ErrDisplayInit, d.addr, err)
	}
	d.ln = ln
	d.srv = &http.Server{
		Handler:      d.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := d.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			core.LogError("remote display server: %s", err)
		}
	}()

	core.LogInfo("remote display listening on %s", ln.Addr())
	return nil
}

// Addr is the address actually listened on, after Start.
func (d *Display) Addr() string {
	if d.ln == nil {
		return d.addr
	}
	return d.ln.Addr().String()
}

func (d *Display) Poll(input *core.InputState) bool {
	d.mu.RLock()
	keys := make(map[core.KeyCode]bool, len(d.keys))
	for key, down := range d.keys {
		keys[key] = down
	}
	quit := d.quit
	d.mu.RUnlock()

	for key, down := range keys {
		input.ProcessKey(key, down)
	}
	return !quit
}

// Present encodes the frame once and fans it out to every client. Slow
// clients skip frames instead of holding the engine back.
func (d *Display) Present(frame *raster.Frame) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, platform.FrameImage(frame)); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	data := buf.Bytes()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.png = data
	d.stats = Stats{
		Frame:  d.stats.Frame + 1,
		Pixels: frame.Len(),
		Width:  frame.Width(),
		Height: frame.Height(),
	}
	for c := range d.clients {
		select {
		case c.send <- data:
		default:
		}
	}
	return nil
}

// Shutdown disconnects every websocket client and stops the server. The
// server does not track hijacked connections, so clients are closed here.
func (d *Display) Shutdown() error {
	d.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(d.clients))
	for c := range d.clients {
		close(c.send)
		delete(d.clients, c)
		conns = append(conns, c.conn)
	}
	d.mu.Unlock()

	for _, conn := range conns {
		conn.Close(websocket.StatusGoingAway, "display shutting down")
	}

	if d.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return d.srv.Shutdown(ctx)
}

func (d *Display) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (d *Display) handleFrame(w http.ResponseWriter, r *http.Request) {
	d.mu.RLock()
	data := d.png
	d.mu.RUnlock()
	if data == nil {
		http.Error(w, "no frame presented yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(data)
}

func (d *Display) handleStats(w http.ResponseWriter, r *http.Request) {
	d.mu.RLock()
	stats := d.stats
	d.mu.RUnlock()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		core.LogWarn("remote display stats: %s", err)
	}
}

func (d *Display) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		core.LogError("websocket accept: %s", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	d.mu.Lock()
	d.clients[c] = struct{}{}
	d.mu.Unlock()
	core.LogDebug("remote client connected from %s", r.RemoteAddr)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go d.writePump(ctx, conn, c)
	d.readPump(ctx, conn)

	d.mu.Lock()
	if _, ok := d.clients[c]; ok {
		close(c.send)
		delete(d.clients, c)
	}
	d.mu.Unlock()
	conn.Close(websocket.StatusNormalClosure, "")
	core.LogDebug("remote client %s gone", r.RemoteAddr)
}

func (d *Display) readPump(ctx context.Context, conn *websocket.Conn) {
	conn.SetReadLimit(maxMsgSize)
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			core.LogWarn("invalid remote message: %s", err)
			continue
		}
		d.apply(msg)
	}
}

func (d *Display) writePump(ctx context.Context, conn *websocket.Conn, c *client) {
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := conn.Write(writeCtx, websocket.MessageBinary, data)
			cancel()
			if err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (d *Display) apply(msg Message) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if msg.Quit {
		d.quit = true
		return
	}
	key, ok := core.ParseKeyName(msg.Key)
	if !ok {
		core.LogWarn("unknown remote key %q", msg.Key)
		return
	}
	d.keys[key] = msg.Down
}
