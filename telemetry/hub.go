// Package telemetry streams per-tick vehicle snapshots to websocket clients
package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/arcade-drive/parameter"
)

// Path is the websocket endpoint served by Serve
const Path = "/telemetry"

// Wheel is one wheel's derived state
type Wheel struct {
	Role        string     `json:"role"`
	Position    [3]float64 `json:"position"`
	Steering    float64    `json:"steering"`
	EngineForce float64    `json:"engine_force"`
	Brake       float64    `json:"brake"`
	Compression float64    `json:"compression"`
	InContact   bool       `json:"in_contact"`
}

// Chassis is the body state; Orientation is w, x, y, z
type Chassis struct {
	Position        [3]float64 `json:"position"`
	Orientation     [4]float64 `json:"orientation"`
	Velocity        [3]float64 `json:"velocity"`
	AngularVelocity [3]float64 `json:"angular_velocity"`
	SpeedKmh        float64    `json:"speed_kmh"`
	Heading         float64    `json:"heading"`
}

// Control is the signal applied on the tick
type Control struct {
	Throttle float64 `json:"throttle"`
	Steer    float64 `json:"steer"`
	Brake    float64 `json:"brake"`
}

// Camera is the follow camera pose
type Camera struct {
	Position [3]float64 `json:"position"`
	LookAt   [3]float64 `json:"look_at"`
}

// Snapshot is one published tick
type Snapshot struct {
	Tick    uint64  `json:"tick"`
	Time    float64 `json:"time"`
	Chassis Chassis `json:"chassis"`
	Wheels  []Wheel `json:"wheels"`
	Control Control `json:"control"`
	Camera  Camera  `json:"camera"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	id   string
}

// Hub fans snapshots out to connected clients
// A client whose queue is full is dropped rather than stalling the simulation
type Hub struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader

	sendBuffer int
	writeWait  time.Duration
	pingPeriod time.Duration

	log zerolog.Logger
}

// Option configures a Hub
type Option func(*Hub)

// WithLogger sets the hub's logger
func WithLogger(l zerolog.Logger) Option {
	return func(h *Hub) {
		h.log = l
	}
}

// WithPingPeriod overrides the keepalive interval
func WithPingPeriod(d time.Duration) Option {
	return func(h *Hub) {
		if d > 0 {
			h.pingPeriod = d
		}
	}
}

// NewHub creates an empty hub
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		sendBuffer: parameter.TelemetrySendBuffer,
		writeWait:  parameter.TelemetryWriteWait,
		pingPeriod: parameter.TelemetryPingPeriod,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish encodes s once and queues it for every client without blocking
func (h *Hub) Publish(s Snapshot) error {
	h.mu.Lock()
	empty := len(h.clients) == 0
	h.mu.Unlock()
	if empty {
		return nil
	}

	msg, err := json.Marshal(s)
	if err != nil {
		return err
	}
	h.broadcast(msg)
	return nil
}

func (h *Hub) broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.log.Warn().Str("client", c.id).Msg("telemetry client too slow, dropped")
			close(c.send)
			delete(h.clients, c)
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		close(c.send)
		delete(h.clients, c)
	}
}

// ServeHTTP upgrades the request and registers the client
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("telemetry upgrade failed")
		return
	}
	c := &client{conn: conn, send: make(chan []byte, h.sendBuffer), id: r.RemoteAddr}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.log.Info().Str("client", c.id).Msg("telemetry client connected")

	go h.readLoop(c)
	go h.writeLoop(c)
}

// readLoop discards inbound frames and detects disconnects
func (h *Hub) readLoop(c *client) {
	defer func() {
		h.remove(c)
		c.conn.Close()
		h.log.Info().Str("client", c.id).Msg("telemetry client disconnected")
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(h.pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

// Serve listens on addr until ctx is cancelled
func (h *Hub) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle(Path, h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() {
		h.log.Info().Str("addr", addr).Msg("telemetry listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		h.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
