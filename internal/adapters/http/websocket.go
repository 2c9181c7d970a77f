package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/polymap/internal/adapters/wire"
	"github.com/samirrijal/polymap/internal/core/domain"
	"github.com/samirrijal/polymap/internal/editor"
	"github.com/samirrijal/polymap/internal/pkg/metrics"
)

const pingInterval = 30 * time.Second

// Server to client messages of the editor protocol.
type (
	layerMessage struct {
		Type string                     `json:"type"`
		Name string                     `json:"name"`
		Data *geojson.FeatureCollection `json:"data"`
	}
	dragPanMessage struct {
		Type    string `json:"type"`
		Enabled bool   `json:"enabled"`
	}
	modeMessage struct {
		Type string `json:"type"`
		Mode string `json:"mode"`
	}
	pendingMessage struct {
		Type string `json:"type"`
		editor.Pending
	}
	selectionMessage struct {
		Type    string           `json:"type"`
		Polygon string           `json:"polygon"`
		Objects []wire.MapObject `json:"objects"`
	}
	changedMessage struct {
		Type   string `json:"type"`
		Entity string `json:"entity"`
		Action string `json:"action"`
		ID     string `json:"id"`
	}
	statusMessage struct {
		Type    string `json:"type"`
		Message string `json:"message,omitempty"`
	}
)

// messageWriter is the part of *websocket.Conn the session writes through.
type messageWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// wsWriter serializes writes from the session loop, the ping ticker and the
// change relay.
type wsWriter struct {
	mu   sync.Mutex
	conn messageWriter
}

func (w *wsWriter) send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteMessage(websocket.TextMessage, data)
}

func (w *wsWriter) sendError(err error) {
	_ = w.send(statusMessage{Type: "error", Message: err.Error()})
}

func (w *wsWriter) ping() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteMessage(websocket.PingMessage, nil)
}

// wsSurface implements ports.MapSurface by forwarding to the client, which
// owns the actual map.
type wsSurface struct {
	out *wsWriter
}

func (s *wsSurface) SetLayer(name string, fc *geojson.FeatureCollection) error {
	return s.out.send(layerMessage{Type: "layer", Name: name, Data: fc})
}

func (s *wsSurface) SetDragPan(enabled bool) {
	_ = s.out.send(dragPanMessage{Type: "dragpan", Enabled: enabled})
}

type loadResult struct {
	snap *editor.Snapshot
	err  error
}

var errLoadInProgress = errors.New("load in progress")

// EditorHandler runs one editor session per connection. The connection's
// goroutine owns the session: gateway calls run elsewhere and hand their
// results back through channels.
func EditorHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		metrics.ActiveSessions.Inc()
		defer metrics.ActiveSessions.Dec()

		log := slog.Default().With("session", uuid.NewString(), "remote", c.RemoteAddr().String())
		log.Info("editor session opened")

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		out := &wsWriter{conn: c}
		opts := deps.Editor
		opts.Logger = log
		opts.OnSelect = func(p domain.Polygon, objects []domain.MapObject) {
			_ = out.send(selectionMessage{Type: "selection", Polygon: p.ID.String(), Objects: wire.FromObjects(objects)})
		}
		opts.OnModeChange = func(_, to editor.Mode) {
			_ = out.send(modeMessage{Type: "mode", Mode: to.String()})
		}
		sess := editor.New(&wsSurface{out: out}, deps.Gateway, opts)

		if deps.Changes != nil {
			stop, err := deps.Changes.SubscribeChanges(ctx, func(_ context.Context, ch domain.Change) error {
				return out.send(changedMessage{Type: "changed", Entity: ch.Entity, Action: ch.Action, ID: ch.ID})
			})
			if err != nil {
				log.Warn("change relay unavailable", "error", err)
			} else {
				defer stop()
			}
		}

		go func() {
			ticker := time.NewTicker(pingInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if err := out.ping(); err != nil {
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}()

		inbox := make(chan []byte)
		go func() {
			defer close(inbox)
			for {
				_, msg, err := c.ReadMessage()
				if err != nil {
					return
				}
				select {
				case inbox <- msg:
				case <-ctx.Done():
					return
				}
			}
		}()

		// One save and one load at most are in flight, so a buffer of one
		// never blocks the worker after the loop has exited.
		saved := make(chan *editor.Plan, 1)
		loaded := make(chan loadResult, 1)
		loading := false

		startLoad := func() {
			switch {
			case sess.Saving():
				out.sendError(editor.ErrSaveInProgress)
				return
			case loading:
				out.sendError(errLoadInProgress)
				return
			}
			loading = true
			go func() {
				snap, err := sess.Fetch(ctx)
				loaded <- loadResult{snap: snap, err: err}
			}()
		}

		_ = out.send(modeMessage{Type: "mode", Mode: sess.Mode().String()})
		startLoad()

		last := sess.Pending()
		_ = out.send(pendingMessage{Type: "pending", Pending: last})

		for {
			select {
			case msg, ok := <-inbox:
				if !ok {
					log.Info("editor session closed")
					return
				}
				var cmd editor.Command
				if err := json.Unmarshal(msg, &cmd); err != nil {
					_ = out.send(statusMessage{Type: "error", Message: "invalid JSON"})
					continue
				}

				switch cmd.Type {
				case editor.CommandSave:
					if loading {
						out.sendError(errLoadInProgress)
						continue
					}
					plan, err := sess.BeginSave()
					if err != nil {
						out.sendError(err)
						continue
					}
					go func() {
						plan.Execute(ctx)
						saved <- plan
					}()
				case editor.CommandLoad:
					startLoad()
				default:
					if err := sess.Apply(cmd); err != nil {
						out.sendError(err)
					}
				}

			case plan := <-saved:
				if err := sess.FinishSave(plan); err != nil {
					out.sendError(err)
				} else {
					_ = out.send(statusMessage{Type: "saved"})
				}

			case res := <-loaded:
				loading = false
				err := res.err
				if err == nil {
					err = sess.Restore(res.snap)
				}
				if err != nil {
					log.Warn("load failed", "error", err)
					out.sendError(err)
				} else {
					_ = out.send(statusMessage{Type: "loaded"})
				}
			}

			if p := sess.Pending(); p != last {
				last = p
				_ = out.send(pendingMessage{Type: "pending", Pending: p})
			}
		}
	}
}
