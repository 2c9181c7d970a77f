package http

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/gofiber/websocket/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/polymap/internal/editor"
)

type recordedMessage struct {
	kind int
	data []byte
}

type recordingConn struct {
	mu   sync.Mutex
	msgs []recordedMessage
	err  error
}

func (r *recordingConn) WriteMessage(kind int, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.msgs = append(r.msgs, recordedMessage{kind: kind, data: data})
	return nil
}

func (r *recordingConn) decode(t *testing.T, i int) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(r.msgs[i].data, &m); err != nil {
		t.Fatalf("message %d: %v", i, err)
	}
	return m
}

func TestWSSurface_SetLayer(t *testing.T) {
	conn := &recordingConn{}
	surface := &wsSurface{out: &wsWriter{conn: conn}}

	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.Point{1, 2}))
	if err := surface.SetLayer(editor.LayerObjects, fc); err != nil {
		t.Fatal(err)
	}

	if len(conn.msgs) != 1 || conn.msgs[0].kind != websocket.TextMessage {
		t.Fatalf("expected one text message, got %+v", conn.msgs)
	}
	m := conn.decode(t, 0)
	if m["type"] != "layer" || m["name"] != "objects" {
		t.Errorf("unexpected envelope %v", m)
	}
	data, ok := m["data"].(map[string]any)
	if !ok || data["type"] != "FeatureCollection" {
		t.Errorf("expected a FeatureCollection payload, got %v", m["data"])
	}
}

func TestWSSurface_SetLayerError(t *testing.T) {
	conn := &recordingConn{err: errors.New("closed")}
	surface := &wsSurface{out: &wsWriter{conn: conn}}
	if err := surface.SetLayer("polygons", geojson.NewFeatureCollection()); err == nil {
		t.Error("write failures must reach the caller")
	}
}

func TestWSSurface_SetDragPan(t *testing.T) {
	conn := &recordingConn{}
	surface := &wsSurface{out: &wsWriter{conn: conn}}
	surface.SetDragPan(false)

	m := conn.decode(t, 0)
	if m["type"] != "dragpan" || m["enabled"] != false {
		t.Errorf("unexpected message %v", m)
	}
}

func TestPendingMessageShape(t *testing.T) {
	msg := pendingMessage{Type: "pending", Pending: editor.Pending{
		Polygons: editor.Counts{New: 1, Total: 1},
	}}
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"type":"pending","polygons":{"new":1,"edited":0,"deleted":0,"total":1},` +
		`"objects":{"new":0,"edited":0,"deleted":0,"total":0}}`
	if string(data) != want {
		t.Errorf("got %s\nwant %s", data, want)
	}
}

func TestWSWriter_Concurrent(t *testing.T) {
	conn := &recordingConn{}
	out := &wsWriter{conn: conn}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); _ = out.send(statusMessage{Type: "saved"}) }()
		go func() { defer wg.Done(); _ = out.ping() }()
	}
	wg.Wait()

	if len(conn.msgs) != 40 {
		t.Fatalf("expected 40 writes, got %d", len(conn.msgs))
	}
	pings := 0
	for _, m := range conn.msgs {
		if m.kind == websocket.PingMessage {
			pings++
		}
	}
	if pings != 20 {
		t.Errorf("expected 20 pings, got %d", pings)
	}
}
