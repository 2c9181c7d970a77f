package editor

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/samirrijal/polymap/internal/core/domain"
	"github.com/samirrijal/polymap/internal/core/ports"
	"github.com/samirrijal/polymap/internal/pkg/logging"
	"github.com/samirrijal/polymap/internal/pkg/metrics"
	"github.com/samirrijal/polymap/internal/pkg/telemetry"
)

// DefaultTolerance is the closure and vertex hit-test distance in degrees.
const DefaultTolerance = 0.001

// Options configures a Session. Zero values fall back to the defaults.
type Options struct {
	ClosureTolerance   float64
	VertexTolerance    float64
	SaveConcurrency    int
	DefaultObjectType  string
	DefaultPolygonName string
	Logger             *slog.Logger

	// OnSelect receives the objects enclosed by a polygon clicked while
	// selecting. It runs on the session's goroutine.
	OnSelect func(polygon domain.Polygon, objects []domain.MapObject)

	// OnModeChange observes every mode transition after the new mode's
	// handlers are in place.
	OnModeChange TransitionFunc
}

// Session is one operator's editing context over a map surface. It is
// confined to a single goroutine; only Plan.Execute and Fetch may run
// elsewhere.
type Session struct {
	opts    Options
	log     *slog.Logger
	surface ports.MapSurface
	gateway ports.Gateway

	mode      ModeState
	dispatch  *Dispatcher
	subs      []func()
	drawing   *Drawing
	vertices  *VertexEditor
	placement Placement
	store     *Store
	layers    layerSync
}

// New builds a session drawing onto surface and saving through gateway.
func New(surface ports.MapSurface, gateway ports.Gateway, opts Options) *Session {
	if opts.ClosureTolerance <= 0 {
		opts.ClosureTolerance = DefaultTolerance
	}
	if opts.VertexTolerance <= 0 {
		opts.VertexTolerance = DefaultTolerance
	}
	if opts.SaveConcurrency <= 0 {
		opts.SaveConcurrency = DefaultSaveConcurrency
	}
	if opts.DefaultObjectType == "" {
		opts.DefaultObjectType = domain.DefaultObjectType
	}
	if opts.DefaultPolygonName == "" {
		opts.DefaultPolygonName = domain.DefaultPolygonName
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	s := &Session{
		opts:     opts,
		log:      opts.Logger,
		surface:  surface,
		gateway:  gateway,
		dispatch: NewDispatcher(),
		drawing:  NewDrawing(opts.ClosureTolerance, opts.DefaultPolygonName),
		vertices: NewVertexEditor(opts.VertexTolerance),
		store:    NewStore(),
		layers:   layerSync{surface: surface, log: opts.Logger},
	}
	s.placement.SetType(opts.DefaultObjectType)
	s.mode.OnTransition(s.onTransition)
	if opts.OnModeChange != nil {
		s.mode.OnTransition(opts.OnModeChange)
	}
	return s
}

func (s *Session) onTransition(from, to Mode) {
	for _, unsubscribe := range s.subs {
		unsubscribe()
	}
	s.subs = s.subs[:0]

	switch from {
	case ModeDrawing:
		s.drawing.Reset()
		s.layers.clear(LayerPreview)
	case ModeEditing:
		s.releaseDrag()
		s.layers.clear(LayerVertices)
	}

	switch to {
	case ModeDrawing:
		s.subscribe(domain.EventClick, s.drawClick)
		s.subscribe(domain.EventPointerMove, s.drawMove)
	case ModeEditing:
		s.subscribe(domain.EventPointerDown, s.press)
		s.subscribe(domain.EventPointerMove, s.drag)
		s.subscribe(domain.EventPointerUp, func(domain.Event) { s.releaseDrag() })
		s.pushVertices()
	case ModeAddingObject:
		s.subscribe(domain.EventClick, s.place)
	case ModeDeletingPolygons:
		s.subscribe(domain.EventFeatureClick, s.deleteClicked(LayerPolygons))
	case ModeDeletingObjects:
		s.subscribe(domain.EventFeatureClick, s.deleteClicked(LayerObjects))
	case ModeSelectingPolygon:
		s.subscribe(domain.EventFeatureClick, s.selectClicked)
	}

	s.log.Debug("mode changed", "from", from.String(), "to", to.String())
}

func (s *Session) subscribe(kind domain.EventKind, fn Handler) {
	s.subs = append(s.subs, s.dispatch.Subscribe(kind, fn))
}

// Handle feeds one map-surface event to the handlers of the active mode.
// Pointer events with non-finite coordinates are dropped.
func (s *Session) Handle(ev domain.Event) {
	switch ev.Kind {
	case domain.EventClick, domain.EventPointerDown, domain.EventPointerMove:
		if !domain.Finite(ev.Point) {
			return
		}
	}
	s.dispatch.Dispatch(ev)
}

// Enable switches to m, or back to Idle when m is already active.
func (s *Session) Enable(m Mode) { s.mode.Enable(m) }

// Disable returns to Idle if m is active.
func (s *Session) Disable(m Mode) { s.mode.Disable(m) }

// Mode returns the active mode.
func (s *Session) Mode() Mode { return s.mode.Current() }

// SetObjectType selects the type used by object placement. An empty type
// turns placement clicks into no-ops.
func (s *Session) SetObjectType(t string) { s.placement.SetType(t) }

// ObjectType returns the selected placement type.
func (s *Session) ObjectType() string { return s.placement.Type() }

func (s *Session) Polygons() []domain.Polygon                        { return s.store.Polygons() }
func (s *Session) Objects() []domain.MapObject                       { return s.store.Objects() }
func (s *Session) Polygon(id domain.EntityID) (domain.Polygon, bool) { return s.store.Polygon(id) }
func (s *Session) Pending() Pending                                  { return s.store.Pending() }
func (s *Session) Saving() bool                                      { return s.store.Saving() }

// PendingVertices returns the vertices accumulated by an unfinished drawing.
func (s *Session) PendingVertices() []domain.Point { return s.drawing.Pending() }

// Dragging reports whether a vertex drag is in progress.
func (s *Session) Dragging() bool { return s.vertices.Dragging() }

// DeletePolygon removes polygon id. It reports whether the polygon existed.
func (s *Session) DeletePolygon(id domain.EntityID) bool {
	if !s.store.RemovePolygon(id) {
		return false
	}
	// Removal shifts the indices a drag target refers to.
	s.releaseDrag()
	s.pushPolygons()
	return true
}

// DeleteObject removes object id. It reports whether the object existed.
func (s *Session) DeleteObject(id domain.EntityID) bool {
	if !s.store.RemoveObject(id) {
		return false
	}
	s.pushObjects()
	return true
}

// MoveObject repositions object id. It reports whether the object existed;
// non-finite positions are rejected.
func (s *Session) MoveObject(id domain.EntityID, pos domain.Point) bool {
	if !domain.Finite(pos) || !s.store.MoveObject(id, pos) {
		return false
	}
	s.pushObjects()
	return true
}

// RenamePolygon changes a polygon's display name.
func (s *Session) RenamePolygon(id domain.EntityID, name string) bool {
	if name == "" {
		name = s.opts.DefaultPolygonName
	}
	if !s.store.RenamePolygon(id, name) {
		return false
	}
	s.pushPolygons()
	return true
}

func (s *Session) drawClick(ev domain.Event) {
	poly, closed := s.drawing.Click(ev.Point)
	if !closed {
		return
	}
	s.store.AddPolygon(poly)
	metrics.PolygonsDrawn.Inc()
	s.log.Debug("polygon drawn", "id", poly.ID.String(), "vertices", len(poly.Ring)-1)
	s.pushPolygons()
	s.mode.Enable(ModeIdle)
}

func (s *Session) drawMove(ev domain.Event) {
	s.layers.set(LayerPreview, PreviewLayer(s.drawing.Preview(ev.Point)))
}

func (s *Session) press(ev domain.Event) {
	if s.vertices.Press(s.store, ev.Point) {
		s.surface.SetDragPan(false)
	}
}

func (s *Session) drag(ev domain.Event) {
	id, ring, ok := s.vertices.Move(s.store, ev.Point)
	if !ok {
		return
	}
	s.store.UpdateRing(id, ring)
	s.pushPolygons()
}

func (s *Session) releaseDrag() {
	if s.vertices.Release() {
		s.surface.SetDragPan(true)
	}
}

func (s *Session) place(ev domain.Event) {
	obj, ok := s.placement.Place(ev.Point, s.store.HasObject)
	if !ok {
		return
	}
	s.store.AddObject(obj)
	metrics.ObjectsPlaced.WithLabelValues(obj.Type).Inc()
	s.pushObjects()
}

func (s *Session) deleteClicked(layer string) Handler {
	return func(ev domain.Event) {
		if ev.Layer != layer {
			return
		}
		id := domain.ParseEntityID(ev.FeatureID)
		if layer == LayerPolygons {
			s.DeletePolygon(id)
		} else {
			s.DeleteObject(id)
		}
	}
}

func (s *Session) selectClicked(ev domain.Event) {
	if ev.Layer != LayerPolygons {
		return
	}
	poly, ok := s.store.Polygon(domain.ParseEntityID(ev.FeatureID))
	if !ok {
		return
	}
	enclosed := SelectEnclosed(poly.Ring, s.store.Objects())
	if s.opts.OnSelect != nil {
		s.opts.OnSelect(poly, enclosed)
	}
}

// Save reconciles all pending changes with the gateway and blocks until
// every call has returned. See BeginSave for running the calls elsewhere.
func (s *Session) Save(ctx context.Context) error {
	plan, err := s.BeginSave()
	if err != nil {
		return err
	}
	plan.Execute(ctx)
	return s.FinishSave(plan)
}

// BeginSave snapshots pending changes and marks a save in flight. The plan
// may be executed on another goroutine; FinishSave must then be called on
// the session's goroutine.
func (s *Session) BeginSave() (*Plan, error) {
	plan, err := s.store.BeginSave(s.gateway, s.opts.SaveConcurrency)
	if err != nil {
		metrics.Saves.WithLabelValues(metrics.OutcomeBusy).Inc()
		return nil, err
	}
	s.log.Debug("save started", "operations", plan.Len())
	return plan, nil
}

// FinishSave folds an executed plan into the live collections.
func (s *Session) FinishSave(plan *Plan) error {
	dropped, err := s.store.FinishSave(plan)
	if dropped {
		s.releaseDrag()
	}
	metrics.Saves.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		s.log.Warn("save failed", "error", err, "pending", s.store.Pending().Total())
	} else {
		s.log.Info("save completed", "operations", plan.Len())
	}
	s.pushPolygons()
	s.pushObjects()
	return err
}

// Snapshot is a full listing fetched from the gateway.
type Snapshot struct {
	Polygons []domain.Polygon
	Objects  []domain.MapObject
}

// Fetch lists both collections from the gateway. It does not touch session
// state and may run on any goroutine.
func (s *Session) Fetch(ctx context.Context) (*Snapshot, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanEditorLoad)
	defer span.End()

	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		polygons, err := s.gateway.ListPolygons(gctx)
		metrics.GatewayCalls.WithLabelValues("list_polygons", metrics.Outcome(err)).Inc()
		if err != nil {
			return fmt.Errorf("list polygons: %w", err)
		}
		snap.Polygons = polygons
		return nil
	})
	g.Go(func() error {
		objects, err := s.gateway.ListObjects(gctx)
		metrics.GatewayCalls.WithLabelValues("list_objects", metrics.Outcome(err)).Inc()
		if err != nil {
			return fmt.Errorf("list objects: %w", err)
		}
		snap.Objects = objects
		return nil
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &snap, nil
}

// Restore replaces both live collections with snap and forgets all pending
// changes. It is rejected while a save is in flight.
func (s *Session) Restore(snap *Snapshot) error {
	if s.store.Saving() {
		return ErrSaveInProgress
	}
	s.releaseDrag()
	s.store.Replace(snap.Polygons, snap.Objects)
	s.log.Info("collections loaded", "polygons", len(snap.Polygons), "objects", len(snap.Objects))
	s.Refresh()
	return nil
}

// Load fetches and restores in one blocking call.
func (s *Session) Load(ctx context.Context) error {
	if s.store.Saving() {
		return ErrSaveInProgress
	}
	snap, err := s.Fetch(ctx)
	if err != nil {
		return err
	}
	return s.Restore(snap)
}

// Refresh pushes every layer, e.g. to a freshly attached surface.
func (s *Session) Refresh() {
	s.pushPolygons()
	s.pushObjects()
	if !s.mode.Active(ModeEditing) {
		s.layers.clear(LayerVertices)
	}
	if !s.mode.Active(ModeDrawing) {
		s.layers.clear(LayerPreview)
	}
}

func (s *Session) pushPolygons() {
	s.layers.set(LayerPolygons, PolygonLayer(s.store.Polygons(), s.store.Status))
	if s.mode.Active(ModeEditing) {
		s.pushVertices()
	}
}

func (s *Session) pushObjects() {
	s.layers.set(LayerObjects, ObjectLayer(s.store.Objects()))
}

func (s *Session) pushVertices() {
	s.layers.set(LayerVertices, VertexLayer(s.store.Polygons()))
}
