package editor

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/samirrijal/polymap/internal/core/domain"
	"github.com/samirrijal/polymap/internal/core/ports"
	"github.com/samirrijal/polymap/internal/pkg/metrics"
	"github.com/samirrijal/polymap/internal/pkg/telemetry"
)

var (
	// ErrSaveFailed wraps the per-entity failures of a save.
	ErrSaveFailed = errors.New("save failed")
	// ErrSaveInProgress is returned when a save or load is attempted while
	// another save is in flight.
	ErrSaveInProgress = errors.New("save already in progress")
)

// DefaultSaveConcurrency bounds the gateway calls in flight per save phase.
const DefaultSaveConcurrency = 8

type opKind uint8

const (
	opDelete opKind = iota
	opCreate
	opReplace
)

var phases = [...]opKind{opDelete, opCreate, opReplace}

type outcome struct {
	newID string
	// removed is set once the server copy under the old id is gone.
	removed bool
	err     error
}

type polygonOp struct {
	kind opKind
	id   domain.EntityID
	rev  uint64
	name string
	ring domain.Ring
	out  outcome
}

type objectOp struct {
	kind       opKind
	id         domain.EntityID
	rev        uint64
	objectType string
	position   domain.Point
	out        outcome
}

// Plan is the snapshot of dirty state a save replays against the gateway.
// Execute touches only the plan, so it may run on another goroutine while
// the owner keeps handling events.
type Plan struct {
	gateway  ports.Gateway
	limit    int
	polygons []polygonOp
	objects  []objectOp
}

// Len is the number of entity operations in the plan.
func (p *Plan) Len() int { return len(p.polygons) + len(p.objects) }

// BeginSave snapshots the dirty state and marks a save in flight. Local
// deletions never reach the plan.
func (s *Store) BeginSave(gw ports.Gateway, limit int) (*Plan, error) {
	if s.saving {
		return nil, ErrSaveInProgress
	}
	if limit <= 0 {
		limit = DefaultSaveConcurrency
	}
	s.saving = true

	plan := &Plan{gateway: gw, limit: limit}

	for _, id := range s.polyDirty.Deleted() {
		plan.polygons = append(plan.polygons, polygonOp{kind: opDelete, id: id})
	}
	for i := range s.polygons.items {
		e := &s.polygons.items[i]
		if e.value.ID.IsLocal() {
			plan.polygons = append(plan.polygons, polygonSnapshot(opCreate, e))
		}
	}
	for _, id := range s.polyDirty.Edited() {
		if i, ok := s.polygons.index[id]; ok {
			plan.polygons = append(plan.polygons, polygonSnapshot(opReplace, &s.polygons.items[i]))
		}
	}

	for _, id := range s.objDirty.Deleted() {
		plan.objects = append(plan.objects, objectOp{kind: opDelete, id: id})
	}
	for i := range s.objects.items {
		e := &s.objects.items[i]
		if e.value.ID.IsLocal() {
			plan.objects = append(plan.objects, objectSnapshot(opCreate, e))
		}
	}
	for _, id := range s.objDirty.Edited() {
		if i, ok := s.objects.index[id]; ok {
			plan.objects = append(plan.objects, objectSnapshot(opReplace, &s.objects.items[i]))
		}
	}

	return plan, nil
}

func polygonSnapshot(kind opKind, e *entry[domain.Polygon]) polygonOp {
	return polygonOp{
		kind: kind,
		id:   e.value.ID,
		rev:  e.rev,
		name: e.value.Name,
		ring: slices.Clone(e.value.Ring),
	}
}

func objectSnapshot(kind opKind, e *entry[domain.MapObject]) objectOp {
	return objectOp{
		kind:       kind,
		id:         e.value.ID,
		rev:        e.rev,
		objectType: e.value.Type,
		position:   e.value.Position,
	}
}

// Execute runs the plan: deletes, then creates, then replaces. Calls within
// a phase fan out up to the plan's limit and the next phase starts only
// after every call of the current one has returned. Failures are recorded
// per entity and never abort the other calls.
func (p *Plan) Execute(ctx context.Context) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanEditorSave)
	defer span.End()
	span.SetAttributes(
		attribute.Int("save.polygons", len(p.polygons)),
		attribute.Int("save.objects", len(p.objects)),
	)

	start := time.Now()
	for _, phase := range phases {
		var g errgroup.Group
		g.SetLimit(p.limit)
		for i := range p.polygons {
			op := &p.polygons[i]
			if op.kind != phase {
				continue
			}
			g.Go(func() error {
				op.out = p.runPolygon(ctx, op)
				return nil
			})
		}
		for i := range p.objects {
			op := &p.objects[i]
			if op.kind != phase {
				continue
			}
			g.Go(func() error {
				op.out = p.runObject(ctx, op)
				return nil
			})
		}
		_ = g.Wait()
	}
	metrics.SaveDuration.Observe(time.Since(start).Seconds())

	if err := p.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
	}
}

// Err joins the per-entity failures of an executed plan.
func (p *Plan) Err() error {
	var errs []error
	for _, op := range p.polygons {
		if op.out.err != nil {
			errs = append(errs, op.out.err)
		}
	}
	for _, op := range p.objects {
		if op.out.err != nil {
			errs = append(errs, op.out.err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrSaveFailed, errors.Join(errs...))
}

func (p *Plan) runPolygon(ctx context.Context, op *polygonOp) outcome {
	switch op.kind {
	case opDelete:
		if err := p.remove(ctx, "delete_polygon", op.id, p.gateway.DeletePolygon); err != nil {
			return outcome{err: fmt.Errorf("delete polygon %s: %w", op.id, err)}
		}
		return outcome{removed: true}

	case opCreate:
		id, err := p.createPolygon(ctx, op)
		if err != nil {
			return outcome{err: fmt.Errorf("create polygon %s: %w", op.id, err)}
		}
		return outcome{newID: id}

	default:
		if err := p.remove(ctx, "delete_polygon", op.id, p.gateway.DeletePolygon); err != nil {
			return outcome{err: fmt.Errorf("replace polygon %s: delete: %w", op.id, err)}
		}
		id, err := p.createPolygon(ctx, op)
		if err != nil {
			return outcome{removed: true, err: fmt.Errorf("replace polygon %s: create: %w", op.id, err)}
		}
		return outcome{removed: true, newID: id}
	}
}

func (p *Plan) runObject(ctx context.Context, op *objectOp) outcome {
	switch op.kind {
	case opDelete:
		if err := p.remove(ctx, "delete_object", op.id, p.gateway.DeleteObject); err != nil {
			return outcome{err: fmt.Errorf("delete object %s: %w", op.id, err)}
		}
		return outcome{removed: true}

	case opCreate:
		id, err := p.createObject(ctx, op)
		if err != nil {
			return outcome{err: fmt.Errorf("create object %s: %w", op.id, err)}
		}
		return outcome{newID: id}

	default:
		if err := p.remove(ctx, "delete_object", op.id, p.gateway.DeleteObject); err != nil {
			return outcome{err: fmt.Errorf("replace object %s: delete: %w", op.id, err)}
		}
		id, err := p.createObject(ctx, op)
		if err != nil {
			return outcome{removed: true, err: fmt.Errorf("replace object %s: create: %w", op.id, err)}
		}
		return outcome{removed: true, newID: id}
	}
}

// remove deletes id through fn. A server that no longer has the id counts
// as success.
func (p *Plan) remove(ctx context.Context, operation string, id domain.EntityID, fn func(context.Context, string) error) error {
	err := fn(ctx, id.Value())
	metrics.GatewayCalls.WithLabelValues(operation, metrics.Outcome(err)).Inc()
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

func (p *Plan) createPolygon(ctx context.Context, op *polygonOp) (string, error) {
	id, err := p.gateway.CreatePolygon(ctx, op.name, op.ring)
	return checkCreated("create_polygon", id, err)
}

func (p *Plan) createObject(ctx context.Context, op *objectOp) (string, error) {
	id, err := p.gateway.CreateObject(ctx, op.objectType, op.position)
	return checkCreated("create_object", id, err)
}

func checkCreated(operation, id string, err error) (string, error) {
	if err == nil && id == "" {
		err = errors.New("gateway returned an empty id")
	}
	metrics.GatewayCalls.WithLabelValues(operation, metrics.Outcome(err)).Inc()
	if err != nil {
		return "", err
	}
	return id, nil
}

// FinishSave folds an executed plan back into the live collections and
// clears the in-flight flag. Successes clear exactly the ids they resolved;
// failures stay dirty. dropped reports whether deduplication removed an
// entity, which shifts collection indices.
func (s *Store) FinishSave(p *Plan) (dropped bool, err error) {
	s.saving = false

	for _, op := range p.polygons {
		if commit(s.polygons, s.polyDirty, op.kind, op.id, op.rev, op.out) {
			dropped = true
		}
	}
	for _, op := range p.objects {
		if commit(s.objects, s.objDirty, op.kind, op.id, op.rev, op.out) {
			dropped = true
		}
	}
	return dropped, p.Err()
}

func commit[T any](c *collection[T], t *Tracker, kind opKind, id domain.EntityID, rev uint64, out outcome) (dropped bool) {
	switch kind {
	case opDelete:
		if out.err == nil {
			t.ClearDeleted(id)
		}
		return false

	case opCreate:
		if out.err != nil {
			return false
		}
		newID := domain.RemoteID(out.newID)
		if !c.Has(id) {
			// Removed while its create was in flight: the server copy is
			// now the one to delete.
			t.MarkDeleted(newID)
			return false
		}
		return settle(c, t, id, newID, rev)

	default:
		if !out.removed {
			return false
		}
		t.ClearEdited(id)
		if !c.Has(id) {
			// Removed during the replace. The old server copy is already gone.
			t.ClearDeleted(id)
			if out.err == nil {
				t.MarkDeleted(domain.RemoteID(out.newID))
			}
			return false
		}
		if out.err != nil {
			// Nothing is left on the server; recreate on the next save.
			return c.Reid(id, domain.NewLocalID())
		}
		return settle(c, t, id, domain.RemoteID(out.newID), rev)
	}
}

// settle moves the entity to its server id and keeps it edited when it
// changed after the plan was taken.
func settle[T any](c *collection[T], t *Tracker, id, newID domain.EntityID, rev uint64) bool {
	changed := c.Rev(id) != rev
	if c.Reid(id, newID) {
		return true
	}
	if changed {
		t.MarkEdited(newID)
	}
	return false
}
