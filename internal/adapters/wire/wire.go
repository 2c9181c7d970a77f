// Package wire holds the JSON shapes of the REST API and the conversions to
// and from the core types. The nested geometry shapes are what existing
// clients of the API expect, so they must not change.
package wire

import (
	"fmt"
	"math"

	"github.com/samirrijal/polymap/internal/core/domain"
)

// Position is one [lng, lat] pair.
type Position struct {
	Values []float64 `json:"values"`
}

// LinearRing is an ordered list of positions.
type LinearRing struct {
	Positions []Position `json:"positions"`
}

// PolygonCoordinates is an exterior ring plus holes. Holes are always empty.
type PolygonCoordinates struct {
	Exterior LinearRing   `json:"exterior"`
	Holes    []LinearRing `json:"holes"`
}

type PolygonGeometry struct {
	Coordinates PolygonCoordinates `json:"coordinates"`
}

// Polygon is the listing shape of a stored polygon.
type Polygon struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Geometry PolygonGeometry `json:"geometry"`
}

// CreatePolygonRequest is the POST /api/polygons body. Coordinates holds the
// exterior ring as its first element.
type CreatePolygonRequest struct {
	Name        string        `json:"name"`
	Coordinates [][][]float64 `json:"coordinates"`
}

type LngLat struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

type ObjectLocation struct {
	Coordinates LngLat `json:"coordinates"`
}

// MapObject is the listing shape of a stored object.
type MapObject struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Location ObjectLocation `json:"location"`
}

// CreateObjectRequest is the POST /api/objects body.
type CreateObjectRequest struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// FromPolygon renders p in the listing shape.
func FromPolygon(p domain.Polygon) Polygon {
	positions := make([]Position, len(p.Ring))
	for i, pt := range p.Ring {
		positions[i] = Position{Values: []float64{pt.Lon(), pt.Lat()}}
	}
	return Polygon{
		ID:   p.ID.String(),
		Name: p.Name,
		Geometry: PolygonGeometry{Coordinates: PolygonCoordinates{
			Exterior: LinearRing{Positions: positions},
			Holes:    []LinearRing{},
		}},
	}
}

// FromPolygons renders a listing. The result is never nil so it encodes as [].
func FromPolygons(ps []domain.Polygon) []Polygon {
	out := make([]Polygon, len(ps))
	for i, p := range ps {
		out[i] = FromPolygon(p)
	}
	return out
}

// Domain flattens the listing shape into a core polygon.
func (p Polygon) Domain() (domain.Polygon, error) {
	ring := make(domain.Ring, len(p.Geometry.Coordinates.Exterior.Positions))
	for i, pos := range p.Geometry.Coordinates.Exterior.Positions {
		pt, err := point(pos.Values)
		if err != nil {
			return domain.Polygon{}, fmt.Errorf("polygon %s position %d: %w", p.ID, i, err)
		}
		ring[i] = pt
	}
	return domain.Polygon{ID: domain.RemoteID(p.ID), Name: p.Name, Ring: ring}, nil
}

// NewCreatePolygonRequest builds the create body for ring.
func NewCreatePolygonRequest(name string, ring domain.Ring) CreatePolygonRequest {
	exterior := make([][]float64, len(ring))
	for i, pt := range ring {
		exterior[i] = []float64{pt.Lon(), pt.Lat()}
	}
	return CreatePolygonRequest{Name: name, Coordinates: [][][]float64{exterior}}
}

// Ring returns the exterior ring of the request. Further rings are ignored.
func (r CreatePolygonRequest) Ring() (domain.Ring, error) {
	if len(r.Coordinates) == 0 || len(r.Coordinates[0]) == 0 {
		return nil, fmt.Errorf("%w: coordinates must contain an exterior ring", domain.ErrInvalidGeometry)
	}
	ring := make(domain.Ring, len(r.Coordinates[0]))
	for i, values := range r.Coordinates[0] {
		pt, err := point(values)
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		ring[i] = pt
	}
	return ring, nil
}

// FromObject renders o in the listing shape.
func FromObject(o domain.MapObject) MapObject {
	return MapObject{
		ID:   o.ID.String(),
		Type: o.Type,
		Location: ObjectLocation{Coordinates: LngLat{
			Longitude: o.Position.Lon(),
			Latitude:  o.Position.Lat(),
		}},
	}
}

// FromObjects renders a listing. The result is never nil so it encodes as [].
func FromObjects(objs []domain.MapObject) []MapObject {
	out := make([]MapObject, len(objs))
	for i, o := range objs {
		out[i] = FromObject(o)
	}
	return out
}

// Domain flattens the listing shape into a core object.
func (o MapObject) Domain() domain.MapObject {
	return domain.MapObject{
		ID:       domain.RemoteID(o.ID),
		Type:     o.Type,
		Position: domain.Point{o.Location.Coordinates.Longitude, o.Location.Coordinates.Latitude},
	}
}

func NewCreateObjectRequest(objectType string, position domain.Point) CreateObjectRequest {
	return CreateObjectRequest{Type: objectType, Coordinates: []float64{position.Lon(), position.Lat()}}
}

// Point returns the requested position.
func (r CreateObjectRequest) Point() (domain.Point, error) {
	return point(r.Coordinates)
}

func point(values []float64) (domain.Point, error) {
	if len(values) < 2 {
		return domain.Point{}, fmt.Errorf("%w: position needs longitude and latitude", domain.ErrInvalidGeometry)
	}
	if math.IsNaN(values[0]) || math.IsNaN(values[1]) {
		return domain.Point{}, fmt.Errorf("%w: coordinate is not a number", domain.ErrInvalidGeometry)
	}
	return domain.Point{values[0], values[1]}, nil
}
