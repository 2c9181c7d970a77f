package editor

import (
	"log/slog"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/polymap/internal/core/domain"
	"github.com/samirrijal/polymap/internal/core/ports"
	"github.com/samirrijal/polymap/internal/pkg/geospatial"
)

// Layer names understood by map surfaces.
const (
	LayerPolygons = "polygons"
	LayerObjects  = "objects"
	LayerPreview  = "preview"
	LayerVertices = "vertices"
)

// minRenderableRing is the smallest closed ring a surface can fill.
const minRenderableRing = 4

// PolygonLayer renders one feature per polygon with a renderable ring.
// status supplies the "status" property.
func PolygonLayer(polygons []domain.Polygon, status func(domain.EntityID) string) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, p := range polygons {
		if len(p.Ring) < minRenderableRing {
			continue
		}
		f := geojson.NewFeature(orb.Polygon{p.Ring})
		f.ID = p.ID.String()
		f.Properties["id"] = p.ID.String()
		f.Properties["name"] = p.Name
		if status != nil {
			f.Properties["status"] = status(p.ID)
		}
		fc.Append(f)
	}
	return fc
}

// ObjectLayer renders one point feature per object.
func ObjectLayer(objects []domain.MapObject) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, o := range objects {
		f := geojson.NewFeature(o.Position)
		f.ID = o.ID.String()
		f.Properties["id"] = o.ID.String()
		f.Properties["type"] = o.Type
		fc.Append(f)
	}
	return fc
}

// PreviewLayer renders the drawing preview line. Lines with fewer than two
// points render as an empty collection.
func PreviewLayer(line orb.LineString) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if len(line) >= 2 {
		fc.Append(geojson.NewFeature(line))
	}
	return fc
}

// VertexLayer renders a handle for every vertex of every polygon. The
// closing duplicate is skipped.
func VertexLayer(polygons []domain.Polygon) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for pi, p := range polygons {
		for vi, v := range geospatial.OpenRing(p.Ring) {
			f := geojson.NewFeature(v)
			f.Properties["polygon"] = p.ID.String()
			f.Properties["polygon_index"] = pi
			f.Properties["vertex_index"] = vi
			fc.Append(f)
		}
	}
	return fc
}

// layerSync pushes layers to a surface. Surface errors are logged, not
// returned: a failed render never invalidates editor state.
type layerSync struct {
	surface ports.MapSurface
	log     *slog.Logger
}

func (l *layerSync) set(name string, fc *geojson.FeatureCollection) {
	if err := l.surface.SetLayer(name, fc); err != nil {
		l.log.Warn("set layer failed", "layer", name, "error", err)
	}
}

func (l *layerSync) clear(name string) {
	l.set(name, geojson.NewFeatureCollection())
}
