package geospatial_test

import (
	"math"
	"testing"

	"github.com/paulmach/orb"

	"github.com/samirrijal/polymap/internal/pkg/geospatial"
)

func TestHaversine(t *testing.T) {
	// Tel Aviv to Jerusalem, roughly 54 km
	telAviv := orb.Point{34.7818, 32.0853}
	jerusalem := orb.Point{35.2137, 31.7683}

	d := geospatial.Haversine(telAviv, jerusalem)
	if d < 50000 || d > 58000 {
		t.Errorf("expected ~54km, got %.0fm", d)
	}
	if geospatial.Haversine(telAviv, telAviv) != 0 {
		t.Error("distance to self should be zero")
	}
}

func TestHaversine_OneDegreeLatitude(t *testing.T) {
	d := geospatial.Haversine(orb.Point{0, 0}, orb.Point{0, 1})
	if math.Abs(d-111195) > 100 {
		t.Errorf("expected ~111.2km per degree, got %.0fm", d)
	}
}

func TestDistance(t *testing.T) {
	if got := geospatial.Distance(orb.Point{0, 0}, orb.Point{3, 4}); got != 5 {
		t.Errorf("expected 5, got %v", got)
	}
}

func TestPathLength(t *testing.T) {
	ls := orb.LineString{{0, 0}, {0, 1}, {0, 2}}
	want := 2 * geospatial.Haversine(orb.Point{0, 0}, orb.Point{0, 1})
	if got := geospatial.PathLength(ls); math.Abs(got-want) > 1 {
		t.Errorf("expected %.0f, got %.0f", want, got)
	}
	if geospatial.PathLength(nil) != 0 {
		t.Error("empty path has zero length")
	}
}
