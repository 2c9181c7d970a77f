package geospatial_test

import (
	"math"
	"testing"

	"github.com/paulmach/orb"

	"github.com/samirrijal/polymap/internal/pkg/geospatial"
)

var square = orb.Ring{{0, 0}, {0, 2}, {2, 2}, {2, 0}, {0, 0}}

func ringsEqual(a, b orb.Ring) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCloseRing(t *testing.T) {
	tests := []struct {
		name string
		in   orb.Ring
		want orb.Ring
	}{
		{"empty", orb.Ring{}, orb.Ring{}},
		{"single", orb.Ring{{1, 1}}, orb.Ring{{1, 1}}},
		{"two equal points", orb.Ring{{1, 1}, {1, 1}}, orb.Ring{{1, 1}, {1, 1}}},
		{"three points closed", orb.Ring{{0, 0}, {1, 1}, {0, 0}}, orb.Ring{{0, 0}, {1, 1}, {0, 0}}},
		{"two distinct points", orb.Ring{{0, 0}, {1, 1}}, orb.Ring{{0, 0}, {1, 1}, {0, 0}}},
		{"open", orb.Ring{{0, 0}, {0, 2}, {2, 2}}, orb.Ring{{0, 0}, {0, 2}, {2, 2}, {0, 0}}},
		{"closed", square, square},
		{"near but not equal", orb.Ring{{0, 0}, {1, 1}, {0, 1e-12}}, orb.Ring{{0, 0}, {1, 1}, {0, 1e-12}, {0, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := geospatial.CloseRing(tt.in)
			if !ringsEqual(got, tt.want) {
				t.Fatalf("CloseRing(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if len(got) > 0 && got[0] != got[len(got)-1] {
				t.Errorf("first %v != last %v", got[0], got[len(got)-1])
			}
			if again := geospatial.CloseRing(got); !ringsEqual(again, got) {
				t.Errorf("CloseRing is not idempotent: %v then %v", got, again)
			}
		})
	}
}

func TestCloseRing_DoesNotAliasInput(t *testing.T) {
	backing := make(orb.Ring, 3, 8)
	copy(backing, orb.Ring{{0, 0}, {0, 2}, {2, 2}})
	closed := geospatial.CloseRing(backing)
	closed[0] = orb.Point{9, 9}
	if backing[0] != (orb.Point{0, 0}) {
		t.Error("CloseRing must not write through to the caller's backing array")
	}
}

func TestIsClosed(t *testing.T) {
	tests := []struct {
		name string
		in   orb.Ring
		want bool
	}{
		{"empty", nil, false},
		{"single", orb.Ring{{1, 1}}, true},
		{"two equal", orb.Ring{{1, 1}, {1, 1}}, true},
		{"short closed", orb.Ring{{0, 0}, {1, 1}, {0, 0}}, true},
		{"open", orb.Ring{{0, 0}, {1, 1}, {2, 0}}, false},
		{"square", square, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := geospatial.IsClosed(tt.in); got != tt.want {
				t.Errorf("IsClosed(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestOpenRing(t *testing.T) {
	if got := geospatial.OpenRing(orb.Ring{{0, 0}, {1, 1}, {0, 0}}); !ringsEqual(got, orb.Ring{{0, 0}, {1, 1}}) {
		t.Errorf("short closed ring: got %v", got)
	}
	if got := geospatial.OpenRing(orb.Ring{{1, 1}}); !ringsEqual(got, orb.Ring{{1, 1}}) {
		t.Errorf("single point must be kept: got %v", got)
	}
	if got := geospatial.OpenRing(square); len(got) != 4 {
		t.Errorf("square: got %v", got)
	}
}

func TestCentroid(t *testing.T) {
	tests := []struct {
		name string
		ring orb.Ring
		want orb.Point
	}{
		{"square closed", square, orb.Point{1, 1}},
		{"square open", orb.Ring{{0, 0}, {0, 2}, {2, 2}, {2, 0}}, orb.Point{1, 1}},
		{"triangle", orb.Ring{{0, 0}, {3, 0}, {0, 3}, {0, 0}}, orb.Point{1, 1}},
		{"collinear falls back to mean", orb.Ring{{0, 0}, {1, 0}, {2, 0}, {0, 0}}, orb.Point{1, 0}},
		{"duplicates ignored in fallback", orb.Ring{{0, 0}, {2, 0}, {2, 0}, {0, 0}}, orb.Point{1, 0}},
		{"single point", orb.Ring{{5, 6}}, orb.Point{5, 6}},
		{"empty", orb.Ring{}, orb.Point{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := geospatial.Centroid(tt.ring)
			if math.Abs(got[0]-tt.want[0]) > 1e-9 || math.Abs(got[1]-tt.want[1]) > 1e-9 {
				t.Errorf("Centroid = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCentroid_WindingIndependent(t *testing.T) {
	cw := orb.Ring{{0, 0}, {2, 0}, {2, 2}, {0, 2}, {0, 0}}
	a := geospatial.Centroid(square)
	b := geospatial.Centroid(cw)
	if math.Abs(a[0]-b[0]) > 1e-9 || math.Abs(a[1]-b[1]) > 1e-9 {
		t.Errorf("centroid depends on winding: %v vs %v", a, b)
	}
}

func TestPointInPolygon(t *testing.T) {
	if !geospatial.PointInPolygon(orb.Point{1, 1}, square) {
		t.Error("(1,1) should be inside the square")
	}
	if geospatial.PointInPolygon(orb.Point{5, 5}, square) {
		t.Error("(5,5) should be outside the square")
	}

	first := geospatial.PointInPolygon(orb.Point{0, 1}, square)
	for i := 0; i < 10; i++ {
		if geospatial.PointInPolygon(orb.Point{0, 1}, square) != first {
			t.Fatal("boundary result must be stable across calls")
		}
	}
}

func TestPointInPolygon_UnclosedRing(t *testing.T) {
	open := orb.Ring{{0, 0}, {0, 2}, {2, 2}, {2, 0}}
	if !geospatial.PointInPolygon(orb.Point{1, 1}, open) {
		t.Error("wraparound edge must be considered for open rings")
	}
	if geospatial.PointInPolygon(orb.Point{3, 1}, open) {
		t.Error("(3,1) should be outside")
	}
}

func TestPointInPolygon_Concave(t *testing.T) {
	// U shape opening upwards
	u := orb.Ring{{0, 0}, {3, 0}, {3, 3}, {2, 3}, {2, 1}, {1, 1}, {1, 3}, {0, 3}, {0, 0}}
	if geospatial.PointInPolygon(orb.Point{1.5, 2}, u) {
		t.Error("point in the notch should be outside")
	}
	if !geospatial.PointInPolygon(orb.Point{0.5, 2}, u) {
		t.Error("point in the left arm should be inside")
	}
}

func TestPointInPolygon_Degenerate(t *testing.T) {
	if geospatial.PointInPolygon(orb.Point{0, 0}, orb.Ring{{0, 0}, {1, 1}}) {
		t.Error("two-point ring contains nothing")
	}
	if geospatial.PointInPolygon(orb.Point{0, 0}, nil) {
		t.Error("nil ring contains nothing")
	}
}
