package connect

import "testing"

func TestNewRegion_RejectsDegenerateBoxes(t *testing.T) {
	cases := [][4]float64{
		{5, 5, 42, 43},   // zero lon extent
		{5, 4, 42, 43},   // inverted lon
		{4, 5, 43, 42},   // inverted lat
		{4, 5, 42.5, 42.5}, // zero lat extent
	}
	for _, c := range cases {
		if _, err := NewRegion(c[0], c[1], c[2], c[3]); err == nil {
			t.Errorf("NewRegion(%v) accepted a degenerate box", c)
		}
	}
}

func TestRegion_Contains(t *testing.T) {
	r, err := NewRegion(4.2, 5.2, 42.5, 43.2)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		lon, lat float64
		want     bool
	}{
		{4.7, 42.8, true},
		{4.2, 42.5, true}, // edges inclusive
		{5.2, 43.2, true},
		{4.1, 42.8, false},
		{4.7, 43.3, false},
		{15.0, 36.0, false},
	}
	for _, c := range cases {
		if got := r.Contains(c.lon, c.lat); got != c.want {
			t.Errorf("Contains(%g,%g) = %v, want %v", c.lon, c.lat, got, c.want)
		}
	}
}
