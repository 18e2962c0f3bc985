package field

// Mask is a [lat][lon] boolean grid aligned with a FieldSet's axes.
type Mask [][]bool

// NewMask allocates an all-false mask with the given shape.
func NewMask(nLat, nLon int) Mask {
	m := make(Mask, nLat)
	for i := range m {
		m[i] = make([]bool, nLon)
	}
	return m
}

// Cell identifies one grid cell by axis indices.
type Cell struct {
	LatIdx int
	LonIdx int
}

// Count returns the number of true cells.
func (m Mask) Count() int {
	n := 0
	for i := range m {
		for j := range m[i] {
			if m[i][j] {
				n++
			}
		}
	}
	return n
}

// Cells lists the true cells in row-major (lat, lon) order. The fixed order
// keeps release-site sampling deterministic.
func (m Mask) Cells() []Cell {
	cells := make([]Cell, 0, m.Count())
	for i := range m {
		for j := range m[i] {
			if m[i][j] {
				cells = append(cells, Cell{LatIdx: i, LonIdx: j})
			}
		}
	}
	return cells
}

// LandMask derives the land mask from the first U snapshot: NaN, fill
// sentinel, or exactly zero marks land.
func LandMask(fs *FieldSet) Mask {
	nLat := len(fs.Grid.Lats)
	nLon := len(fs.Grid.Lons)
	m := NewMask(nLat, nLon)
	for i := 0; i < nLat; i++ {
		for j := 0; j < nLon; j++ {
			m[i][j] = IsLandValue(fs.U[0][i][j])
		}
	}
	return m
}

// Dilate grows the mask by the given number of 8-connected passes.
func Dilate(m Mask, iterations int) Mask {
	cur := m
	for it := 0; it < iterations; it++ {
		next := NewMask(len(cur), len(cur[0]))
		for i := range cur {
			for j := range cur[i] {
				next[i][j] = cur[i][j] || anyNeighbor(cur, i, j)
			}
		}
		cur = next
	}
	return cur
}

func anyNeighbor(m Mask, i, j int) bool {
	for di := -1; di <= 1; di++ {
		for dj := -1; dj <= 1; dj++ {
			if di == 0 && dj == 0 {
				continue
			}
			ni, nj := i+di, j+dj
			if ni < 0 || ni >= len(m) || nj < 0 || nj >= len(m[ni]) {
				continue
			}
			if m[ni][nj] {
				return true
			}
		}
	}
	return false
}

// CoastalBand returns the water cells within `iterations` dilation passes of
// land: the dilated land mask minus land itself.
func CoastalBand(land Mask, iterations int) Mask {
	dilated := Dilate(land, iterations)
	band := NewMask(len(land), len(land[0]))
	for i := range land {
		for j := range land[i] {
			band[i][j] = dilated[i][j] && !land[i][j]
		}
	}
	return band
}
