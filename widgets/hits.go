package widgets

// Region is a clickable rectangle in screen cells
type Region struct {
	ID         string
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) is inside the region
func (r Region) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Hits collects regions while a frame is laid out and answers mouse lookups
// for the next frame. Later regions sit on top of earlier ones.
type Hits struct {
	regions []Region
}

func (h *Hits) Reset() {
	h.regions = h.regions[:0]
}

func (h *Hits) Add(r Region) {
	h.regions = append(h.regions, r)
}

// At returns the topmost region under (x, y)
func (h *Hits) At(x, y int) (Region, bool) {
	for i := len(h.regions) - 1; i >= 0; i-- {
		if h.regions[i].Contains(x, y) {
			return h.regions[i], true
		}
	}
	return Region{}, false
}

// Find returns the region with id
func (h *Hits) Find(id string) (Region, bool) {
	for _, r := range h.regions {
		if r.ID == id {
			return r, true
		}
	}
	return Region{}, false
}
