package grid

/*

Board Geometries

In this package there is only one board implementation, but the
shape of its sub-regions depends on the side length.  Square side
lengths get the classic square tiles, side lengths that are the
product of consecutive integers get rectangular tiles, and
anything else gets no tiles at all (rows and columns remain).

*/

import (
	"fmt"
)

// A RegionID names a row, column, or tile of constrained cells,
// collectively called regions.  The numbering for each type of
// region is 1-based and runs in reading order.
type RegionID struct {
	Rtype string `json:"rtype"`
	Index int    `json:"index"`
}

// Region IDs implement Stringer
func (rid RegionID) String() string {
	if rid.Rtype == "" {
		return fmt.Sprintf("<region> %d", rid.Index)
	}
	return fmt.Sprintf("%s %d", rid.Rtype, rid.Index)
}

// Rtype (region type) constants.  These are human-readable but
// not localized.
const (
	RtypeRow  = "row"
	RtypeCol  = "column"
	RtypeTile = "tile"
)

// A region descriptor identifies a region and enumerates its
// cells in reading order.
type region struct {
	id    RegionID
	cells []Cell
}

// A boardGeometry summarizes the geometry parameters of a board:
// its side length, its tile dimensions (0x0 when the side length
// supports no tiling), and the full set of regions.
type boardGeometry struct {
	size    int
	tileX   int // tile width, 0 if untiled
	tileY   int // tile height, 0 if untiled
	regions []region
}

/*

Geometry computation

*/

// geometryCache is where we memoize computed geometries for each
// side length we've encountered, to avoid computing them more
// than once.
var geometryCache = make(map[int]*boardGeometry)

// boardGeometryFor returns the geometry for a board with the
// given side length.  This computes (first time) and then
// returns (thereafter) the geometry.  Callers are expected to
// have validated the side length already.
func boardGeometryFor(size int) *boardGeometry {
	if g, ok := geometryCache[size]; ok {
		return g
	}
	g := computeBoardGeometry(size)
	geometryCache[size] = g
	return g
}

// Find the integer square root of val, if it exists.
func findIntSquareRoot(val int) (int, bool) {
	var i int
	for i = 1; i*i <= val; i++ {
		if i*i == val {
			return i, true
		}
	}
	return i - 1, false
}

// findDivisors: find consecutive ints that multiply to give an
// int, if they exist.
func findDivisors(val int) (int, int, bool) {
	var low, high int
	for low, high = 1, 2; low*high <= val; low, high = high, high+1 {
		if low*high == val {
			return low, high, true
		}
	}
	return low - 1, low, false
}

// tileDimensions picks the tile shape for a side length: square
// tiles when the side length is a perfect square, otherwise
// rectangular tiles when it is the product of consecutive
// integers (the 2x3 style of 6-boards), otherwise none.
func tileDimensions(size int) (tileX, tileY int) {
	if root, ok := findIntSquareRoot(size); ok && root > 1 {
		return root, root
	}
	if low, high, ok := findDivisors(size); ok && low > 1 {
		// wide tiles, the conventional orientation
		return high, low
	}
	return 0, 0
}

func computeBoardGeometry(size int) *boardGeometry {
	tileX, tileY := tileDimensions(size)
	g := &boardGeometry{size: size, tileX: tileX, tileY: tileY}
	for i := 0; i < size; i++ {
		row := region{id: RegionID{RtypeRow, i + 1}, cells: make([]Cell, size)}
		col := region{id: RegionID{RtypeCol, i + 1}, cells: make([]Cell, size)}
		for j := 0; j < size; j++ {
			row.cells[j] = Cell{i, j}
			col.cells[j] = Cell{j, i}
		}
		g.regions = append(g.regions, row, col)
	}
	if tileX > 0 {
		for i := 0; i < size; i++ {
			tile := region{id: RegionID{RtypeTile, i + 1}, cells: make([]Cell, 0, size)}
			tilesAcross := size / tileX
			baseRow, baseCol := tileY*(i/tilesAcross), tileX*(i%tilesAcross)
			for tr := 0; tr < tileY; tr++ {
				for tc := 0; tc < tileX; tc++ {
					tile.cells = append(tile.cells, Cell{baseRow + tr, baseCol + tc})
				}
			}
			g.regions = append(g.regions, tile)
		}
	}
	return g
}

/*

Custom region maps

*/

// ValidateRegionMap checks a caller-supplied tiling for a board
// of the given side length: there must be exactly size regions,
// every region must have exactly size cells, and every cell of
// the board must appear in exactly one region.  Returns nil if
// the map is usable.
func ValidateRegionMap(size int, regions [][]Cell) error {
	if len(regions) != size {
		return Error{
			Scope:     GeometryScope,
			Structure: AttributeValueStructure,
			Attribute: RegionAttribute,
			Condition: RegionCellCountCondition,
			Values:    ErrorData{len(regions), size},
		}
	}
	seen := make([]bool, size*size)
	for _, r := range regions {
		if len(r) != size {
			return Error{
				Scope:     GeometryScope,
				Structure: AttributeValueStructure,
				Attribute: RegionAttribute,
				Condition: RegionCellCountCondition,
				Values:    ErrorData{len(r), size},
			}
		}
		for _, c := range r {
			if !c.in(size) || seen[c.index(size)] {
				return Error{
					Scope:     GeometryScope,
					Structure: AttributeValueStructure,
					Attribute: RegionAttribute,
					Condition: RegionCoverageCondition,
					Values:    ErrorData{fmt.Sprintf("(%d,%d)", c.Row, c.Col)},
				}
			}
			seen[c.index(size)] = true
		}
	}
	// size regions of size cells with no duplicates covers the
	// board, so there is nothing left to check
	return nil
}

/*

Conflict detection

*/

// A Conflict reports that two or more cells in one region show
// the same value.  Conflicts are advisory: the editor reports
// them but never refuses an entry because of one.
type Conflict struct {
	Region RegionID `json:"region"`
	Value  int      `json:"value"`
	Cells  []Cell   `json:"cells"`
}

// Conflicts scans every region for duplicated display values
// (preset beats user, per the display rule) and returns one
// Conflict per region/value pair, in region order.
func (e *Editor) Conflicts() []Conflict {
	var conflicts []Conflict
	for _, r := range e.geometry.regions {
		byValue := make(map[int][]Cell)
		for _, c := range r.cells {
			if v := e.Display(c); v != 0 {
				byValue[v] = append(byValue[v], c)
			}
		}
		for v := 1; v <= MaxCellValue; v++ {
			if cells := byValue[v]; len(cells) > 1 {
				conflicts = append(conflicts, Conflict{Region: r.id, Value: v, Cells: cells})
			}
		}
	}
	return conflicts
}
