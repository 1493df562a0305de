package exodus

import "fmt"

// Exodus numbers the faces of the supported element differently from
// GeoFEST. Index 0 is unused so the tables read as 1-based.
var (
	exodusToGeoFEST = [5]int{0, 3, 1, 2, 4}
	geoFESTToExodus = [5]int{0, 2, 3, 1, 4}
)

// GeoFESTSide maps an Exodus local face number to the GeoFEST local face number
func GeoFESTSide(side int) (int, error) {
	if side < 1 || side > 4 {
		return 0, fmt.Errorf("%w: side %d", ErrFaceIndex, side)
	}
	return exodusToGeoFEST[side], nil
}

// ExodusSide is the inverse of GeoFESTSide
func ExodusSide(side int) (int, error) {
	if side < 1 || side > 4 {
		return 0, fmt.Errorf("%w: side %d", ErrFaceIndex, side)
	}
	return geoFESTToExodus[side], nil
}
