// Package nycgeo maps NYC Department of Health UHF42 neighborhood codes to
// boroughs and three-digit ZIP prefixes.
package nycgeo

// Borough names as they appear in the borough boundary file.
const (
	Bronx          = "Bronx"
	Brooklyn       = "Brooklyn"
	Manhattan      = "Manhattan"
	Queens         = "Queens"
	StatenIsland   = "Staten Island"
	UnknownBorough = "Unknown"
)

// BoroughFromUHF returns the borough for a UHF42 code.
// Rules:
//   - 101-107: Bronx
//   - 201-211: Brooklyn
//   - 301-310: Manhattan
//   - 401-410: Queens
//   - 501-504: Staten Island
//
// Any other code returns UnknownBorough and is excluded from aggregation.
func BoroughFromUHF(code int) string {
	switch {
	case code >= 101 && code <= 107:
		return Bronx
	case code >= 201 && code <= 211:
		return Brooklyn
	case code >= 301 && code <= 310:
		return Manhattan
	case code >= 401 && code <= 410:
		return Queens
	case code >= 501 && code <= 504:
		return StatenIsland
	default:
		return UnknownBorough
	}
}
