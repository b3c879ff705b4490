package core

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Coordinate is a map position in decimal degrees.
type Coordinate struct {
	Lat float64
	Lng float64
}

// stateCoordinates places the states served by the program, keyed by
// CanonicalKey. Read-only after init.
var stateCoordinates = map[string]Coordinate{
	"DISTRITO FEDERAL":   {Lat: -15.7998, Lng: -47.8645},
	"MARANHAO":           {Lat: -4.9609, Lng: -45.2744},
	"MATO GROSSO DO SUL": {Lat: -20.7722, Lng: -54.7852},
	"PERNAMBUCO":         {Lat: -8.8137, Lng: -36.9541},
	"RIO DE JANEIRO":     {Lat: -22.9068, Lng: -43.1729},
	"RIO GRANDE DO SUL":  {Lat: -30.0346, Lng: -51.2177},
	"SANTA CATARINA":     {Lat: -27.2423, Lng: -50.2189},
}

// accentReplacer strips the accents that occur in Brazilian state names.
// Targets never overlap sources, so replacement order is irrelevant.
var accentReplacer = strings.NewReplacer(
	"Ã", "A",
	"Õ", "O",
	"Ç", "C",
	"Á", "A",
	"É", "E",
	"Í", "I",
	"Ó", "O",
	"Ú", "U",
	"Â", "A",
	"Ê", "E",
	"Ô", "O",
)

// CanonicalKey uppercases s and strips its accents, e.g.
// "Maranhão" -> "MARANHAO".
func CanonicalKey(s string) string {
	return accentReplacer.Replace(cases.Upper(language.Und).String(s))
}

// StateCoordinate returns the map position of a state, matched by its
// canonical key.
func StateCoordinate(state string) (Coordinate, bool) {
	c, ok := stateCoordinates[CanonicalKey(state)]
	return c, ok
}

// MapPoints places every state with known coordinates on the map. States
// without coordinates are left out. Points are ordered by count, then label.
func MapPoints(stateCounts map[string]int) []MapPoint {
	points := make([]MapPoint, 0, len(stateCounts))
	for state, count := range stateCounts {
		c, ok := StateCoordinate(state)
		if !ok {
			continue
		}
		points = append(points, MapPoint{
			State: state,
			Count: count,
			Lat:   c.Lat,
			Lng:   c.Lng,
		})
	}

	sort.Slice(points, func(i, j int) bool {
		if points[i].Count != points[j].Count {
			return points[i].Count > points[j].Count
		}
		return points[i].State < points[j].State
	})

	return points
}
