// Package geo holds the pure geometric interpretation of raw coordinate
// sequences: great-circle distance, loop-closure detection and WKT
// encoding. Anything heavier (length over a geography, polygon build,
// union, repair, area) is delegated to PostGIS.
package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/activoentrena/territory-service/internal/domain"
)

const (
	// EarthRadiusMeters is the spherical Earth model radius.
	EarthRadiusMeters = 6371000.0

	// ClosedLoopThresholdMeters is the maximum start/end gap for a track
	// to count as a closed loop. A policy constant, not a physical one;
	// callers must not assume sub-meter precision.
	ClosedLoopThresholdMeters = 50.0
)

// Haversine returns the great-circle distance between two points in
// meters. Pure and deterministic; NaN input propagates NaN.
func Haversine(a, b domain.Point) float64 {
	phi1 := radians(a.Lat)
	phi2 := radians(b.Lat)
	deltaPhi := radians(b.Lat - a.Lat)
	deltaLambda := radians(b.Lng - a.Lng)

	h := math.Pow(math.Sin(deltaPhi/2), 2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Pow(math.Sin(deltaLambda/2), 2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// IsClosedLoop reports whether the track's first and last points are
// strictly closer than the closure threshold. False for fewer than two
// points.
func IsClosedLoop(points []domain.Point) bool {
	if len(points) < 2 {
		return false
	}
	return Haversine(points[0], points[len(points)-1]) < ClosedLoopThresholdMeters
}

// LineStringWKT encodes an ordered coordinate sequence as a WKT
// LINESTRING in lng/lat order, the form the persistence layer consumes.
// Fewer than two points is a caller contract violation.
func LineStringWKT(points []domain.Point) (string, error) {
	if len(points) < 2 {
		return "", fmt.Errorf("linestring requires at least 2 points, got %d: %w", len(points), domain.ErrValidation)
	}

	var sb strings.Builder
	sb.WriteString("LINESTRING(")
	writeCoords(&sb, points)
	sb.WriteString(")")
	return sb.String(), nil
}

// ClosedRingWKT encodes the sequence as a LINESTRING with the first point
// appended as the last, for the geometry engine to interpret as a polygon
// boundary. Fewer than three points cannot form a non-degenerate polygon.
func ClosedRingWKT(points []domain.Point) (string, error) {
	if len(points) < 3 {
		return "", fmt.Errorf("closed ring requires at least 3 points, got %d: %w", len(points), domain.ErrValidation)
	}

	var sb strings.Builder
	sb.WriteString("LINESTRING(")
	writeCoords(&sb, points)
	sb.WriteString(", ")
	writePoint(&sb, points[0])
	sb.WriteString(")")
	return sb.String(), nil
}

func writeCoords(sb *strings.Builder, points []domain.Point) {
	for i, p := range points {
		if i > 0 {
			sb.WriteString(", ")
		}
		writePoint(sb, p)
	}
}

func writePoint(sb *strings.Builder, p domain.Point) {
	sb.WriteString(strconv.FormatFloat(p.Lng, 'f', -1, 64))
	sb.WriteString(" ")
	sb.WriteString(strconv.FormatFloat(p.Lat, 'f', -1, 64))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
