package domain

// Metric selects which run column a ranking aggregates. It is a closed
// enumeration mapped through a fixed table; request input is parsed into
// it and never reaches a query string directly.
type Metric string

const (
	MetricDistance  Metric = "distance"
	MetricElevation Metric = "elevation"
)

// metricSpec pairs a metric with its display unit divisor.
type metricSpec struct {
	divisor float64
}

var metricSpecs = map[Metric]metricSpec{
	MetricDistance:  {divisor: 1000.0}, // meters -> kilometers
	MetricElevation: {divisor: 1.0},    // meters
}

// ParseMetric maps request input onto a known metric. "hight" is the
// historical client spelling for the elevation metric and is kept as an
// accepted alias. ok is false for anything else; callers treat that as an
// empty result, not an error.
func ParseMetric(s string) (Metric, bool) {
	switch s {
	case "distance":
		return MetricDistance, true
	case "elevation", "hight":
		return MetricElevation, true
	default:
		return "", false
	}
}

// Divisor returns the unit conversion divisor for display values.
func (m Metric) Divisor() float64 {
	spec, ok := metricSpecs[m]
	if !ok {
		return 1.0
	}
	return spec.divisor
}

// Valid reports whether m is a known metric.
func (m Metric) Valid() bool {
	_, ok := metricSpecs[m]
	return ok
}
