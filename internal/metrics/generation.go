package metrics

import "time"

// Generation summarizes one composed melody for metric reporting
type Generation struct {
	Endpoint string
	Scale    string
	Shape    string
	Notes    int
	Refined  bool
	Duration time.Duration

	// Score axes in [0,1]
	Overall    float64
	Contour    float64
	Rhythm     float64
	Harmony    float64
	Repetition float64
	Range      float64
}

// Axes returns the score axes keyed by metric suffix
func (g Generation) Axes() map[string]float64 {
	return map[string]float64{
		"Overall":    g.Overall,
		"Contour":    g.Contour,
		"Rhythm":     g.Rhythm,
		"Harmony":    g.Harmony,
		"Repetition": g.Repetition,
		"Range":      g.Range,
	}
}
