package domain

// Model describes a generation model and the clip durations it supports.
type Model struct {
	ID        string
	Durations []int
}

// Max returns the longest supported duration.
func (m Model) Max() int {
	max := 0
	for _, d := range m.Durations {
		if d > max {
			max = d
		}
	}
	return max
}

// Supports reports whether the model accepts the given duration.
func (m Model) Supports(duration int) bool {
	for _, d := range m.Durations {
		if d == duration {
			return true
		}
	}
	return false
}

// ClampDuration coerces a requested duration into the supported set,
// defaulting to the maximum on an invalid value. Image-seeded generation
// enforces a constant duration, so callers pin to Max when a seed image is
// present.
func (m Model) ClampDuration(requested int) int {
	if m.Supports(requested) {
		return requested
	}
	return m.Max()
}

const DefaultModelID = "motion-3"

var models = map[string]Model{
	"motion-3":      {ID: "motion-3", Durations: []int{4, 6, 8}},
	"motion-3-fast": {ID: "motion-3-fast", Durations: []int{4, 6, 8}},
	"motion-2":      {ID: "motion-2", Durations: []int{5, 10}},
}

// ModelByID looks up a model by identifier.
func ModelByID(id string) (Model, bool) {
	m, ok := models[id]
	return m, ok
}

// DefaultModel returns the model used when the caller does not pick one.
func DefaultModel() Model {
	return models[DefaultModelID]
}
