package service

// Generation parameter bounds and defaults. These are fixed product
// constants, mirrored in the browser settings panel.
const (
	DefaultTemperature = 0.7
	MinTemperature     = 0.1
	MaxTemperature     = 2.0

	DefaultMaxLength = 200
	MinMaxLength     = 50
	MaxMaxLength     = 500
)

// GenParams holds the user-adjustable generation parameters sent with each
// chat request.
type GenParams struct {
	// Temperature controls the randomness of the model output.
	Temperature float64
	// MaxLength caps the number of tokens the model may generate.
	MaxLength int
}

// Normalize returns a copy of p with each out-of-range value reset to its
// default. Values are reset, not clamped to the nearest bound, so an absent
// (zero-valued) parameter also resolves to the default.
func (p GenParams) Normalize() GenParams {
	if p.Temperature < MinTemperature || p.Temperature > MaxTemperature {
		p.Temperature = DefaultTemperature
	}
	if p.MaxLength < MinMaxLength || p.MaxLength > MaxMaxLength {
		p.MaxLength = DefaultMaxLength
	}
	return p
}
