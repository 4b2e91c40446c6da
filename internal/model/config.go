package model

// Behavior names understood by the strategy controller.
const (
	BehaviorSneak      = "sneak"
	BehaviorClimbHills = "climb_hills"
	BehaviorSawtooth   = "sawtooth"
)

// DefaultPlateRadius is the radius of the serving plate in cm.
const DefaultPlateRadius = 12.5

// PlayerConfig holds the per-game player configuration handed over by the host
// plus the tooling preferences persisted between runs.
type PlayerConfig struct {
	// Host-provided settings
	Tolerance     float64 `json:"tolerance"`      // Acceptable area deviation in percent
	Seed          int64   `json:"seed"`           // Random source for non-deterministic strategies
	PrecomputeDir string  `json:"precompute_dir"` // Not used by the planner or engine

	// Player behavior
	Behavior            string  `json:"behavior"`              // "sneak", "climb_hills" or "sawtooth"
	PlateRadius         float64 `json:"plate_radius"`          // Feasibility bound in cm
	ExactMatchLimit     int     `json:"exact_match_limit"`     // Max pieces for the Hungarian solver
	SawtoothSliceHeight float64 `json:"sawtooth_slice_height"` // Slice height for small cakes
	BigCakeStep         float64 `json:"big_cake_step"`         // Slice step for large cakes
	BigCakeArea         float64 `json:"big_cake_area"`         // Area at which a cake counts as large

	// Knife toolpath export
	Knife KnifeSettings `json:"knife"`
}

// KnifeSettings configures the G-code toolpath export of a cut path.
type KnifeSettings struct {
	FeedRate     float64 `json:"feed_rate"`     // Cutting feed rate mm/min
	TravelRate   float64 `json:"travel_rate"`   // Feed rate for boundary sneak moves
	PlungeRate   float64 `json:"plunge_rate"`   // Plunge feed rate mm/min
	SafeZ        float64 `json:"safe_z"`        // Retract height mm
	CutDepth     float64 `json:"cut_depth"`     // Cake height mm
	Scale        float64 `json:"scale"`         // Machine units per cake cm
	LiftOnSneak  bool    `json:"lift_on_sneak"` // Rapid above the cake instead of dragging along the edge
	GCodeProfile string  `json:"gcode_profile"` // Name of the GCode profile to use
}

// DefaultPlayerConfig returns a PlayerConfig populated with the defaults used
// when the host does not override them.
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		Tolerance:           5,
		Seed:                0,
		PrecomputeDir:       "",
		Behavior:            BehaviorSneak,
		PlateRadius:         DefaultPlateRadius,
		ExactMatchLimit:     200,
		SawtoothSliceHeight: 1.6,
		BigCakeStep:         5,
		BigCakeArea:         860,
		Knife: KnifeSettings{
			FeedRate:     1200,
			TravelRate:   3000,
			PlungeRate:   400,
			SafeZ:        10,
			CutDepth:     60,
			Scale:        10,
			LiftOnSneak:  true,
			GCodeProfile: "Generic",
		},
	}
}

// Normalize replaces zero or invalid fields with their defaults.
func (c *PlayerConfig) Normalize() {
	d := DefaultPlayerConfig()
	if c.Tolerance < 0 {
		c.Tolerance = d.Tolerance
	}
	if c.Behavior == "" {
		c.Behavior = d.Behavior
	}
	if c.PlateRadius <= 0 {
		c.PlateRadius = d.PlateRadius
	}
	if c.ExactMatchLimit <= 0 {
		c.ExactMatchLimit = d.ExactMatchLimit
	}
	if c.SawtoothSliceHeight <= 0 {
		c.SawtoothSliceHeight = d.SawtoothSliceHeight
	}
	if c.BigCakeStep <= 0 {
		c.BigCakeStep = d.BigCakeStep
	}
	if c.BigCakeArea <= 0 {
		c.BigCakeArea = d.BigCakeArea
	}
	if c.Knife.Scale <= 0 {
		c.Knife.Scale = d.Knife.Scale
	}
	if c.Knife.GCodeProfile == "" {
		c.Knife.GCodeProfile = d.Knife.GCodeProfile
	}
}
