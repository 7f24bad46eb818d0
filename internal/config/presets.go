package config

import "sort"

// Presets holds the built-in scenarios by name.
var Presets = map[string]*Config{
	// Inclusive contact and radius-spaced paths.
	"three": {
		Name: "three", G: 100, Dt: 0.1, Steps: 600, SampleEvery: 1,
		Collision: "inclusive", Path: "sparse",
		Bodies: []BodyConfig{
			{Name: "one", Mass: 10, Radius: 10, Color: "blue", Pos: [2]float64{350, 150}, Vel: [2]float64{20, 0}},
			{Name: "two", Mass: 12, Radius: 12, Color: "red", Pos: [2]float64{350, 550}, Vel: [2]float64{-20, 0}},
			{Name: "three", Mass: 0.05, Radius: 3, Color: "green", Pos: [2]float64{150, 350}, Vel: [2]float64{-12, 10}},
		},
	},
	// Strict contact, a point recorded every step.
	"still": {
		Name: "still", G: 100, Dt: 0.1, Steps: 600, SampleEvery: 1,
		Collision: "strict", Path: "every",
		Bodies: []BodyConfig{
			{Name: "one", Mass: 10, Radius: 10, Color: "blue", Pos: [2]float64{350, 150}, Vel: [2]float64{20, 0}},
			{Name: "two", Mass: 12, Radius: 12, Color: "red", Pos: [2]float64{350, 550}, Vel: [2]float64{-20, 0}},
			{Name: "three", Mass: 0.1, Radius: 3, Color: "green", Pos: [2]float64{350, 350}, Vel: [2]float64{0, 0}},
		},
	},
	// The same two bodies without a distance clamp, so close passes
	// collide instead of being held apart.
	"planets": {
		Name: "planets", G: 100, Dt: 0.1, Steps: 200, SampleEvery: 1,
		Collision: "strict", Path: "every",
		Bodies: []BodyConfig{
			{Name: "one", Mass: 20, Radius: 10, Color: "blue", Pos: [2]float64{100, 100}, Vel: [2]float64{20, 0}},
			{Name: "two", Mass: 5, Radius: 10, Color: "red", Pos: [2]float64{400, 400}, Vel: [2]float64{-20, 0}},
		},
	},
	"binary": {
		Name: "binary", G: 100, Dt: 0.05, Steps: 2000, SampleEvery: 2,
		Collision: "strict", Path: "sparse",
		Bodies: []BodyConfig{
			// v = sqrt(G·m/2) keeps equal masses on a circle under 1/r.
			{Name: "east", Mass: 10, Radius: 6, Color: "orange", Pos: [2]float64{400, 300}, Vel: [2]float64{0, 22.360679774997898}},
			{Name: "west", Mass: 10, Radius: 6, Color: "purple", Pos: [2]float64{200, 300}, Vel: [2]float64{0, -22.360679774997898}},
		},
	},
	"headon": {
		Name: "headon", G: 0, Dt: 0.1, Steps: 150, SampleEvery: 1,
		Collision: "strict", Path: "sparse",
		Bodies: []BodyConfig{
			{Name: "left", Mass: 10, Radius: 10, Color: "teal", Pos: [2]float64{100, 300}, Vel: [2]float64{30, 0}},
			{Name: "right", Mass: 10, Radius: 10, Color: "crimson", Pos: [2]float64{500, 300}, Vel: [2]float64{-30, 0}},
		},
	},
}

// DefaultPreset is used when a command is given no scenario.
const DefaultPreset = "three"

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
