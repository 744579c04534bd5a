package model

// BuildPlate describes the printable area of a machine.
type BuildPlate struct {
	Width    float64 `toml:"width" json:"width"`   // mm; diameter for circular plates
	Length   float64 `toml:"length" json:"length"` // mm; ignored for circular plates
	Circular bool    `toml:"is_circle" json:"is_circle"`
}

// PrinterProfile describes the target machine. Profiles are stored as
// TOML files with a single [printer] table.
type PrinterProfile struct {
	Name       string     `toml:"name" json:"name"`
	BuildPlate BuildPlate `toml:"build_plate" json:"build_plate"`
	Spacing    float64    `toml:"spacing" json:"spacing"` // Default clearance between footprints in mm
}

// DefaultProfile returns a generic 220x220 mm rectangular plate.
func DefaultProfile() PrinterProfile {
	return PrinterProfile{
		Name: "Generic",
		BuildPlate: BuildPlate{
			Width:  220.0,
			Length: 220.0,
		},
		Spacing: 5.0,
	}
}

// Settings derives arranger settings from the profile. Circular plates
// report their diameter as both plate dimensions; the arranger applies
// the stricter diagonal fit check for them.
func (p PrinterProfile) Settings() ArrangeSettings {
	s := ArrangeSettings{
		Spacing:       p.Spacing,
		PlateWidth:    p.BuildPlate.Width,
		PlateLength:   p.BuildPlate.Length,
		PlateCircular: p.BuildPlate.Circular,
	}
	if p.BuildPlate.Circular {
		s.PlateLength = p.BuildPlate.Width
	}
	return s
}
