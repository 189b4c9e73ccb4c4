package fire

// PreIgnitionKind says which heat source a PreIgnitionData record describes.
type PreIgnitionKind int

const (
	PreHeating PreIgnitionKind = iota
	Incident
)

func (k PreIgnitionKind) String() string {
	if k == PreHeating {
		return "pre-heating"
	}
	return "incident"
}

// PreIgnitionData records the conditions a crown sees before it ignites,
// either from one pre-heating flame or from the incident flame.
type PreIgnitionData struct {
	kind            PreIgnitionKind
	flameLength     float64
	depthIgnited    float64
	distanceToFlame float64
	dryingFactor    float64
	temperature     float64
	duration        float64
	idt             float64
}

// PreHeatingData records drying by a pre-heating flame over duration seconds.
func PreHeatingData(flameLength, depthIgnited, distance, dryingFactor, temperature, duration float64) PreIgnitionData {
	return PreIgnitionData{
		kind:            PreHeating,
		flameLength:     flameLength,
		depthIgnited:    depthIgnited,
		distanceToFlame: distance,
		dryingFactor:    dryingFactor,
		temperature:     temperature,
		duration:        duration,
	}
}

// IncidentData records heating by the incident flame and the resulting
// ignition delay time.
func IncidentData(flameLength, depthIgnited, distance, dryingFactor, temperature, idt float64) PreIgnitionData {
	return PreIgnitionData{
		kind:            Incident,
		flameLength:     flameLength,
		depthIgnited:    depthIgnited,
		distanceToFlame: distance,
		dryingFactor:    dryingFactor,
		temperature:     temperature,
		idt:             idt,
	}
}

func (d PreIgnitionData) Kind() PreIgnitionKind { return d.kind }
func (d PreIgnitionData) FlameLength() float64 { return d.flameLength }
func (d PreIgnitionData) DepthIgnited() float64 { return d.depthIgnited }
func (d PreIgnitionData) DistanceToFlame() float64 { return d.distanceToFlame }
func (d PreIgnitionData) DryingFactor() float64 { return d.dryingFactor }
func (d PreIgnitionData) Temperature() float64 { return d.temperature }

// Duration is only defined for pre-heating records.
func (d PreIgnitionData) Duration() float64 {
	if d.kind != PreHeating {
		panic("fire: duration requested from an incident pre-ignition record")
	}
	return d.duration
}

// IgnitionDelayTime is only defined for incident records.
func (d PreIgnitionData) IgnitionDelayTime() float64 {
	if d.kind == PreHeating {
		panic("fire: ignition delay time requested from a pre-heating record")
	}
	return d.idt
}
