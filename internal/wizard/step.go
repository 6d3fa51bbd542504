package wizard

// Step is a wizard state. Steps advance one at a time; Success is terminal.
type Step int

const (
	StepPersonalData Step = iota
	StepVehicleData
	StepCoverage
	StepResume
	StepSuccess
)

func (s Step) String() string {
	switch s {
	case StepPersonalData:
		return "PERSONAL_DATA"
	case StepVehicleData:
		return "VEHICLE_DATA"
	case StepCoverage:
		return "COVERAGE"
	case StepResume:
		return "RESUME"
	case StepSuccess:
		return "SUCCESS"
	default:
		return "UNKNOWN"
	}
}
