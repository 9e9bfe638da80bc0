package listview

// Severity levels for derived display fields.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeveritySuccess = "success"
)

// Thresholds are strict lower bounds for each severity.
type Thresholds struct {
	Critical float64
	Warning  float64
}

// OccupancyThresholds are used for station queue occupancy rates.
var OccupancyThresholds = Thresholds{Critical: 80, Warning: 50}

// Severity classifies value: above Critical is an error, above Warning a
// warning, anything else success.
func Severity(value float64, t Thresholds) string {
	switch {
	case value > t.Critical:
		return SeverityError
	case value > t.Warning:
		return SeverityWarning
	default:
		return SeveritySuccess
	}
}

// Rate returns part/whole as a percentage, or 0 when whole is not positive.
func Rate(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}
