package types

// CriticalIntensity is the displacement intensity (AU) above which a reading
// is treated as mounting-bolt looseness. A reading exactly at the threshold is healthy.
const CriticalIntensity = 0.150

type Status string

const (
	StatusWaiting  Status = "WAITING FOR SENSOR"
	StatusHealthy  Status = "HEALTHY"
	StatusCritical Status = "CRITICAL"
)

const IdleReport = "System idle. Awaiting baseline telemetry from edge device."

// Reading is one validated sensor sample.
type Reading struct {
	Frequency float64 `json:"frequency"`
	Intensity float64 `json:"intensity"`
}

// Record is the cached state served to the dashboard.
type Record struct {
	Frequency float64 `json:"frequency"`
	Intensity float64 `json:"intensity"`
	Status    Status  `json:"status"`
	AIReport  string  `json:"aiReport"`
}

// InitialRecord is the placeholder held until the first successful ingest.
func InitialRecord() Record {
	return Record{
		Frequency: 0,
		Intensity: 0,
		Status:    StatusWaiting,
		AIReport:  IdleReport,
	}
}

func Classify(intensity float64) Status {
	if intensity > CriticalIntensity {
		return StatusCritical
	}
	return StatusHealthy
}
