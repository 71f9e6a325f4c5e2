package types

import "time"

// VibrationTelemetry is the message an edge sensor publishes for one sample.
// Frequency and Intensity are pointers so a missing field can be told apart
// from a zero reading.
type VibrationTelemetry struct {
	Frequency *float64  `json:"frequency"`
	Intensity *float64  `json:"intensity"`
	SensorID  string    `json:"sensor_id,omitempty"`
	Timestamp time.Time `json:"timestamp,omitzero"`
}

func NewVibrationTelemetry(sensorID string, frequency, intensity float64) VibrationTelemetry {
	return VibrationTelemetry{
		Frequency: &frequency,
		Intensity: &intensity,
		SensorID:  sensorID,
		Timestamp: time.Now().UTC(),
	}
}
