package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/parth238/VibraVision/internal/modules/telemetry/types"
)

const maxBodyBytes = 1 << 20

// ErrInvalidPayload wraps every reason a telemetry body is rejected.
var ErrInvalidPayload = errors.New("invalid telemetry payload")

type telemetryInput struct {
	Frequency *float64 `json:"frequency"`
	Intensity *float64 `json:"intensity"`
}

// ParseTelemetryInput decodes and checks a sensor body. Both fields must be
// present JSON numbers; values themselves are not range checked.
func ParseTelemetryInput(w http.ResponseWriter, r *http.Request) (types.Reading, error) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return DecodeTelemetry(body)
}

// DecodeTelemetry applies the same rules as ParseTelemetryInput to any reader.
func DecodeTelemetry(body io.Reader) (types.Reading, error) {
	var in telemetryInput
	dec := json.NewDecoder(body)
	if err := dec.Decode(&in); err != nil {
		var maxErr *http.MaxBytesError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &maxErr):
			return types.Reading{}, fmt.Errorf("%w: body exceeds %d bytes", ErrInvalidPayload, maxErr.Limit)
		case errors.As(err, &typeErr) && typeErr.Field == "":
			return types.Reading{}, fmt.Errorf("%w: body must be a JSON object", ErrInvalidPayload)
		case errors.As(err, &typeErr):
			return types.Reading{}, fmt.Errorf("%w: %s must be a number", ErrInvalidPayload, typeErr.Field)
		case errors.Is(err, io.EOF):
			return types.Reading{}, fmt.Errorf("%w: empty body", ErrInvalidPayload)
		default:
			return types.Reading{}, fmt.Errorf("%w: malformed JSON", ErrInvalidPayload)
		}
	}
	if dec.More() {
		return types.Reading{}, fmt.Errorf("%w: trailing data after JSON object", ErrInvalidPayload)
	}
	if in.Frequency == nil {
		return types.Reading{}, fmt.Errorf("%w: frequency is required", ErrInvalidPayload)
	}
	if in.Intensity == nil {
		return types.Reading{}, fmt.Errorf("%w: intensity is required", ErrInvalidPayload)
	}
	return types.Reading{Frequency: *in.Frequency, Intensity: *in.Intensity}, nil
}
