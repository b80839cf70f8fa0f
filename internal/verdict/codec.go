package verdict

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ReasonIllegalJSON is the failover reason used when a response body cannot be decoded.
const ReasonIllegalJSON = "illegal json format"

// ErrIllegalJSON matches every DecodeError via errors.Is.
var ErrIllegalJSON = errors.New(ReasonIllegalJSON)

// DecodeError reports a response body that does not match the expected shape.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode: %s: %v", e.Reason, e.Err)
	}
	return "decode: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrIllegalJSON }

// Decode parses an authenticate response body. Malformed JSON and incomplete
// models fail the same way.
func Decode(body []byte) (Verdict, error) {
	var m TransportModel
	if err := json.Unmarshal(body, &m); err != nil {
		return Verdict{}, &DecodeError{Reason: ReasonIllegalJSON, Err: err}
	}
	if !m.Complete() {
		return Verdict{}, &DecodeError{Reason: ReasonIllegalJSON}
	}
	return FromTransport(m), nil
}

// FromTransport maps a complete transport model into a Verdict.
func FromTransport(m TransportModel) Verdict {
	return Verdict{
		UserID:     *m.UserID,
		Action:     Action(*m.Action),
		RiskPolicy: m.RiskPolicy,
	}
}
