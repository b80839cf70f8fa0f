package verdict

// ReasonUnknown replaces an empty failure reason so failover verdicts always explain themselves.
const ReasonUnknown = "unknown failure"

// OnFailure builds the degraded verdict for userID. It performs no I/O.
func OnFailure(reason, userID string, s Strategy) Verdict {
	if reason == "" {
		reason = ReasonUnknown
	}
	return Verdict{
		UserID:         userID,
		Action:         s.DefaultAction,
		FailoverReason: reason,
		Failover:       true,
	}
}

// ShouldThrow reports whether failures must be escalated instead of degraded.
func ShouldThrow(s Strategy) bool {
	return s.ThrowOnFailure
}
