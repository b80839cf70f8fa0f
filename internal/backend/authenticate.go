package backend

import (
	"context"
	"errors"
	"net/http"

	"riskclient/internal/async"
	"riskclient/internal/transport"
	"riskclient/internal/verdict"
)

// Outcome tags a classified authenticate result.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeFailover
	OutcomeFatal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailover:
		return "failover"
	default:
		return "fatal"
	}
}

// Result is the classified outcome of one authenticate call. Verdict is set
// for Success and Failover, Err for Fatal.
type Result struct {
	Outcome Outcome
	Verdict verdict.Verdict
	Err     error
	// Cause labels what went wrong for failover and fatal results:
	// "transport", "decode", "status" or "client".
	Cause string
}

// Unwrap returns the verdict or the fatal error.
func (r Result) Unwrap() (verdict.Verdict, error) {
	if r.Outcome == OutcomeFatal {
		return verdict.Verdict{}, r.Err
	}
	return r.Verdict, nil
}

// backendFailure reports whether the result counts against backend health.
func (r Result) backendFailure() bool {
	return r.Outcome != OutcomeSuccess && r.Cause != "client"
}

// Classify turns a transport result into exactly one of Success, Failover or Fatal.
//
//	transport error          -> Failover(err message)        | Fatal(backend_unavailable)
//	2xx, complete body       -> Success
//	2xx, bad or partial body -> Failover("illegal json format") | Fatal(illegal_response)
//	5xx                      -> Failover(status message)     | Fatal(illegal_response)
//	anything else            -> Fatal(client_logic)
//
// The right-hand column applies when the strategy throws on failure.
func Classify(resp *transport.Response, err error, userID string, s verdict.Strategy) Result {
	if err != nil {
		if verdict.ShouldThrow(s) {
			return fatal("transport", newFatal(ErrorBackendUnavailable, "backend unavailable", err))
		}
		return failover("transport", err.Error(), userID, s)
	}
	if resp == nil {
		return fatal("transport", newFatal(ErrorBackendUnavailable, "backend unavailable", errors.New("no response")))
	}

	switch {
	case resp.IsSuccess():
		v, decodeErr := verdict.Decode(resp.Body)
		if decodeErr == nil {
			return Result{Outcome: OutcomeSuccess, Verdict: v}
		}
		if verdict.ShouldThrow(s) {
			return fatal("decode", newFatal(ErrorIllegalResponse, MessageIllegalResponse, decodeErr))
		}
		return failover("decode", verdict.ReasonIllegalJSON, userID, s)

	case resp.StatusCode >= http.StatusInternalServerError:
		if verdict.ShouldThrow(s) {
			return fatal("status", newFatal(ErrorIllegalResponse, MessageIllegalResponse,
				&StatusError{Code: resp.StatusCode, Status: resp.Status}))
		}
		return failover("status", resp.Status, userID, s)

	default:
		return fatal("client", newFatal(ErrorClientLogic, "unexpected response from risk api",
			&StatusError{Code: resp.StatusCode, Status: resp.Status}))
	}
}

func failover(cause, reason, userID string, s verdict.Strategy) Result {
	return Result{
		Outcome: OutcomeFailover,
		Verdict: verdict.OnFailure(reason, userID, s),
		Cause:   cause,
	}
}

func fatal(cause string, err error) Result {
	return Result{Outcome: OutcomeFatal, Err: err, Cause: cause}
}

// Authenticate asks the risk API for a verdict and blocks until it is known.
// With a non-throwing strategy every backend failure yields a failover verdict;
// the only errors are then client-logic and invalid-request failures.
// As with AuthenticateAsync, cancelling ctx does not abort the request.
func (b *Backend) Authenticate(ctx context.Context, ev Event) (verdict.Verdict, error) {
	req, err := b.authenticateRequest(ev)
	if err != nil {
		return verdict.Verdict{}, err
	}
	ctx = context.WithoutCancel(ctx)
	resp, err := b.transport.Execute(ctx, req)
	return b.settle(ctx, ev.UserID, resp, err).Unwrap()
}

// AuthenticateAsync dispatches authenticate and returns immediately. The future
// completes exactly once, off the caller's goroutine, with the same outcome
// Authenticate would have produced.
func (b *Backend) AuthenticateAsync(ctx context.Context, ev Event) *async.Future[verdict.Verdict] {
	req, err := b.authenticateRequest(ev)
	if err != nil {
		return async.Resolved(verdict.Verdict{}, err)
	}
	ctx = context.WithoutCancel(ctx)
	return dispatch(ctx, b, req, func(resp *transport.Response, err error) (verdict.Verdict, error) {
		return b.settle(ctx, ev.UserID, resp, err).Unwrap()
	})
}

func (b *Backend) authenticateRequest(ev Event) (transport.Request, error) {
	if ev.UserID == "" {
		return transport.Request{}, newFatal(ErrorInvalidRequest, "authenticate requires a user id", nil)
	}
	if ev.Name == "" {
		return transport.Request{}, newFatal(ErrorInvalidRequest, "authenticate requires an event name", nil)
	}
	return b.postRequest(EndpointAuthenticate, authenticatePath, authenticatePayload{
		Name:       ev.Name,
		UserID:     ev.UserID,
		Context:    ev.Context,
		Properties: optional(ev.Properties),
		Traits:     optional(ev.Traits),
	})
}

// settle classifies a response and records the outcome.
func (b *Backend) settle(ctx context.Context, userID string, resp *transport.Response, err error) Result {
	res := Classify(resp, err, userID, b.strategy)

	action := ""
	if res.Outcome != OutcomeFatal {
		action = res.Verdict.Action.String()
	}
	b.metrics.IncrementOutcome(res.Outcome.String(), action)

	switch res.Outcome {
	case OutcomeFailover:
		b.metrics.IncrementFailover(res.Cause)
		b.logger.WarnContext(ctx, "authenticate failed over",
			"user_id", userID,
			"failover_reason", res.Verdict.FailoverReason,
			"action", action,
		)
	case OutcomeFatal:
		b.logger.ErrorContext(ctx, "authenticate failed",
			"user_id", userID,
			"category", string(GetCategory(res.Err)),
			"error", res.Err,
		)
	}

	b.recordHealth(ctx, res)
	return res
}

func (b *Backend) recordHealth(ctx context.Context, res Result) {
	if b.breaker == nil {
		return
	}
	if res.Outcome == OutcomeSuccess {
		if _, change := b.breaker.RecordSuccess(); change.Closed {
			b.metrics.SetBreakerOpen(false)
			b.logger.InfoContext(ctx, "risk api recovered", "breaker", b.breaker.Name())
		}
		return
	}
	if !res.backendFailure() {
		return
	}
	if _, change := b.breaker.RecordFailure(); change.Opened {
		b.metrics.SetBreakerOpen(true)
		b.logger.WarnContext(ctx, "risk api marked unhealthy", "breaker", b.breaker.Name())
	}
}
