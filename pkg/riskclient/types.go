package riskclient

import (
	"riskclient/internal/async"
	"riskclient/internal/backend"
	"riskclient/internal/eventcontext"
	"riskclient/internal/platform/config"
	"riskclient/internal/verdict"
)

type (
	Config     = config.Client
	Verdict    = verdict.Verdict
	Action     = verdict.Action
	RiskPolicy = verdict.RiskPolicy
	Strategy   = verdict.Strategy
	Review     = backend.Review
	Context    = eventcontext.Context

	FatalError    = backend.FatalError
	StatusError   = backend.StatusError
	ErrorCategory = backend.ErrorCategory

	// Future is the completion handle of an asynchronous call.
	Future[T any] = async.Future[T]

	// ReviewCache can be supplied to replace the configured review cache.
	ReviewCache = backend.ReviewCache
)

const (
	ActionAllow     = verdict.ActionAllow
	ActionDeny      = verdict.ActionDeny
	ActionChallenge = verdict.ActionChallenge

	ErrorBackendUnavailable = backend.ErrorBackendUnavailable
	ErrorIllegalResponse    = backend.ErrorIllegalResponse
	ErrorClientLogic        = backend.ErrorClientLogic
	ErrorInvalidRequest     = backend.ErrorInvalidRequest
)

var (
	// ErrIllegalJSON matches undecodable response bodies.
	ErrIllegalJSON = verdict.ErrIllegalJSON

	IsFatal     = backend.IsFatal
	GetCategory = backend.GetCategory

	DefaultConfig = config.Default
	LoadConfig    = config.Load
	ConfigFromEnv = config.FromEnv
)
