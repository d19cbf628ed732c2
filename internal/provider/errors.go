package provider

import (
	"context"
	"errors"
	"fmt"

	"seam/internal/httputil"
	"seam/internal/jsontree"
)

var (
	// ErrNotLive is returned when the room exists but is not broadcasting.
	// It is an outcome, not a failure of the resolver.
	ErrNotLive = errors.New("room is not live")

	// ErrNoTiers is returned when the play-info response advertises no quality tier.
	ErrNoTiers = errors.New("no quality tiers advertised")

	// ErrUnknownPlatform is returned by the registry for an unregistered key.
	ErrUnknownPlatform = errors.New("unknown platform")

	// ErrInvalidRoom is returned before any request when the room id is unusable.
	ErrInvalidRoom = errors.New("invalid room id")
)

// APIError is a platform-level rejection carried in the JSON envelope
// (HTTP 200 with a non-zero code), e.g. a room that does not exist.
type APIError struct {
	Code    int64
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("platform error code %d", e.Code)
	}
	return fmt.Sprintf("platform error code %d: %s", e.Code, e.Message)
}

// Outcome labels used by logs, metrics and the HTTP API.
const (
	OutcomeLive            = "live"
	OutcomeNotLive         = "not_live"
	OutcomeSchema          = "schema"
	OutcomeNoTiers         = "no_tiers"
	OutcomeNetwork         = "network"
	OutcomeAPI             = "api"
	OutcomeUnknownPlatform = "unknown_platform"
	OutcomeInvalidRoom     = "invalid_room"
	OutcomeError           = "error"
)

// Classify maps a Resolve error to its outcome label.
func Classify(err error) string {
	var (
		schemaErr  *jsontree.SchemaError
		networkErr *httputil.NetworkError
		apiErr     *APIError
	)

	switch {
	case err == nil:
		return OutcomeLive
	case errors.Is(err, ErrNotLive):
		return OutcomeNotLive
	case errors.Is(err, ErrNoTiers):
		return OutcomeNoTiers
	case errors.As(err, &schemaErr):
		return OutcomeSchema
	case errors.As(err, &networkErr),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return OutcomeNetwork
	case errors.As(err, &apiErr):
		return OutcomeAPI
	case errors.Is(err, ErrUnknownPlatform):
		return OutcomeUnknownPlatform
	case errors.Is(err, ErrInvalidRoom):
		return OutcomeInvalidRoom
	default:
		return OutcomeError
	}
}

// checkEnvelope returns an APIError when the response carries a non-zero "code".
// Responses without a code field pass.
func checkEnvelope(root jsontree.Value) error {
	code := root.Get("code")
	if !code.Exists() {
		return nil
	}
	n, err := code.Int()
	if err != nil {
		return err
	}
	if n != 0 {
		msg := root.Get("message").StrOr("")
		if msg == "" {
			msg = root.Get("msg").StrOr("")
		}
		return &APIError{Code: n, Message: msg}
	}
	return nil
}
