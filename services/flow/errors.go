package flow

import (
	"errors"
	"fmt"
)

// Error codes for the booking flow. Handlers map these to HTTP statuses;
// nothing downstream matches on message strings.
const (
	CodeMissingDates         = "MISSING_DATES"
	CodeInvalidDateRange     = "INVALID_DATE_RANGE"
	CodeStayTooShort         = "STAY_TOO_SHORT"
	CodeInvalidOccupancy     = "INVALID_OCCUPANCY"
	CodeOccupancyExceeded    = "OCCUPANCY_EXCEEDED"
	CodePetsNotAllowed       = "PETS_NOT_ALLOWED"
	CodeDatesUnavailable     = "DATES_UNAVAILABLE"
	CodeAvailabilityFailed   = "AVAILABILITY_CHECK_FAILED"
	CodeRemoteError          = "REMOTE_ERROR"
	CodeRequestInFlight      = "REQUEST_IN_FLIGHT"
	CodeIntentCreationFailed = "INTENT_CREATION_FAILED"
	CodeCardDeclined         = "CARD_DECLINED"
	CodeProviderUnavailable  = "PROVIDER_UNAVAILABLE"
	CodeConfirmationMismatch = "CONFIRMATION_MISMATCH"
	CodeFlowState            = "FLOW_STATE"
	CodeSessionNotFound      = "SESSION_NOT_FOUND"
)

// FlowError is the typed error for every failure the flow can surface.
type FlowError struct {
	Code    string
	Message string
	Err     error
}

func (e *FlowError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *FlowError) Unwrap() error {
	return e.Err
}

// NewFlowError builds a FlowError with an optional wrapped cause.
func NewFlowError(code, message string, cause error) *FlowError {
	return &FlowError{Code: code, Message: message, Err: cause}
}

// AsFlowError unwraps err into a FlowError if one is in the chain.
func AsFlowError(err error) (*FlowError, bool) {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// ErrCode returns the flow error code in err's chain, or empty.
func ErrCode(err error) string {
	if fe, ok := AsFlowError(err); ok {
		return fe.Code
	}
	return ""
}

// IsValidation reports whether the code is a local, synchronous validation
// failure: recovered by fixing input, no remote call was made.
func IsValidation(code string) bool {
	switch code {
	case CodeMissingDates, CodeInvalidDateRange, CodeStayTooShort,
		CodeInvalidOccupancy, CodeOccupancyExceeded, CodePetsNotAllowed:
		return true
	}
	return false
}

// IsRetryable reports whether the step may simply be re-entered with the
// same inputs. Confirmation mismatch is deliberately excluded: retrying a
// payment whose money may already have moved risks a double charge.
func IsRetryable(code string) bool {
	switch code {
	case CodeAvailabilityFailed, CodeRemoteError, CodeIntentCreationFailed,
		CodeCardDeclined, CodeProviderUnavailable:
		return true
	}
	return false
}
