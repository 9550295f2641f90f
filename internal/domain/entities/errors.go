package entities

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

type ErrorKind string

const (
	KindMissingParameter     ErrorKind = "missing_parameter"
	KindInvalidDateFormat    ErrorKind = "invalid_date_format"
	KindInvalidStationFormat ErrorKind = "invalid_station_format"
	KindInvalidStation       ErrorKind = "invalid_station"
	KindInvalidStationCount  ErrorKind = "invalid_station_count"
	KindInvalidBody          ErrorKind = "invalid_body"
	KindNotFound             ErrorKind = "not_found"
	KindMethodNotAllowed     ErrorKind = "method_not_allowed"
	KindInternal             ErrorKind = "internal"
)

const (
	MsgInternal         = "Internal server error"
	MsgMethodNotAllowed = "Invalid request method"
)

// HTTPStatus maps the kind to the status code of the failure envelope.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindMissingParameter, KindInvalidDateFormat, KindInvalidStationFormat,
		KindInvalidStation, KindInvalidStationCount, KindInvalidBody:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// QueryError is the failure outcome of a query. Message is safe to return to clients.
type QueryError struct {
	Kind      ErrorKind
	Message   string
	Param     string
	Offending []int
	Err       error
}

func (e *QueryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

func MissingParameter(param, message string) *QueryError {
	return &QueryError{Kind: KindMissingParameter, Param: param, Message: message}
}

func InvalidDateFormat(param, message string) *QueryError {
	return &QueryError{Kind: KindInvalidDateFormat, Param: param, Message: message}
}

func InvalidStationFormat(err error) *QueryError {
	return &QueryError{Kind: KindInvalidStationFormat, Message: "Invalid station code format", Err: err}
}

// InvalidStation lists every offending code, in request order.
func InvalidStation(offending []int) *QueryError {
	codes := make([]string, len(offending))
	for i, code := range offending {
		codes[i] = strconv.Itoa(code)
	}
	return &QueryError{
		Kind:      KindInvalidStation,
		Message:   fmt.Sprintf("Invalid station codes: [%s]", strings.Join(codes, ", ")),
		Offending: offending,
	}
}

func InvalidStationCount(min, max int) *QueryError {
	return &QueryError{Kind: KindInvalidStationCount, Message: fmt.Sprintf("Please select %d-%d stations", min, max)}
}

func InvalidBody(message string, err error) *QueryError {
	return &QueryError{Kind: KindInvalidBody, Message: message, Err: err}
}

func NotFound(message string) *QueryError {
	return &QueryError{Kind: KindNotFound, Message: message}
}

func MethodNotAllowed() *QueryError {
	return &QueryError{Kind: KindMethodNotAllowed, Message: MsgMethodNotAllowed}
}

// Internal hides err from clients behind a generic message.
func Internal(err error) *QueryError {
	return &QueryError{Kind: KindInternal, Message: MsgInternal, Err: err}
}

// AsQueryError classifies any error; unknown errors become Internal.
func AsQueryError(err error) *QueryError {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe
	}
	return Internal(err)
}
