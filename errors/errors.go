package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies the terminal outcome of a request.
type Kind string

const (
	KindInvalidURL          Kind = "invalid_url"
	KindInvalidRequest      Kind = "invalid_request"
	KindCaptionsUnavailable Kind = "captions_unavailable"
	KindAudioDownloadFailed Kind = "audio_download_failed"
	KindTranscriptionFailed Kind = "transcription_failed"
	KindSummarizationFailed Kind = "summarization_failed"
	KindMissingCredential   Kind = "missing_credential"
	KindNotFound            Kind = "not_found"
	KindRateLimited         Kind = "rate_limited"
	KindInternal            Kind = "internal"
)

type AppError struct {
	Kind    Kind   `json:"-"`
	Code    int    `json:"-"`
	Message string `json:"error"`
	Op      string `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newError(kind Kind, code int, op string, err error, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

func InvalidURL(op string, err error, message string) *AppError {
	return newError(KindInvalidURL, http.StatusBadRequest, op, err, message)
}

func CaptionsUnavailable(op string, err error, message string) *AppError {
	return newError(KindCaptionsUnavailable, http.StatusBadGateway, op, err, message)
}

func AudioDownloadFailed(op string, err error, message string) *AppError {
	return newError(KindAudioDownloadFailed, http.StatusBadGateway, op, err, message)
}

func TranscriptionFailed(op string, err error, message string) *AppError {
	return newError(KindTranscriptionFailed, http.StatusBadGateway, op, err, message)
}

func SummarizationFailed(op string, err error, message string) *AppError {
	return newError(KindSummarizationFailed, http.StatusBadGateway, op, err, message)
}

// MissingCredential is returned during startup only; the process must refuse
// to serve requests when it is encountered.
func MissingCredential(op string, message string) *AppError {
	return newError(KindMissingCredential, http.StatusInternalServerError, op, nil, message)
}

func NotFound(op string, err error, message string) *AppError {
	return newError(KindNotFound, http.StatusNotFound, op, err, message)
}

func RateLimited(op string) *AppError {
	return newError(KindRateLimited, http.StatusTooManyRequests, op, nil, "Rate limit exceeded")
}

func InvalidInput(op string, err error, message string) *AppError {
	return newError(KindInvalidRequest, http.StatusBadRequest, op, err, message)
}

func MethodNotAllowed(op string, message string) *AppError {
	return newError(KindInvalidRequest, http.StatusMethodNotAllowed, op, nil, message)
}

func Internal(op string, err error, message string) *AppError {
	return newError(KindInternal, http.StatusInternalServerError, op, err, message)
}

// KindOf reports the Kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

func IsNotFound(err error) bool {
	return Is(err, KindNotFound)
}

// CodeOf maps err to an HTTP status code.
func CodeOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
