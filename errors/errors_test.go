package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppErrorMessageAndUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := CaptionsUnavailable("test", cause, "Captions are unavailable")

	if got := err.Error(); got != "Captions are unavailable: connection refused" {
		t.Errorf("Error() = %q", got)
	}
	if !stderrors.Is(err, cause) {
		t.Error("Unwrap() must expose the cause")
	}

	bare := NotFound("test", nil, "Video not found")
	if got := bare.Error(); got != "Video not found" {
		t.Errorf("Error() = %q", got)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{InvalidURL("test", nil, "bad"), KindInvalidURL},
		{AudioDownloadFailed("test", nil, "bad"), KindAudioDownloadFailed},
		{TranscriptionFailed("test", nil, "bad"), KindTranscriptionFailed},
		{SummarizationFailed("test", nil, "bad"), KindSummarizationFailed},
		{MissingCredential("test", "no key"), KindMissingCredential},
		{InvalidInput("test", nil, "bad"), KindInvalidRequest},
		{MethodNotAllowed("test", "no"), KindInvalidRequest},
		{RateLimited("test"), KindRateLimited},
		{fmt.Errorf("wrapped: %w", NotFound("test", nil, "gone")), KindNotFound},
		{stderrors.New("plain"), KindInternal},
	}

	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{InvalidURL("test", nil, "bad"), http.StatusBadRequest},
		{NotFound("test", nil, "gone"), http.StatusNotFound},
		{RateLimited("test"), http.StatusTooManyRequests},
		{MethodNotAllowed("test", "no"), http.StatusMethodNotAllowed},
		{TranscriptionFailed("test", nil, "bad"), http.StatusBadGateway},
		{stderrors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := CodeOf(tt.err); got != tt.want {
			t.Errorf("CodeOf(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(NotFound("test", nil, "gone")) {
		t.Error("IsNotFound() = false for a not-found error")
	}
	if IsNotFound(InvalidURL("test", nil, "bad")) {
		t.Error("IsNotFound() = true for an invalid-url error")
	}
	if IsNotFound(nil) {
		t.Error("IsNotFound(nil) = true")
	}
}
