package validation

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"yt-brief/errors"
)

// videoIDPattern matches the 11-character identifier after any v= marker or in
// the short/shorts/embed path forms.
var videoIDPattern = regexp.MustCompile(`(?:v=|youtu\.be/|/shorts/|/embed/)([A-Za-z0-9_-]{11})`)

// ExtractVideoID pulls the video identifier out of a raw URL string. Malformed
// input is a normal outcome: the second return value is false and no error is
// ever produced.
func ExtractVideoID(raw string) (string, bool) {
	m := videoIDPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return "", false
	}
	return m[1], true
}

type Validator struct {
	allowedHosts []string
}

func NewValidator() *Validator {
	return &Validator{
		allowedHosts: []string{"youtube.com", "www.youtube.com", "m.youtube.com", "youtu.be"},
	}
}

// ValidateURL checks scheme, host, and the presence of an extractable video ID.
func (v *Validator) ValidateURL(urlStr string) error {
	const op = "Validator.ValidateURL"

	if urlStr == "" {
		return errors.InvalidURL(op, nil, "URL is required")
	}

	parsedURL, err := url.Parse(strings.TrimSpace(urlStr))
	if err != nil {
		return errors.InvalidURL(op, err, "Invalid URL format")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errors.InvalidURL(op, nil, "URL must use HTTP or HTTPS")
	}

	if !v.isAllowedHost(parsedURL.Hostname()) {
		return errors.InvalidURL(op, nil, "Only YouTube URLs are supported")
	}

	if _, ok := ExtractVideoID(urlStr); !ok {
		return errors.InvalidURL(op, nil, "No video ID found in URL")
	}

	return nil
}

func (v *Validator) isAllowedHost(host string) bool {
	for _, h := range v.allowedHosts {
		if host == h {
			return true
		}
	}
	return false
}

// RequestValidationOpts holds options for request validation
type RequestValidationOpts struct {
	MaxContentLength int64
	AllowedMethods   []string
}

// ValidateRequest validates HTTP requests
func (v *Validator) ValidateRequest(r *http.Request, opts RequestValidationOpts) error {
	const op = "Validator.ValidateRequest"

	if len(opts.AllowedMethods) > 0 {
		methodAllowed := false
		for _, method := range opts.AllowedMethods {
			if r.Method == method {
				methodAllowed = true
				break
			}
		}
		if !methodAllowed {
			return errors.MethodNotAllowed(op, fmt.Sprintf("Method %s not allowed", r.Method))
		}
	}

	if opts.MaxContentLength > 0 && r.ContentLength > opts.MaxContentLength {
		return errors.InvalidInput(op, nil, "Request body too large")
	}

	return nil
}
