package summarize

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseStyle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Style
		wantErr bool
	}{
		{name: "short", input: "short", want: StyleShort},
		{name: "medium", input: "medium", want: StyleMedium},
		{name: "detailed", input: "detailed", want: StyleDetailed},
		{name: "mixed case", input: "Detailed", want: StyleDetailed},
		{name: "whitespace", input: "  short ", want: StyleShort},
		{name: "empty defaults to short", input: "", want: StyleShort},
		{name: "unknown", input: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStyle(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStyle(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseStyle(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBuildPromptSelectsTemplate(t *testing.T) {
	transcript := "the same transcript text"

	short := BuildPrompt(StyleShort, transcript)
	medium := BuildPrompt(StyleMedium, transcript)
	detailed := BuildPrompt(StyleDetailed, transcript)

	if !strings.Contains(short, "3-4 sentences") {
		t.Errorf("short prompt missing sentence framing: %q", short)
	}
	if !strings.Contains(medium, "6-8 sentences") {
		t.Errorf("medium prompt missing sentence framing: %q", medium)
	}
	if !strings.Contains(detailed, "10-12 sentences") {
		t.Errorf("detailed prompt missing sentence framing: %q", detailed)
	}
	if short == detailed {
		t.Error("short and detailed prompts must differ for identical transcripts")
	}
	for _, p := range []string{short, medium, detailed} {
		if !strings.HasSuffix(p, "\n"+transcript) {
			t.Errorf("prompt must end with the transcript, got %q", p)
		}
	}
}

func TestSummarize(t *testing.T) {
	var gotReq chatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"  A tidy summary.  "}}]}`)
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	summary, err := client.Summarize(context.Background(), "some transcript", StyleDetailed)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if summary != "A tidy summary." {
		t.Errorf("Summarize() = %q, want trimmed content", summary)
	}
	if gotReq.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if gotReq.Temperature != 0.6 {
		t.Errorf("temperature = %v, want 0.6", gotReq.Temperature)
	}
	if len(gotReq.Messages) != 2 {
		t.Fatalf("expected system + user messages, got %d", len(gotReq.Messages))
	}
	if gotReq.Messages[0].Role != "system" || gotReq.Messages[0].Content != "You are a helpful summarizer." {
		t.Errorf("unexpected system message: %+v", gotReq.Messages[0])
	}
	if !strings.Contains(gotReq.Messages[1].Content, "10-12 sentences") {
		t.Errorf("user prompt should carry the detailed template: %q", gotReq.Messages[1].Content)
	}
}

func TestSummarizeQuotaError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"quota exceeded"}}`)
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	_, err := client.Summarize(context.Background(), "some transcript", StyleShort)
	if err == nil {
		t.Fatal("expected error for quota response")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("error should carry endpoint message, got %v", err)
	}
}

func TestSummarizeEmptyTranscript(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	if _, err := client.Summarize(context.Background(), "   ", StyleShort); err == nil {
		t.Fatal("expected error for empty transcript")
	}
	if requests != 0 {
		t.Errorf("no request should be made for an empty transcript, got %d", requests)
	}
}
