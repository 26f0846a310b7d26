package consultation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestBookPostsJSON(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("expected JSON content type, got %q", got)
		}

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request failed: %v", err)
		}
		if req.Name != "Jane" || req.Time != "10:00 AM" || req.ProjectDetails != "A cabin" {
			t.Errorf("unexpected request payload: %+v", req)
		}

		_, _ = w.Write([]byte(`{"success":true,"message":"Booked"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	resp, err := client.Book(context.Background(), Request{
		Name:           "Jane",
		Mobile:         "+1 555 0100",
		Email:          "jane@example.com",
		Date:           "2025-01-10",
		Time:           "10:00 AM",
		ProjectDetails: "A cabin",
	})
	if err != nil {
		t.Fatalf("Book returned error: %v", err)
	}
	if !resp.Success || resp.Message != "Booked" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected exactly one request, got %d", calls.Load())
	}
}

func TestBookReportsRejection(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"success false", http.StatusOK, `{"success":false,"message":"Slot taken"}`, "Slot taken"},
		{"server error", http.StatusBadGateway, `upstream down`, ""},
		{"unprocessable", http.StatusUnprocessableEntity, `{"success":false,"message":"Invalid date"}`, "Invalid date"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			_, err := newTestClient(t, server.URL).Book(context.Background(), Request{Name: "Jane"})
			if !errors.Is(err, ErrRejected) {
				t.Fatalf("expected ErrRejected, got %v", err)
			}

			var rejection *RejectionError
			if !errors.As(err, &rejection) {
				t.Fatalf("expected *RejectionError, got %T", err)
			}
			if rejection.UserMessage() != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, rejection.UserMessage())
			}
		})
	}
}

func TestBookWithoutEndpoint(t *testing.T) {
	t.Parallel()

	client, err := New(Options{})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if client.Configured() {
		t.Fatalf("expected client without endpoint to be unconfigured")
	}
	if _, err := client.Book(context.Background(), Request{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestNewRejectsNonHTTPEndpoint(t *testing.T) {
	t.Parallel()

	if _, err := New(Options{Endpoint: "mailto:book@example.com"}); err == nil {
		t.Fatalf("expected error for non-http endpoint")
	}
}

func newTestClient(t *testing.T, endpoint string) *Client {
	t.Helper()

	client, err := New(Options{Endpoint: endpoint})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}
