package consultation

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNotConfigured is returned when no booking endpoint is set.
	ErrNotConfigured = eris.New("consultation endpoint is not configured")
	// ErrRejected matches every *RejectionError.
	ErrRejected = eris.New("consultation request rejected")
)

const maxResponseBytes = 1 << 20

// Request is the booking payload sent to the scheduling service.
type Request struct {
	Name           string `json:"name"`
	Mobile         string `json:"mobile"`
	Email          string `json:"email"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	ProjectDetails string `json:"projectDetails"`
}

// Response is the scheduling service's answer.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RejectionError reports a non-2xx answer or success=false.
type RejectionError struct {
	StatusCode int
	Message    string
}

func (e *RejectionError) Error() string {
	if e.Message != "" {
		return "consultation rejected: " + e.Message
	}
	return "consultation rejected with status " + http.StatusText(e.StatusCode)
}

func (e *RejectionError) Is(target error) bool { return target == ErrRejected }

// UserMessage is the remote explanation, safe to show to the visitor.
func (e *RejectionError) UserMessage() string { return e.Message }

// Options configures a Client.
type Options struct {
	Endpoint   string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logrus.Logger
}

// Client books consultations with the external scheduling service.
type Client struct {
	endpoint string
	timeout  time.Duration
	http     *http.Client
	logger   *logrus.Logger
}

// New constructs a Client. An empty endpoint is allowed; Book then fails with
// ErrNotConfigured.
func New(opts Options) (*Client, error) {
	if opts.Timeout < 0 {
		return nil, eris.New("consultation timeout must not be negative")
	}

	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint != "" && !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		return nil, eris.Errorf("consultation endpoint must be an http(s) URL: %s", endpoint)
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	return &Client{endpoint: endpoint, timeout: opts.Timeout, http: client, logger: opts.Logger}, nil
}

// Configured reports whether bookings can be sent.
func (c *Client) Configured() bool {
	return c.endpoint != ""
}

// Book posts the request once. Transport failures, non-2xx answers and success=false are
// all errors; the latter two are *RejectionError.
func (c *Client) Book(ctx context.Context, req Request) (*Response, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "encoding consultation request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, eris.Wrap(err, "building consultation request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logError(logrus.Fields{"email": req.Email}, err, "sending consultation request")
		return nil, eris.Wrap(err, "sending consultation request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, eris.Wrap(err, "reading consultation response")
	}

	var decoded Response
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &decoded); err != nil && resp.StatusCode < 300 {
			return nil, eris.Wrap(err, "decoding consultation response")
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || !decoded.Success {
		rejection := &RejectionError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(decoded.Message)}
		c.logError(logrus.Fields{"email": req.Email, "status": resp.StatusCode}, rejection, "consultation request rejected")
		return nil, rejection
	}

	return &decoded, nil
}

func (c *Client) logError(fields logrus.Fields, err error, message string) {
	if c.logger == nil {
		return
	}

	entry := c.logger.WithField("error", err.Error()).WithField("component", "consultation")
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}
