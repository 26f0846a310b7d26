package fetch

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/net/publicsuffix"
)

// maxBodyBytes caps collection payloads read from the content API.
const maxBodyBytes = 8 << 20

// HTTPLoaderOptions configures an HTTPLoader.
type HTTPLoaderOptions struct {
	BaseURL string
	Client  *http.Client
	Headers http.Header
}

// HTTPLoader loads resource keys as paths relative to a base URL.
type HTTPLoader struct {
	base    *url.URL
	client  *http.Client
	headers http.Header
}

// NewHTTPLoader constructs a loader. Requests are GETs that send and keep cookies and ask
// for JSON.
func NewHTTPLoader(opts HTTPLoaderOptions) (*HTTPLoader, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, eris.New("base URL is required")
	}

	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"))
	if err != nil {
		return nil, eris.Wrapf(err, "parsing base URL: %s", opts.BaseURL)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, eris.Errorf("base URL must be http or https: %s", opts.BaseURL)
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}
	if client.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, eris.Wrap(err, "creating cookie jar")
		}
		copied := *client
		copied.Jar = jar
		client = &copied
	}

	return &HTTPLoader{base: base, client: client, headers: opts.Headers.Clone()}, nil
}

// Load fetches key. Non-2xx answers become an *Error carrying the status.
func (l *HTTPLoader) Load(ctx context.Context, key string) ([]byte, error) {
	target := l.base.String() + "/" + strings.TrimLeft(key, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &Error{Key: key, Err: eris.Wrapf(err, "building request for %s", target)}
	}
	for name, values := range l.headers {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &Error{Key: key, Err: eris.Wrapf(err, "requesting %s", target)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &Error{Key: key, StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{Key: key, Err: eris.Wrapf(err, "reading %s", target)}
	}
	return body, nil
}
