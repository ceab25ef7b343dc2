package infinitecampus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"icassist/lib/htmlutil"
	"icassist/lib/restyutil"
	"icassist/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

var tracer = telemetry.Tracer("platforms/infinitecampus")

const (
	DefaultSearchURL = "https://mobile.infinitecampus.com"
	DefaultUserAgent = "Mozilla/5.0 (Linux; Android 14) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.6478.110 Mobile Safari/537.36"
)

const (
	report_client_search_district = "client.search-district"
	report_client_login           = "client.login"
	report_client_get             = "client.get"
)

type Options struct {
	// SearchURL is the host of the district search endpoint, DefaultSearchURL if empty.
	SearchURL string
	UserAgent string
	// Timeout applies to each request, a minute if zero.
	Timeout time.Duration
	// RequestsPerSecond caps the request rate, 4 if zero. The burst equals the rate.
	RequestsPerSecond float64
	CloudflareBypass  bool
	// Dump receives every request/response pair when set.
	Dump      restyutil.InstrumentOutput
	Telemetry telemetry.API
}

// Client is a single portal session. It owns its cookie jar and the district it is
// logged into, nothing about it is shared between instances.
type Client struct {
	http      *resty.Client
	jar       *sessionJar
	tel       telemetry.API
	searchURL string

	// serializes logins so two callers never re-authenticate at the same time
	loginLock sync.Mutex
	lock      sync.RWMutex
	district  *RawDistrict
}

func NewClient(opts Options) (*Client, error) {
	if opts.SearchURL == "" {
		opts.SearchURL = DefaultSearchURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Minute
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 4
	}

	client := resty.New()
	client.SetTimeout(opts.Timeout)
	jar, err := newSessionJar()
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.SetHeader("user-agent", opts.UserAgent)
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	burst := int(opts.RequestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(client, "platforms/infinitecampus/http")
	restyutil.DumpExchanges(client, opts.Dump)

	return &Client{
		http:      client,
		jar:       jar,
		tel:       telemetry.NewScopedAPI("infinitecampus", opts.Telemetry),
		searchURL: strings.TrimSuffix(opts.SearchURL, "/"),
	}, nil
}

// District returns the district the client is logged into.
func (c *Client) District() (RawDistrict, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	if c.district == nil {
		return RawDistrict{}, false
	}
	return *c.district, true
}

func (c *Client) baseURL() (string, error) {
	district, ok := c.District()
	if !ok {
		return "", ErrNotAuthenticated
	}
	return district.BaseURL, nil
}

// joinURL joins a district base url ("https://host/campus/") with a relative path.
func joinURL(base, path string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/")
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// get performs an authenticated GET relative to the district base url and returns the
// body of a 200 response.
func (c *Client) get(ctx context.Context, operation, path string, query map[string]string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, fmt.Sprintf("client:%s", operation))
	defer span.End()

	base, err := c.baseURL()
	if err != nil {
		return nil, fail(span, fmt.Errorf("%s: %w", operation, err))
	}
	span.SetAttributes(attribute.String("path", path))

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(joinURL(base, path))
	if err != nil {
		c.tel.ReportBroken(report_client_get, operation, err)
		return nil, fail(span, fmt.Errorf("%s: %w", operation, err))
	}
	if res.StatusCode() != http.StatusOK {
		c.tel.ReportWarning(report_client_get, operation, res.StatusCode())
		return nil, fail(span, &StatusError{
			Operation: operation,
			Status:    res.StatusCode(),
			Body:      res.String(),
		})
	}
	return res.Body(), nil
}

func unexpected(operation string, body []byte, err error) *UnexpectedResponseError {
	return &UnexpectedResponseError{
		Operation: operation,
		Body:      string(body),
		Summary:   htmlutil.Summarize(body),
		Err:       err,
	}
}

func getJSON[T any](ctx context.Context, c *Client, operation, path string, query map[string]string) (T, error) {
	var out T
	body, err := c.get(ctx, operation, path, query)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(body, &out)
	if err != nil {
		c.tel.ReportBroken(report_client_get, operation, fmt.Errorf("json unmarshal: %w", err))
		return out, unexpected(operation, body, err)
	}
	return out, nil
}
