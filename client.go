package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/svmahh/25Jun-API-medical-classwork/internal/api"
	apierrors "github.com/svmahh/25Jun-API-medical-classwork/internal/errors"
)

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

// Client talks to the loan API. It is safe for concurrent use; it keeps no
// state between calls and never retries.
type Client struct {
	baseURL      string
	http         *http.Client
	rest         *resty.Client
	userAgent    string
	memberLookup bool // when false GetLoansByMember is a stub
}

// New constructs a Client for baseURL (an absolute http or https URL).
// Additional options can be provided via functional arguments.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL cannot be empty")
	}
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid baseURL %q: want an absolute http(s) URL", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	c.wrapTransportWithRequestID()

	c.rest = api.NewRestClient(c.http, c.baseURL).SetLogger(restyLogger{})
	if c.userAgent != "" {
		c.rest.SetHeader("User-Agent", c.userAgent)
	}
	return c, nil
}

// BaseURL returns the API origin this client was built for.
func (c *Client) BaseURL() string { return c.baseURL }

// MemberLookupEnabled reports whether GetLoansByMember issues real requests.
func (c *Client) MemberLookupEnabled() bool { return c.memberLookup }

// wrapTransportWithRequestID installs the X-Request-ID transport on top of
// whatever the options configured.
func (c *Client) wrapTransportWithRequestID() {
	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.http.Transport = &requestIDTransport{base: base}
}

// --------------------------------------------------------------------
// Loan operations - delegated to internal/api
// --------------------------------------------------------------------

// ListLoans returns every loan in server order. An empty result is an empty
// LoanList with a nil error.
func (c *Client) ListLoans(ctx context.Context) (LoanList, error) {
	start := time.Now()
	loans, err := api.ListLoans(ctx, c.rest)
	c.observe(api.OpListLoans, start, err)
	return loans, err
}

// GetLoanByID fetches one loan. A 404 yields an error matching ErrNotFound.
func (c *Client) GetLoanByID(ctx context.Context, id int) (*Loan, error) {
	start := time.Now()
	loan, err := api.GetLoanByID(ctx, c.rest, id)
	c.observe(api.OpGetLoan, start, err)
	return loan, err
}

// GetLoansByMember fetches the loans of one member. Unless the client was
// built WithMemberLookup(true) it issues no request and returns an error
// matching ErrNotImplemented.
func (c *Client) GetLoansByMember(ctx context.Context, memberID string) (LoanList, error) {
	start := time.Now()
	if !c.memberLookup {
		err := apierrors.NewNotImplemented(api.OpGetLoansByMember, memberID)
		c.observe(api.OpGetLoansByMember, start, err)
		return nil, err
	}
	loans, err := api.GetLoansByMember(ctx, c.rest, memberID)
	c.observe(api.OpGetLoansByMember, start, err)
	return loans, err
}

// CreateLoan posts req. Only HTTP 201 with a decodable loan is a success.
func (c *Client) CreateLoan(ctx context.Context, req LoanCreateRequest) (*Loan, error) {
	start := time.Now()
	loan, err := api.CreateLoan(ctx, c.rest, req)
	c.observe(api.OpCreateLoan, start, err)
	return loan, err
}

func (c *Client) observe(op string, start time.Time, err error) {
	elapsed := time.Since(start)
	outcome := "ok"
	if err != nil {
		outcome = apierrors.KindOf(err).String()
	}
	requestsTotal.WithLabelValues(op, outcome).Inc()
	requestDuration.WithLabelValues(op).Observe(elapsed.Seconds())

	if err != nil {
		log.Warn().Err(err).Str("operation", op).Str("outcome", outcome).Dur("elapsed", elapsed).Msg("loan api call failed")
		return
	}
	log.Debug().Str("operation", op).Dur("elapsed", elapsed).Msg("loan api call completed")
}
