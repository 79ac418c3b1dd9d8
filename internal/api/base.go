package api

import (
	"net/http"

	"github.com/go-resty/resty/v2"
)

// Operation names used in errors, logs and metric labels.
const (
	OpListLoans        = "list loans"
	OpGetLoan          = "get loan"
	OpGetLoansByMember = "get loans by member"
	OpCreateLoan       = "create loan"
)

// NewRestClient wraps hc in a resty client rooted at baseURL.
// Retries stay at resty's default of zero: every operation issues exactly one
// request.
func NewRestClient(hc *http.Client, baseURL string) *resty.Client {
	return resty.NewWithClient(hc).
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")
}
