package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/svmahh/25Jun-API-medical-classwork/internal/loantest"
	"github.com/svmahh/25Jun-API-medical-classwork/internal/types"
)

func TestNewValidatesBaseURL(t *testing.T) {
	bad := []string{"", "example.com", "ftp://example.com", "http://", "://nope"}
	for _, u := range bad {
		if _, err := New(u); err == nil {
			t.Errorf("New(%q): expected error", u)
		}
	}
	c, err := New("https://opsc.azurewebsites.net/")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.BaseURL() != "https://opsc.azurewebsites.net" {
		t.Fatalf("BaseURL = %q", c.BaseURL())
	}
	if c.MemberLookupEnabled() {
		t.Fatalf("member lookup should default to off")
	}
}

func TestClientOperationsAgainstFakeAPI(t *testing.T) {
	srv := loantest.New()
	defer srv.Close()
	srv.Seed(
		types.Loan{ID: 1, Amount: "100.00", MemberID: "M1", Message: "first"},
		types.Loan{ID: 2, Amount: "250.50", MemberID: "M2", Message: "second"},
	)

	c, err := New(srv.URL, WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	loans, err := c.ListLoans(ctx)
	if err != nil {
		t.Fatalf("ListLoans: %v", err)
	}
	if len(loans) != 2 || loans[0].ID != 1 || loans[1].ID != 2 {
		t.Fatalf("unexpected loans: %+v", loans)
	}

	loan, err := c.GetLoanByID(ctx, 2)
	if err != nil {
		t.Fatalf("GetLoanByID: %v", err)
	}
	if loan.Amount != "250.50" || loan.MemberID != "M2" {
		t.Fatalf("unexpected loan: %+v", loan)
	}

	if _, err := c.GetLoanByID(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetLoanByID(99) err = %v, want ErrNotFound", err)
	}

	created, err := c.CreateLoan(ctx, LoanCreateRequest{Amount: "15.99", MemberID: "M6001", Message: "Added by the android app"})
	if err != nil {
		t.Fatalf("CreateLoan: %v", err)
	}
	if created.ID != 3 || created.Amount != "15.99" || created.MemberID != "M6001" {
		t.Fatalf("unexpected created loan: %+v", created)
	}
}

func TestGetLoansByMemberStubMakesNoRequest(t *testing.T) {
	srv := loantest.New()
	defer srv.Close()

	c, err := New(srv.URL, WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	loans, err := c.GetLoansByMember(context.Background(), "M1")
	if !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("err = %v, want ErrNotImplemented", err)
	}
	if KindOf(err) != KindNotImplemented {
		t.Fatalf("kind = %v", KindOf(err))
	}
	if loans != nil {
		t.Fatalf("expected nil loans, got %+v", loans)
	}
	if srv.TotalHits() != 0 {
		t.Fatalf("stub issued %d requests", srv.TotalHits())
	}
}

func TestGetLoansByMemberWithLookup(t *testing.T) {
	srv := loantest.New()
	defer srv.Close()
	srv.Seed(
		types.Loan{ID: 1, Amount: "1", MemberID: "M1"},
		types.Loan{ID: 2, Amount: "2", MemberID: "M2"},
		types.Loan{ID: 3, Amount: "3", MemberID: "M1"},
	)

	c, err := New(srv.URL, WithHTTPClient(srv.Client()), WithMemberLookup(true))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	loans, err := c.GetLoansByMember(context.Background(), "M1")
	if err != nil {
		t.Fatalf("GetLoansByMember: %v", err)
	}
	if len(loans) != 2 || loans[0].ID != 1 || loans[1].ID != 3 {
		t.Fatalf("unexpected loans: %+v", loans)
	}
	if srv.Hits(http.MethodGet, "/loans/member/M1") != 1 {
		t.Fatalf("expected one member request")
	}
}

func TestRequestIDHeader(t *testing.T) {
	var mu sync.Mutex
	var ids []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		ids = append(ids, r.Header.Get(RequestIDHeader))
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := c.ListLoans(context.Background()); err != nil {
			t.Fatalf("ListLoans: %v", err)
		}
	}
	mu.Lock()
	defer mu.Unlock()
	if len(ids) != 2 || ids[0] == "" || ids[1] == "" {
		t.Fatalf("missing request ids: %q", ids)
	}
	if ids[0] == ids[1] {
		t.Fatalf("request ids should differ per request: %q", ids)
	}
}

func TestErrorKindsSurfaceThroughClient(t *testing.T) {
	srv := loantest.New()
	defer srv.Close()
	srv.Override(http.MethodGet, "/loans/", loantest.Response{Status: http.StatusOK, Body: "not json"})
	srv.Override(http.MethodPost, "/loans/", loantest.Response{Status: http.StatusBadRequest, Body: `{"error":"bad"}`})

	c, err := New(srv.URL, WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	if _, err := c.ListLoans(ctx); !errors.Is(err, ErrParse) {
		t.Fatalf("ListLoans err = %v, want ErrParse", err)
	}
	_, err = c.CreateLoan(ctx, LoanCreateRequest{Amount: "1", MemberID: "M1"})
	if !errors.Is(err, ErrCreationFailed) {
		t.Fatalf("CreateLoan err = %v, want ErrCreationFailed", err)
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected *Error with status 400, got %#v", err)
	}
	if _, err := c.GetLoanByID(ctx, -1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("GetLoanByID(-1) err = %v, want ErrInvalidInput", err)
	}
}

func TestNetworkFailure(t *testing.T) {
	rt := roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	c, err := New("http://loans.invalid", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.ListLoans(context.Background()); !errors.Is(err, ErrNetwork) {
		t.Fatalf("err = %v, want ErrNetwork", err)
	}
}
