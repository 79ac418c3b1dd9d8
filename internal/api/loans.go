package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"

	apierrors "github.com/svmahh/25Jun-API-medical-classwork/internal/errors"
	"github.com/svmahh/25Jun-API-medical-classwork/internal/types"
)

const (
	loansPath       = "/loans/"
	loanPath        = "/loans/{id}"
	memberLoansPath = "/loans/member/{memberId}"
)

var errNullBody = errors.New("body is null")

// ListLoans fetches every loan. An empty JSON array yields an empty, non-nil list.
func ListLoans(ctx context.Context, rc *resty.Client) (types.LoanList, error) {
	if err := ctx.Err(); err != nil {
		return nil, apierrors.NewNetworkError(OpListLoans, err)
	}
	resp, err := rc.R().SetContext(ctx).Get(loansPath)
	if err != nil {
		return nil, apierrors.NewNetworkError(OpListLoans, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, apierrors.ClassifyReadStatus(OpListLoans, "", resp.StatusCode(), resp.String())
	}
	return decodeList(OpListLoans, resp)
}

// GetLoanByID fetches one loan. A 404 is reported as not-found before the
// body is looked at.
func GetLoanByID(ctx context.Context, rc *resty.Client, id int) (*types.Loan, error) {
	if id < 0 {
		return nil, apierrors.NewInvalidInput(OpGetLoan, strconv.Itoa(id), fmt.Errorf("loan id must be non-negative"))
	}
	if err := ctx.Err(); err != nil {
		return nil, apierrors.NewNetworkError(OpGetLoan, err)
	}
	resp, err := rc.R().
		SetContext(ctx).
		SetPathParam("id", strconv.Itoa(id)).
		Get(loanPath)
	if err != nil {
		return nil, apierrors.NewNetworkError(OpGetLoan, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, apierrors.NewNotFound(OpGetLoan, id)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, apierrors.ClassifyReadStatus(OpGetLoan, strconv.Itoa(id), resp.StatusCode(), resp.String())
	}
	return decodeLoan(OpGetLoan, resp)
}

// GetLoansByMember fetches the loans of one member. Response handling mirrors
// ListLoans.
func GetLoansByMember(ctx context.Context, rc *resty.Client, memberID string) (types.LoanList, error) {
	if err := ctx.Err(); err != nil {
		return nil, apierrors.NewNetworkError(OpGetLoansByMember, err)
	}
	resp, err := rc.R().
		SetContext(ctx).
		SetPathParam("memberId", memberID).
		Get(memberLoansPath)
	if err != nil {
		return nil, apierrors.NewNetworkError(OpGetLoansByMember, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, apierrors.ClassifyReadStatus(OpGetLoansByMember, memberID, resp.StatusCode(), resp.String())
	}
	return decodeList(OpGetLoansByMember, resp)
}

// CreateLoan posts a new loan. Only 201 with a decodable loan counts as success.
func CreateLoan(ctx context.Context, rc *resty.Client, req types.LoanCreateRequest) (*types.Loan, error) {
	if err := ctx.Err(); err != nil {
		return nil, apierrors.NewNetworkError(OpCreateLoan, err)
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, apierrors.NewInvalidInput(OpCreateLoan, "", err)
	}
	resp, err := rc.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(loansPath)
	if err != nil {
		return nil, apierrors.NewNetworkError(OpCreateLoan, err)
	}
	if resp.StatusCode() != http.StatusCreated {
		return nil, apierrors.NewCreationFailed(OpCreateLoan, resp.StatusCode(), resp.String())
	}
	return decodeLoan(OpCreateLoan, resp)
}

func decodeList(op string, resp *resty.Response) (types.LoanList, error) {
	var loans types.LoanList
	if err := json.Unmarshal(resp.Body(), &loans); err != nil {
		return nil, apierrors.NewParseError(op, resp.StatusCode(), resp.String(), err)
	}
	if loans == nil {
		return nil, apierrors.NewParseError(op, resp.StatusCode(), resp.String(), errNullBody)
	}
	return loans, nil
}

func decodeLoan(op string, resp *resty.Response) (*types.Loan, error) {
	if bytes.Equal(bytes.TrimSpace(resp.Body()), []byte("null")) {
		return nil, apierrors.NewParseError(op, resp.StatusCode(), resp.String(), errNullBody)
	}
	var loan types.Loan
	if err := json.Unmarshal(resp.Body(), &loan); err != nil {
		return nil, apierrors.NewParseError(op, resp.StatusCode(), resp.String(), err)
	}
	return &loan, nil
}
