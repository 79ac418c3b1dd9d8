package presenter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	client "github.com/svmahh/25Jun-API-medical-classwork"
	"github.com/svmahh/25Jun-API-medical-classwork/internal/workqueue"
)

// Op names the command a Result belongs to.
type Op string

const (
	OpList   Op = "list"
	OpGet    Op = "get"
	OpMember Op = "member"
	OpCreate Op = "create"
)

// Kind tags the outcome of one command.
type Kind int

const (
	KindLoans Kind = iota
	KindEmpty
	KindLoan
	KindCreated
	KindNotFound
	KindInvalidInput
	KindParseFailure
	KindNetworkFailure
	KindCreationFailed
	KindUnexpectedStatus
	KindNotImplemented
	// KindRejected: the command never reached the worker.
	KindRejected
)

var kindNames = map[Kind]string{
	KindLoans:            "loans",
	KindEmpty:            "empty",
	KindLoan:             "loan",
	KindCreated:          "created",
	KindNotFound:         "not_found",
	KindInvalidInput:     "invalid_input",
	KindParseFailure:     "parse_failure",
	KindNetworkFailure:   "network_failure",
	KindCreationFailed:   "creation_failed",
	KindUnexpectedStatus: "unexpected_status",
	KindNotImplemented:   "not_implemented",
	KindRejected:         "rejected",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Failed reports whether k is an error outcome.
func (k Kind) Failed() bool {
	switch k {
	case KindLoans, KindEmpty, KindLoan, KindCreated:
		return false
	}
	return true
}

// Result is the outcome of one command, ready to be rendered.
type Result struct {
	Kind       Kind
	Op         Op
	Loans      client.LoanList
	Loan       *client.Loan
	ID         int    // requested loan id (OpGet)
	MemberID   string // requested member id (OpMember)
	StatusCode int
	Err        error
}

// ListResult classifies the return of ListLoans or GetLoansByMember.
func ListResult(op Op, memberID string, loans client.LoanList, err error) Result {
	if err != nil {
		r := Classify(op, err)
		r.MemberID = memberID
		return r
	}
	if loans.Empty() {
		return Result{Kind: KindEmpty, Op: op, MemberID: memberID}
	}
	return Result{Kind: KindLoans, Op: op, MemberID: memberID, Loans: loans}
}

// LoanResult classifies the return of GetLoanByID.
func LoanResult(id int, loan *client.Loan, err error) Result {
	if err != nil {
		r := Classify(OpGet, err)
		r.ID = id
		return r
	}
	return Result{Kind: KindLoan, Op: OpGet, ID: id, Loan: loan}
}

// CreateResult classifies the return of CreateLoan.
func CreateResult(loan *client.Loan, err error) Result {
	if err != nil {
		return Classify(OpCreate, err)
	}
	return Result{Kind: KindCreated, Op: OpCreate, Loan: loan}
}

// Classify maps an error from the API client or the worker onto a failure Result.
func Classify(op Op, err error) Result {
	r := Result{Op: op, Err: err}
	var apiErr *client.Error
	if errors.As(err, &apiErr) {
		r.StatusCode = apiErr.StatusCode
	}
	switch {
	case errors.Is(err, workqueue.ErrQueueFull), errors.Is(err, workqueue.ErrClosed):
		r.Kind = KindRejected
	case apiErr == nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
		r.Kind = KindRejected
	case errors.Is(err, client.ErrInvalidInput):
		r.Kind = KindInvalidInput
	case errors.Is(err, client.ErrNotFound):
		r.Kind = KindNotFound
	case errors.Is(err, client.ErrParse):
		r.Kind = KindParseFailure
	case errors.Is(err, client.ErrCreationFailed):
		r.Kind = KindCreationFailed
	case errors.Is(err, client.ErrUnexpectedStatus):
		r.Kind = KindUnexpectedStatus
	case errors.Is(err, client.ErrNotImplemented):
		r.Kind = KindNotImplemented
	default:
		// Transport failures and anything unrecognised end up here.
		r.Kind = KindNetworkFailure
	}
	return r
}

var errNegativeID = errors.New("loan id must not be negative")

// ParseLoanID reads a loan id typed by a user. Rejected input comes back as an
// invalid-input *client.Error so front ends can pass it to Classify.
func ParseLoanID(input string) (int, error) {
	input = strings.TrimSpace(input)
	id, err := strconv.Atoi(input)
	if err == nil && id < 0 {
		err = errNegativeID
	}
	if err != nil {
		return 0, client.NewInvalidInput("get loan", input, err)
	}
	return id, nil
}

// Status messages shared by the front ends.
const (
	MsgFetchingAll    = "Fetching all loans..."
	MsgNoLoans        = "No loans found"
	MsgInvalidID      = "Invalid input. Please enter a valid number."
	MsgCreating       = "Creating a new loan..."
	MsgCreated        = "Successfully created loan:"
	MsgParseFailure   = "Could not parse server response."
	MsgFetchFailed    = "Error: Could not fetch loans from the server"
	MsgCreateNetwork  = "Error: Could not reach the server to create the loan"
	MsgWorkerStopped  = "Error: the request worker has stopped"
	MsgWorkerBusy     = "Busy: the request could not be queued, try again"
	MsgCancelled      = "Cancelled before the request was sent"
	msgNotImplemented = "Fetching loans by member ID is not implemented yet (member %s)"
)

// FetchingLoan is the status shown while a single loan is requested.
func FetchingLoan(id int) string { return fmt.Sprintf("Fetching loan with ID %d...", id) }

// FetchingMember is the status shown while a member's loans are requested.
func FetchingMember(memberID string) string {
	return fmt.Sprintf("Fetching loans for member with ID %s...", memberID)
}

// FormatLoan renders one loan as a four-line block.
func FormatLoan(l client.Loan) string {
	return fmt.Sprintf("Loan ID: %d\nAmount: %s\nMember ID: %s\nMessage: %s", l.ID, l.Amount, l.MemberID, l.Message)
}

// Render turns r into the status text. It has no side effects.
func Render(r Result) string {
	switch r.Kind {
	case KindLoans:
		blocks := make([]string, 0, len(r.Loans))
		for _, l := range r.Loans {
			blocks = append(blocks, FormatLoan(l))
		}
		return strings.Join(blocks, "\n\n")
	case KindEmpty:
		return MsgNoLoans
	case KindLoan:
		if r.Loan == nil {
			return MsgParseFailure
		}
		return FormatLoan(*r.Loan)
	case KindCreated:
		if r.Loan == nil {
			return MsgParseFailure
		}
		return fmt.Sprintf("%s\n\nLoan ID: %d\nAmount: %s", MsgCreated, r.Loan.ID, r.Loan.Amount)
	case KindNotFound:
		switch r.Op {
		case OpGet:
			return fmt.Sprintf("Loan with ID %d not found", r.ID)
		case OpMember:
			return fmt.Sprintf("Member %s not found", r.MemberID)
		}
		return fmt.Sprintf("%s. status: %d", MsgFetchFailed, http.StatusNotFound)
	case KindInvalidInput:
		return MsgInvalidID
	case KindParseFailure:
		return MsgParseFailure
	case KindNetworkFailure:
		if r.Op == OpCreate {
			return MsgCreateNetwork
		}
		return MsgFetchFailed
	case KindCreationFailed:
		return fmt.Sprintf("Error: Could not create loan. status: %d", r.StatusCode)
	case KindUnexpectedStatus:
		return fmt.Sprintf("Error: Server answered with status %d", r.StatusCode)
	case KindNotImplemented:
		return fmt.Sprintf(msgNotImplemented, r.MemberID)
	case KindRejected:
		switch {
		case errors.Is(r.Err, workqueue.ErrClosed):
			return MsgWorkerStopped
		case errors.Is(r.Err, workqueue.ErrQueueFull):
			return MsgWorkerBusy
		}
		return MsgCancelled
	}
	return fmt.Sprintf("Error: %v", r.Err)
}
