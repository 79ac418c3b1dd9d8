package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ------------------------------
// Core Domain Entities
// ------------------------------

// Amount is a monetary value carried as text. It is never parsed into a
// numeric type; the client only moves it between the wire and the screen.
type Amount string

// UnmarshalJSON accepts a JSON string or a bare JSON number. Numbers keep
// their literal digits so "15.90" stays "15.90".
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount: expected string or number, got %s", data)
	}
	*a = Amount(n.String())
	return nil
}

func (a Amount) String() string { return string(a) }

// Loan is a loan record as returned by the server. ID is server-assigned.
type Loan struct {
	ID       int    `json:"id"`
	Amount   Amount `json:"amount"`
	MemberID string `json:"memberId"`
	Message  string `json:"message"`
}

// loanWire also accepts the legacy "LoanID" key the service used to emit.
// Key matching is case-insensitive, so "memberID" lands in MemberID.
type loanWire struct {
	ID       *int   `json:"id"`
	LoanID   *int   `json:"loanId"`
	Amount   Amount `json:"amount"`
	MemberID string `json:"memberId"`
	Message  string `json:"message"`
}

// UnmarshalJSON decodes a loan, preferring "id" over the legacy "loanId".
func (l *Loan) UnmarshalJSON(data []byte) error {
	var w loanWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*l = Loan{Amount: w.Amount, MemberID: w.MemberID, Message: w.Message}
	switch {
	case w.ID != nil:
		l.ID = *w.ID
	case w.LoanID != nil:
		l.ID = *w.LoanID
	}
	return nil
}

// LoanList is an ordered list of loans in server order.
type LoanList []Loan

// Empty reports whether the server returned no loans.
func (l LoanList) Empty() bool { return len(l) == 0 }
