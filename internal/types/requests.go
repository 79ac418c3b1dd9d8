package types

// ------------------------------
// Request Types
// ------------------------------

// LoanCreateRequest holds parameters for a new loan. The server assigns the ID.
type LoanCreateRequest struct {
	Amount   Amount `json:"amount"`
	MemberID string `json:"memberId"`
	Message  string `json:"message"`
}
