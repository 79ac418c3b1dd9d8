package client

import "github.com/svmahh/25Jun-API-medical-classwork/internal/types"

// Public type aliases so SDK consumers can import only the client package.
type (
	// Requests
	LoanCreateRequest = types.LoanCreateRequest

	// Domain entities
	Loan     = types.Loan
	LoanList = types.LoanList
	Amount   = types.Amount
)
