package handlers

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	client "github.com/svmahh/25Jun-API-medical-classwork"
	"github.com/svmahh/25Jun-API-medical-classwork/internal/workqueue"
	"github.com/svmahh/25Jun-API-medical-classwork/presenter"
)

// Runner executes a job on the shared serial worker and waits for it.
// *workqueue.Queue implements it.
type Runner interface {
	Do(ctx context.Context, job workqueue.Job) error
}

// LoanHandler exposes the loan API as MCP tools.
type LoanHandler struct {
	api    presenter.LoanAPI
	runner Runner
}

func NewLoanHandler(api presenter.LoanAPI, runner Runner) *LoanHandler {
	return &LoanHandler{api: api, runner: runner}
}

func (lh *LoanHandler) RegisterTools(s *server.MCPServer) error {
	list := mcp.NewTool("list_loans",
		mcp.WithDescription("List every loan (ID, amount, member ID, message) in server order"),
	)
	get := mcp.NewTool("get_loan",
		mcp.WithDescription("Fetch one loan by its numeric ID"),
		mcp.WithNumber("loan_id", mcp.Required(), mcp.Description("Non-negative loan ID")),
	)
	member := mcp.NewTool("get_loans_by_member",
		mcp.WithDescription("List the loans of one member; may be disabled on this server"),
		mcp.WithString("member_id", mcp.Required(), mcp.Description("Member ID, e.g. M6001")),
	)
	demo := presenter.DemoLoanRequest()
	create := mcp.NewTool("create_loan",
		mcp.WithDescription("Create a loan; returns the server-assigned ID and amount"),
		mcp.WithString("amount", mcp.Description(fmt.Sprintf("Amount as decimal text (default %s)", demo.Amount))),
		mcp.WithString("member_id", mcp.Description(fmt.Sprintf("Member ID (default %s)", demo.MemberID))),
		mcp.WithString("message", mcp.Description("Free-text message")),
	)

	s.AddTool(list, lh.handleListLoans)
	s.AddTool(get, lh.handleGetLoan)
	s.AddTool(member, lh.handleGetLoansByMember)
	s.AddTool(create, lh.handleCreateLoan)
	return nil
}

func (lh *LoanHandler) handleListLoans(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log.Debug().Msg("list_loans invoked")
	return lh.run(ctx, "list_loans", presenter.OpList, func(ctx context.Context) presenter.Result {
		loans, err := lh.api.ListLoans(ctx)
		return presenter.ListResult(presenter.OpList, "", loans, err)
	}), nil
}

func (lh *LoanHandler) handleGetLoan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := loanIDArg(req.GetArguments()["loan_id"])
	if err != nil {
		log.Debug().Err(err).Msg("get_loan rejected")
		return mcp.NewToolResultError(presenter.Render(presenter.Classify(presenter.OpGet, err))), nil
	}
	log.Debug().Int("loan_id", id).Msg("get_loan invoked")
	return lh.run(ctx, "get_loan", presenter.OpGet, func(ctx context.Context) presenter.Result {
		loan, err := lh.api.GetLoanByID(ctx, id)
		return presenter.LoanResult(id, loan, err)
	}), nil
}

func (lh *LoanHandler) handleGetLoansByMember(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	memberID, err := req.RequireString("member_id")
	if err != nil || strings.TrimSpace(memberID) == "" {
		return mcp.NewToolResultError("member_id is required"), nil
	}
	memberID = strings.TrimSpace(memberID)
	log.Debug().Str("member_id", memberID).Msg("get_loans_by_member invoked")
	return lh.run(ctx, "get_loans_by_member", presenter.OpMember, func(ctx context.Context) presenter.Result {
		loans, err := lh.api.GetLoansByMember(ctx, memberID)
		return presenter.ListResult(presenter.OpMember, memberID, loans, err)
	}), nil
}

func (lh *LoanHandler) handleCreateLoan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := presenter.DemoLoanRequest()
	args := req.GetArguments()
	if v, ok := args["amount"].(string); ok && v != "" {
		body.Amount = client.Amount(v)
	}
	if v, ok := args["member_id"].(string); ok && v != "" {
		body.MemberID = v
	}
	if v, ok := args["message"].(string); ok {
		body.Message = v
	}
	log.Debug().Str("amount", string(body.Amount)).Str("member_id", body.MemberID).Msg("create_loan invoked")
	return lh.run(ctx, "create_loan", presenter.OpCreate, func(ctx context.Context) presenter.Result {
		loan, err := lh.api.CreateLoan(ctx, body)
		return presenter.CreateResult(loan, err)
	}), nil
}

// run executes call on the worker and converts the outcome into a tool result.
func (lh *LoanHandler) run(ctx context.Context, tool string, op presenter.Op, call func(context.Context) presenter.Result) *mcp.CallToolResult {
	start := time.Now()
	out := make(chan presenter.Result, 1)
	err := lh.runner.Do(ctx, workqueue.JobFunc(func(jctx context.Context) error {
		out <- call(context.WithoutCancel(jctx))
		return nil
	}))
	var res presenter.Result
	if err != nil {
		res = presenter.Classify(op, err)
	} else {
		res = <-out
	}
	elapsed := time.Since(start)

	text := presenter.Render(res)
	if res.Kind.Failed() {
		log.Error().Err(res.Err).Str("tool", tool).Str("outcome", res.Kind.String()).Dur("elapsed", elapsed).Msg("tool call failed")
		return mcp.NewToolResultError(text)
	}
	log.Debug().Str("tool", tool).Dur("elapsed", elapsed).Msg("tool call completed")
	return mcp.NewToolResultText(text)
}

// loanIDArg accepts a JSON number or numeric string and returns a
// non-negative integer id.
func loanIDArg(v any) (int, error) {
	switch x := v.(type) {
	case float64: // JSON numbers decoded as float64
		if x < 0 || x != math.Trunc(x) || x > math.MaxInt32 {
			return 0, client.NewInvalidInput("get loan", strconv.FormatFloat(x, 'g', -1, 64), nil)
		}
		return int(x), nil
	case string:
		return presenter.ParseLoanID(x)
	}
	return 0, client.NewInvalidInput("get loan", fmt.Sprint(v), nil)
}
