// Package presenter turns user commands into loan API calls and their outcomes
// into status text.
//
// Commands are issued on the render goroutine. Each one updates the View
// immediately, hands the API call to a serial worker, and later receives the
// rendered outcome back on the render goroutine through the update channel.
package presenter

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	client "github.com/svmahh/25Jun-API-medical-classwork"
	"github.com/svmahh/25Jun-API-medical-classwork/internal/workqueue"
)

// LoanAPI is the subset of *client.Client the presenter calls.
type LoanAPI interface {
	ListLoans(ctx context.Context) (client.LoanList, error)
	GetLoanByID(ctx context.Context, id int) (*client.Loan, error)
	GetLoansByMember(ctx context.Context, memberID string) (client.LoanList, error)
	CreateLoan(ctx context.Context, req client.LoanCreateRequest) (*client.Loan, error)
}

// Submitter queues jobs for serial execution. *workqueue.Queue implements it.
type Submitter interface {
	Submit(ctx context.Context, job workqueue.Job) error
}

// View is the single status surface. Its methods are only called on the
// render goroutine.
type View interface {
	SetStatus(text string)
	ShowValidation(text string)
	ClearFocus()
}

// DemoLoanRequest returns the fixed payload the create command defaults to.
func DemoLoanRequest() client.LoanCreateRequest {
	return client.LoanCreateRequest{
		Amount:   "15.99",
		MemberID: "M6001",
		Message:  "Added by the android app",
	}
}

// Presenter wires a View to the loan API.
type Presenter struct {
	api     LoanAPI
	jobs    Submitter
	view    View
	updates chan func()

	pending   atomic.Int64 // dispatched commands whose update was not applied yet
	done      chan struct{}
	closeOnce sync.Once
}

// New builds a Presenter. The update channel is buffered so the worker can
// run ahead of a slow render loop.
func New(api LoanAPI, jobs Submitter, view View) *Presenter {
	return &Presenter{
		api:     api,
		jobs:    jobs,
		view:    view,
		updates: make(chan func(), 64),
		done:    make(chan struct{}),
	}
}

// Updates exposes the closures a custom render loop must call in order.
func (p *Presenter) Updates() <-chan func() { return p.updates }

// Pending reports how many dispatched commands have not been rendered yet.
func (p *Presenter) Pending() int { return int(p.pending.Load()) }

// ListAll fetches every loan.
func (p *Presenter) ListAll(ctx context.Context) {
	p.view.ClearFocus()
	p.view.SetStatus(MsgFetchingAll)
	p.dispatch(ctx, OpList, func(ctx context.Context) Result {
		loans, err := p.api.ListLoans(ctx)
		return ListResult(OpList, "", loans, err)
	})
}

// GetByID fetches the loan whose id is typed in input. Blank input is
// ignored. Anything that is not a non-negative integer shows a validation
// message and makes no call.
func (p *Presenter) GetByID(ctx context.Context, input string) {
	p.view.ClearFocus()
	input = strings.TrimSpace(input)
	if input == "" {
		return
	}
	id, err := ParseLoanID(input)
	if err != nil {
		log.Debug().Err(err).Msg("rejected loan id")
		p.view.ShowValidation(Render(Classify(OpGet, err)))
		return
	}
	p.view.SetStatus(FetchingLoan(id))
	p.dispatch(ctx, OpGet, func(ctx context.Context) Result {
		loan, err := p.api.GetLoanByID(ctx, id)
		return LoanResult(id, loan, err)
	})
}

// GetByMember fetches the loans of memberID.
func (p *Presenter) GetByMember(ctx context.Context, memberID string) {
	p.view.ClearFocus()
	memberID = strings.TrimSpace(memberID)
	p.view.SetStatus(FetchingMember(memberID))
	p.dispatch(ctx, OpMember, func(ctx context.Context) Result {
		loans, err := p.api.GetLoansByMember(ctx, memberID)
		return ListResult(OpMember, memberID, loans, err)
	})
}

// Create posts req as a new loan.
func (p *Presenter) Create(ctx context.Context, req client.LoanCreateRequest) {
	p.view.ClearFocus()
	p.view.SetStatus(MsgCreating)
	p.dispatch(ctx, OpCreate, func(ctx context.Context) Result {
		loan, err := p.api.CreateLoan(ctx, req)
		return CreateResult(loan, err)
	})
}

// dispatch runs call on the worker and posts its rendered result back.
//
// The job is queued detached from ctx's cancellation so that it always runs
// and always posts; it checks ctx itself and drops the call if ctx ended
// before the job started. A call that has started is never cancelled.
func (p *Presenter) dispatch(ctx context.Context, op Op, call func(context.Context) Result) {
	p.pending.Add(1)
	detached := context.WithoutCancel(ctx)
	job := workqueue.JobFunc(func(context.Context) error {
		if err := ctx.Err(); err != nil {
			log.Debug().Str("command", string(op)).Err(err).Msg("command dropped before start")
			p.post(nil)
			return err
		}
		res := call(detached)
		if res.Kind.Failed() {
			log.Debug().Str("command", string(op)).Str("outcome", res.Kind.String()).Err(res.Err).Msg("command failed")
		}
		text := Render(res)
		p.post(func() { p.view.SetStatus(text) })
		return nil
	})
	if err := p.jobs.Submit(detached, job); err != nil {
		p.pending.Add(-1)
		log.Warn().Str("command", string(op)).Err(err).Msg("command rejected")
		p.view.SetStatus(Render(Classify(op, err)))
	}
}

// post hands fn to the render goroutine. A nil fn only marks a command done.
func (p *Presenter) post(fn func()) {
	wrapped := func() {
		defer p.pending.Add(-1)
		if fn != nil {
			fn()
		}
	}
	select {
	case p.updates <- wrapped:
	case <-p.done:
		p.pending.Add(-1)
	}
}

// Run applies updates until ctx ends or the presenter is closed.
func (p *Presenter) Run(ctx context.Context) error {
	for {
		select {
		case fn := <-p.updates:
			fn()
		case <-p.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Flush applies updates until no dispatched command is outstanding.
func (p *Presenter) Flush(ctx context.Context) error {
	for p.pending.Load() > 0 {
		select {
		case fn := <-p.updates:
			fn()
		case <-p.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Close stops delivering updates. It does not stop the worker.
func (p *Presenter) Close() {
	p.closeOnce.Do(func() { close(p.done) })
}
