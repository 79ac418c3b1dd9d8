package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	client "github.com/svmahh/25Jun-API-medical-classwork"
	"github.com/svmahh/25Jun-API-medical-classwork/presenter"
)

const shellHelp = `Commands:
  list                            list all loans
  get <loanId>                    show one loan
  member <memberId>               list the loans of a member
  create [amount memberId msg...] create a loan (defaults to the demo loan)
  help                            show this help
  quit                            leave the shell`

const shellPrompt = "loans> "

func newShellCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive single-screen session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.newSession(cmd.OutOrStdout(), true)
			if err != nil {
				return err
			}
			defer s.close()
			return runShell(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), s.presenter)
		},
	}
}

// runShell is the render loop: it is the only goroutine that touches the
// view, interleaving typed commands with results coming back from the worker.
func runShell(ctx context.Context, in io.Reader, out io.Writer, p *presenter.Presenter) error {
	lines := make(chan string)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-stop:
				return
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			log.Warn().Err(err).Msg("reading input failed")
		}
	}()

	fmt.Fprintln(out, "Type 'help' for commands.")
	fmt.Fprint(out, shellPrompt)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-p.Updates():
			fn()
		case line, ok := <-lines:
			if !ok {
				// Input ended: show whatever is still in flight, then leave.
				return p.Flush(ctx)
			}
			if quit := handleLine(ctx, out, p, line); quit {
				return p.Flush(ctx)
			}
			fmt.Fprint(out, shellPrompt)
		}
	}
}

func handleLine(ctx context.Context, out io.Writer, p *presenter.Presenter, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	arg := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}

	switch strings.ToLower(fields[0]) {
	case "list", "ls":
		p.ListAll(ctx)
	case "get":
		p.GetByID(ctx, arg(1))
	case "member":
		if arg(1) == "" {
			fmt.Fprintln(out, "usage: member <memberId>")
			return false
		}
		p.GetByMember(ctx, arg(1))
	case "create":
		p.Create(ctx, parseCreate(fields[1:]))
	case "help", "?":
		fmt.Fprintln(out, shellHelp)
	case "quit", "exit":
		return true
	default:
		fmt.Fprintf(out, "unknown command %q, type 'help'\n", fields[0])
	}
	return false
}

// parseCreate fills a create request from positional words, falling back to
// the demo loan for anything left out.
func parseCreate(words []string) client.LoanCreateRequest {
	req := presenter.DemoLoanRequest()
	if len(words) > 0 {
		req.Amount = client.Amount(words[0])
	}
	if len(words) > 1 {
		req.MemberID = words[1]
	}
	if len(words) > 2 {
		req.Message = strings.Join(words[2:], " ")
	}
	return req
}
