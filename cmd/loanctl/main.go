package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	client "github.com/svmahh/25Jun-API-medical-classwork"
	"github.com/svmahh/25Jun-API-medical-classwork/internal/config"
	"github.com/svmahh/25Jun-API-medical-classwork/internal/workqueue"
	"github.com/svmahh/25Jun-API-medical-classwork/presenter"
)

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

type rootOptions struct {
	cfg          *config.Config
	baseURL      string
	timeout      time.Duration
	memberLookup bool
	debug        bool
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	cfg, err := config.Load()
	if err != nil {
		log.Warn().Err(err).Msg("ignoring invalid LOANS_* environment, using defaults")
		cfg = &config.Config{BaseURL: config.DefaultBaseURL, HTTPTimeout: 30 * time.Second, LogLevel: "info"}
	}
	opts := &rootOptions{cfg: cfg}

	rootCmd := &cobra.Command{
		Use:           "loanctl",
		Short:         "loanctl lists, looks up and creates loans on the loan API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.cfg.BaseURL = opts.baseURL
			opts.cfg.HTTPTimeout = opts.timeout
			opts.cfg.MemberLookup = opts.memberLookup
			opts.cfg.Debug = opts.debug
			opts.cfg.Init(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", cfg.BaseURL, "Base URL of the loan API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", cfg.HTTPTimeout, "Per-request HTTP timeout")
	rootCmd.PersistentFlags().BoolVar(&opts.memberLookup, "member-lookup", cfg.MemberLookup, "Call GET /loans/member/{id} instead of the stub")
	rootCmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", cfg.Debug, "Enable verbose debug output and HTTP dumps")

	rootCmd.AddCommand(newListCmd(opts))
	rootCmd.AddCommand(newGetCmd(opts))
	rootCmd.AddCommand(newMemberCmd(opts))
	rootCmd.AddCommand(newCreateCmd(opts))
	rootCmd.AddCommand(newShellCmd(opts))

	return rootCmd
}

// session is one presenter bound to its own client and worker.
type session struct {
	queue     *workqueue.Queue
	presenter *presenter.Presenter
	view      *termView
}

func (o *rootOptions) newSession(out io.Writer, echo bool) (*session, error) {
	c, err := client.New(o.baseURL,
		client.WithHTTPTimeout(o.timeout),
		client.WithMemberLookup(o.memberLookup),
		client.WithDebugLogging(o.debug),
		client.WithUserAgent("loanctl"),
	)
	if err != nil {
		return nil, err
	}

	qcfg, err := workqueue.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load queue config: %w", err)
	}
	qcfg.ErrorHandler = func(err error) {
		log.Debug().Err(err).Msg("loan job finished with error")
	}
	q := workqueue.New(qcfg)

	view := newTermView(out, echo)
	return &session{
		queue:     q,
		presenter: presenter.New(c, q, view),
		view:      view,
	}, nil
}

func (s *session) close() {
	s.presenter.Close()
	s.queue.Stop()
}

// runOnce issues a single command and prints the final status.
func (o *rootOptions) runOnce(cmd *cobra.Command, issue func(ctx context.Context, p *presenter.Presenter)) error {
	s, err := o.newSession(cmd.OutOrStdout(), false)
	if err != nil {
		return err
	}
	defer s.close()

	ctx := cmd.Context()
	start := time.Now()
	issue(ctx, s.presenter)
	if err := s.presenter.Flush(ctx); err != nil {
		return err
	}
	log.Debug().Str("command", cmd.Name()).Dur("elapsed", time.Since(start)).Msg("command completed")

	if msg := s.view.validation; msg != "" {
		return errors.New(msg)
	}
	s.view.printFinal()
	return nil
}

func newListCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all loans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runOnce(cmd, func(ctx context.Context, p *presenter.Presenter) {
				p.ListAll(ctx)
			})
		},
	}
}

func newGetCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <loanId>",
		Short: "Show one loan by its numeric ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runOnce(cmd, func(ctx context.Context, p *presenter.Presenter) {
				p.GetByID(ctx, args[0])
			})
		},
	}
}

func newMemberCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "member <memberId>",
		Short: "List the loans of one member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runOnce(cmd, func(ctx context.Context, p *presenter.Presenter) {
				p.GetByMember(ctx, args[0])
			})
		},
	}
}

func newCreateCmd(o *rootOptions) *cobra.Command {
	demo := presenter.DemoLoanRequest()
	var amount, memberID, message string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new loan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := client.LoanCreateRequest{Amount: client.Amount(amount), MemberID: memberID, Message: message}
			log.Debug().Str("amount", amount).Str("member_id", memberID).Msg("creating loan")
			return o.runOnce(cmd, func(ctx context.Context, p *presenter.Presenter) {
				p.Create(ctx, req)
			})
		},
	}
	cmd.Flags().StringVar(&amount, "amount", string(demo.Amount), "Loan amount, sent as text")
	cmd.Flags().StringVar(&memberID, "member-id", demo.MemberID, "Member ID")
	cmd.Flags().StringVar(&message, "message", demo.Message, "Free-text message")
	return cmd
}
