package main

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/svmahh/25Jun-API-medical-classwork/internal/loantest"
	"github.com/svmahh/25Jun-API-medical-classwork/internal/types"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCLI_ListGetCreate(t *testing.T) {
	srv := loantest.New()
	defer srv.Close()
	srv.Seed(
		types.Loan{ID: 1, Amount: "100.00", MemberID: "M1", Message: "first"},
		types.Loan{ID: 2, Amount: "7.5", MemberID: "M2", Message: "second"},
	)

	out, err := runCLI(t, "", "--base-url", srv.URL, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	want := "Loan ID: 1\nAmount: 100.00\nMember ID: M1\nMessage: first\n\nLoan ID: 2\nAmount: 7.5\nMember ID: M2\nMessage: second\n"
	if out != want {
		t.Fatalf("list output:\n%s\nwant:\n%s", out, want)
	}

	out, err = runCLI(t, "", "--base-url", srv.URL, "get", "99")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if strings.TrimSpace(out) != "Loan with ID 99 not found" {
		t.Fatalf("unexpected get output: %q", out)
	}

	out, err = runCLI(t, "", "--base-url", srv.URL, "create", "--amount", "20.00", "--member-id", "M7", "--message", "from cli")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !strings.Contains(out, "Successfully created loan:") || !strings.Contains(out, "Loan ID: 3") || !strings.Contains(out, "Amount: 20.00") {
		t.Fatalf("unexpected create output: %q", out)
	}
	loans := srv.Loans()
	if got := loans[len(loans)-1]; got.MemberID != "M7" || got.Message != "from cli" {
		t.Fatalf("stored loan = %+v", got)
	}
}

func TestCLI_GetRejectsNonNumericID(t *testing.T) {
	srv := loantest.New()
	defer srv.Close()

	_, err := runCLI(t, "", "--base-url", srv.URL, "get", "abc")
	if err == nil || !strings.Contains(err.Error(), "Invalid input") {
		t.Fatalf("expected validation error, got %v", err)
	}
	if srv.TotalHits() != 0 {
		t.Fatalf("validation failure still called the API")
	}
}

func TestCLI_MemberStubAndLookup(t *testing.T) {
	srv := loantest.New()
	defer srv.Close()
	srv.Seed(types.Loan{ID: 1, Amount: "1", MemberID: "M1", Message: "m"})

	out, err := runCLI(t, "", "--base-url", srv.URL, "member", "M1")
	if err != nil {
		t.Fatalf("member failed: %v", err)
	}
	if !strings.Contains(out, "not implemented") {
		t.Fatalf("expected stub message, got %q", out)
	}
	if srv.TotalHits() != 0 {
		t.Fatalf("stub called the API")
	}

	out, err = runCLI(t, "", "--base-url", srv.URL, "--member-lookup", "member", "M1")
	if err != nil {
		t.Fatalf("member lookup failed: %v", err)
	}
	if !strings.Contains(out, "Member ID: M1") {
		t.Fatalf("unexpected member output: %q", out)
	}
	if srv.Hits(http.MethodGet, "/loans/member/M1") != 1 {
		t.Fatalf("expected one member request")
	}
}

func TestCLI_InvalidBaseURL(t *testing.T) {
	if _, err := runCLI(t, "", "--base-url", "not-a-url", "list"); err == nil {
		t.Fatalf("expected error for invalid base url")
	}
}

func TestCLI_Shell(t *testing.T) {
	srv := loantest.New()
	defer srv.Close()
	srv.Seed(types.Loan{ID: 5, Amount: "12.00", MemberID: "M5", Message: "seed"})

	script := strings.Join([]string{
		"help",
		"list",
		"get x",
		"get 5",
		"create 3.25 M8 paid in full",
		"bogus",
		"quit",
		"list",
	}, "\n") + "\n"

	out, err := runCLI(t, script, "--base-url", srv.URL, "shell")
	if err != nil {
		t.Fatalf("shell failed: %v", err)
	}
	for _, want := range []string{
		"Commands:",
		"Fetching all loans...",
		"Invalid input. Please enter a valid number.",
		"Fetching loan with ID 5...",
		"Loan ID: 5\nAmount: 12.00\nMember ID: M5\nMessage: seed",
		"Creating a new loan...",
		"Successfully created loan:\n\nLoan ID: 6\nAmount: 3.25",
		`unknown command "bogus"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("shell output missing %q\n---\n%s", want, out)
		}
	}
	// "list" after quit must not run.
	if got := srv.Hits(http.MethodGet, "/loans/"); got != 1 {
		t.Fatalf("list hits = %d, want 1", got)
	}
	if got := srv.Loans()[1]; got.Message != "paid in full" || got.MemberID != "M8" {
		t.Fatalf("stored loan = %+v", got)
	}
}

func TestParseCreateDefaults(t *testing.T) {
	req := parseCreate(nil)
	if req.Amount != "15.99" || req.MemberID != "M6001" || req.Message != "Added by the android app" {
		t.Fatalf("unexpected defaults: %+v", req)
	}
	req = parseCreate([]string{"1.00"})
	if req.Amount != "1.00" || req.MemberID != "M6001" {
		t.Fatalf("unexpected partial parse: %+v", req)
	}
}

func TestCLI_DebugFlagLogsConfigurationToStderr(t *testing.T) {
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	srv := loantest.New()
	defer srv.Close()

	root := NewRootCmd()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetArgs([]string{"--base-url", srv.URL, "--debug", "list"})
	if err := root.Execute(); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Fatalf("global level = %s, want debug", zerolog.GlobalLevel())
	}
	if !strings.Contains(errOut.String(), "configuration loaded") || !strings.Contains(errOut.String(), "base_url="+srv.URL) {
		t.Fatalf("stderr missing configuration line: %q", errOut.String())
	}
	if strings.Contains(out.String(), "configuration loaded") {
		t.Fatalf("logs leaked to stdout: %q", out.String())
	}
	if strings.TrimSpace(out.String()) != "No loans found" {
		t.Fatalf("unexpected list output: %q", out.String())
	}
}
