package main

import (
	"fmt"
	"io"
)

// termView is the terminal rendition of the single status surface. With echo
// set every status is printed as it arrives; otherwise only the last one is
// kept for printFinal.
type termView struct {
	out        io.Writer
	echo       bool
	status     string
	validation string
}

func newTermView(out io.Writer, echo bool) *termView {
	return &termView{out: out, echo: echo}
}

func (v *termView) SetStatus(text string) {
	v.status = text
	v.validation = ""
	if v.echo {
		fmt.Fprintln(v.out, text)
	}
}

func (v *termView) ShowValidation(text string) {
	v.validation = text
	if v.echo {
		fmt.Fprintln(v.out, text)
	}
}

// ClearFocus has nothing to do on a terminal.
func (v *termView) ClearFocus() {}

func (v *termView) printFinal() {
	if v.status != "" {
		fmt.Fprintln(v.out, v.status)
	}
}
