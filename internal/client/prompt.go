package client

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// openControllingTTY opens the terminal of the process, if it has one.
func openControllingTTY() (*os.File, error) {
	return os.OpenFile("/dev/tty", os.O_RDWR, 0)
}

// terminalPrompter reads passwords from the controlling terminal so that
// stdin stays available for document content. When there is no terminal it
// reads plain lines from in, which must be the same reader every other
// consumer of stdin uses.
type terminalPrompter struct {
	in      *bufio.Reader
	out     io.Writer
	openTTY func() (*os.File, error)

	once sync.Once
	tty  *os.File
}

// NewTerminalPrompter constructs the default [Prompter]. The terminal is
// opened on the first prompt; call Close to release it.
func NewTerminalPrompter(in *bufio.Reader, out io.Writer) Prompter {
	return newTerminalPrompter(in, out, openControllingTTY)
}

func newTerminalPrompter(in *bufio.Reader, out io.Writer, openTTY func() (*os.File, error)) *terminalPrompter {
	return &terminalPrompter{in: in, out: out, openTTY: openTTY}
}

func (p *terminalPrompter) ReadPassword(prompt string) (string, error) {
	p.once.Do(func() {
		tty, err := p.openTTY()
		if err != nil {
			return
		}
		if !term.IsTerminal(int(tty.Fd())) {
			tty.Close()
			return
		}
		p.tty = tty
	})

	if p.tty != nil {
		fmt.Fprint(p.tty, prompt)
		b, err := term.ReadPassword(int(p.tty.Fd()))
		fmt.Fprintln(p.tty)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Close releases the terminal if a prompt opened it.
func (p *terminalPrompter) Close() error {
	if p.tty == nil {
		return nil
	}
	err := p.tty.Close()
	p.tty = nil
	return err
}
