package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter asks for missing connection settings on an interactive terminal.
type Prompter struct {
	in         *bufio.Reader
	out        io.Writer
	readSecret func() (string, error)
}

// NewPrompter reads answers line by line from in. Secrets are read the same
// way, unmasked.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
	p.readSecret = p.readLine
	return p
}

// NewTerminalPrompter prompts on stderr and masks secrets when stdin is a
// terminal.
func NewTerminalPrompter() *Prompter {
	p := NewPrompter(os.Stdin, os.Stderr)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		p.readSecret = func() (string, error) {
			secret, err := term.ReadPassword(fd)
			fmt.Fprintln(p.out)
			return string(secret), err
		}
	}
	return p
}

func (p *Prompter) Ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	answer, err := p.readLine()
	return strings.TrimSpace(answer), err
}

func (p *Prompter) AskSecret(question string) (string, error) {
	fmt.Fprint(p.out, question)
	return p.readSecret()
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
