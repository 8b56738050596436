// Package menu renders a numbered list of options and resolves one choice
// from the operator.
package menu

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// RetryNotice is printed whenever an answer does not name one of the options
const RetryNotice = "Invalid selection, please try again."

// ErrNoOptions is returned when asked to select from an empty list
var ErrNoOptions = errors.New("menu: no options to select from")

// Resolve turns a raw answer into a 1-based choice. ok is false when the
// answer is not an integer in [1, count] and the operator must be asked again.
func Resolve(count int, raw string) (choice int, ok bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 || n > count {
		return 0, false
	}
	return n, true
}

// Selector is the blocking console boundary around Resolve
type Selector struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a selector reading answers from in and writing the menu to out
func New(in io.Reader, out io.Writer) *Selector {
	return &Selector{in: bufio.NewReader(in), out: out}
}

// SelectOne prints every option as "<n>. <label>" and keeps prompting until the
// answer names one of them. It returns the 1-based choice. The only way out
// other than a valid answer is the input closing.
func (s *Selector) SelectOne(options []string, prompt string) (int, error) {
	if len(options) == 0 {
		return 0, ErrNoOptions
	}

	for idx, option := range options {
		fmt.Fprintf(s.out, "%d. %s\n", idx+1, option)
	}

	for {
		fmt.Fprintf(s.out, "%s (1-%d): ", prompt, len(options))
		line, err := s.in.ReadString('\n')
		if choice, ok := Resolve(len(options), line); ok {
			return choice, nil
		}
		if err != nil {
			if err == io.EOF {
				fmt.Fprintln(s.out)
			}
			return 0, errors.Wrap(err, "menu: failed to read selection")
		}
		fmt.Fprintln(s.out, RetryNotice)
	}
}
