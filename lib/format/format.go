/*package format handles gridify's miniature language for selecting time steps,
e.g:

   Steps = 0..100 - 63
   Steps = 0..10 + 20..30 - 25
   Steps = all

A step format is a series of tokens separated by "+" or "-". Each token is a
step index or two indices separated by "..", which includes both ends. Tokens
after a "+" (or at the start of the string) are added to the selection and
tokens after a "-" are removed from it, so 1, 2, 3, 15, 16, 17 can be written
as 1..17 - 4..14. This is useful for skipping broken outputs or for looking at
a handful of frames of a long run. The keyword "all" (or an empty string)
selects every step.

All spaces around "+", "-", and ".." tokens are ignored.
*/
package format

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	// Any expanded formats which would have more than BigNumber elements are
	// assumed to be bugs.
	BigNumber = 1 << 20
	// All is the keyword that selects every step.
	All = "all"
)

// ExpandSteps expands a step format into a sorted list of indices into a
// list of n time steps. Indices must lie in [0, n).
func ExpandSteps(format string, n int) ([]int, error) {
	if trimmed := strings.TrimSpace(format); trimmed == "" || trimmed == All {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out, nil
	}

	steps, err := ExpandSequenceFormat(format)
	if err != nil {
		return nil, err
	}
	for _, i := range steps {
		if i >= n {
			return nil, fmt.Errorf("The step format '%s' selects step %d, "+
				"but there are only %d steps.", format, i, n)
		}
	}
	return steps, nil
}

// ExpandSequenceFormat expands a sequence format string into a sorted sequence
// of integers.
func ExpandSequenceFormat(format string) ([]int, error) {
	tok, err := tokeniseSequenceFormat(format)
	if err != nil {
		return nil, err
	}
	adds, subs, err := addsSubsSequenceFormat(tok)
	if err != nil {
		return nil, err
	}

	m := map[int]bool{}
	for i := range adds {
		lo, hi := sequenceFormatBounds(adds[i])
		if len(m)+(hi-lo+1) > BigNumber {
			return nil, fmt.Errorf("The sequence '%s' would have more than "+
				"%d elements, which is almost certainly a bug.", format,
				BigNumber)
		}
		for n := lo; n <= hi; n++ {
			if m[n] {
				return nil, fmt.Errorf("The number %d is added more than "+
					"once.", n)
			}
			m[n] = true
		}
	}

	for i := range subs {
		lo, hi := sequenceFormatBounds(subs[i])
		for n := lo; n <= hi; n++ {
			if !m[n] {
				return nil, fmt.Errorf("The number %d is removed more times "+
					"than it was inserted.", n)
			}
			delete(m, n)
		}
	}

	out := make([]int, 0, len(m))
	for n := range m {
		out = append(out, n)
	}
	sort.Ints(out)

	return out, nil
}

// tokeniseSequenceFormat splits a sequence format into number/range tokens
// and "+"/"-" operators.
func tokeniseSequenceFormat(format string) ([]string, error) {
	formatClean := strings.ReplaceAll(format, "+", " + ")
	formatClean = strings.ReplaceAll(formatClean, "-", " - ")
	formatClean = strings.ReplaceAll(formatClean, " .", ".")
	formatClean = strings.ReplaceAll(formatClean, ". ", ".")

	tok := strings.Fields(formatClean)
	if len(tok) == 0 {
		return nil, fmt.Errorf("The format string is empty.")
	}
	return tok, nil
}

// addsSubsSequenceFormat sorts tokens into the ones which are added and the
// ones which are subtracted, checking that operators and operands alternate.
func addsSubsSequenceFormat(tok []string) (adds, subs []string, err error) {
	if len(tok) == 0 {
		return nil, nil, fmt.Errorf("Format string is empty")
	}

	// Handle the case where the starting "+" is dropped.
	adds, subs = []string{}, []string{}
	start := 0
	if tok[0] != "+" && tok[0] != "-" {
		if err := isSequenceFormatToken(tok[0]); err != nil {
			return nil, nil, fmt.Errorf("Element number 1, '%s', cannot be "+
				"parsed because %s", tok[0], err.Error())
		}
		adds = append(adds, tok[0])
		start = 1
	}

	for i := start; i < len(tok); i += 2 {
		if tok[i] != "-" && tok[i] != "+" {
			return nil, nil, fmt.Errorf("Element number %d, '%s', should be "+
				"a '-' or '+', but isn't.", i+1, tok[i])
		} else if i+1 >= len(tok) {
			return nil, nil, fmt.Errorf("The format string ends in a "+
				"trailing '%s'", tok[i])
		} else if err := isSequenceFormatToken(tok[i+1]); err != nil {
			return nil, nil, fmt.Errorf("Element number %d, '%s', cannot be "+
				"parsed because %s", i+2, tok[i+1], err.Error())
		}

		if tok[i] == "+" {
			adds = append(adds, tok[i+1])
		} else {
			subs = append(subs, tok[i+1])
		}
	}

	return adds, subs, nil
}

// isSequenceFormatToken returns a nil error if tok is a valid number or range
// token and an error describing the problem otherwise. The error message
// assumes it is printed after a trailing "because".
func isSequenceFormatToken(tok string) error {
	if len(tok) == 0 {
		return fmt.Errorf("the token is empty.")
	}

	bounds := strings.Split(tok, "..")
	switch len(bounds) {
	case 1:
		if _, err := strconv.Atoi(bounds[0]); err != nil {
			return fmt.Errorf("'%s' is not an integer.", bounds[0])
		}
		return nil
	case 2:
		start, err := strconv.Atoi(bounds[0])
		if err != nil {
			return fmt.Errorf("'%s' is not an integer.", bounds[0])
		}
		end, err := strconv.Atoi(bounds[1])
		if err != nil {
			return fmt.Errorf("'%s' is not an integer.", bounds[1])
		}
		if end < start {
			return fmt.Errorf("lower bound %d is larger than upper bound %d.",
				start, end)
		}
		return nil
	}
	return fmt.Errorf("it has more than one '..'.")
}

// sequenceFormatBounds returns the inclusive bounds of a token which has
// already passed isSequenceFormatToken.
func sequenceFormatBounds(tok string) (lo, hi int) {
	bounds := strings.Split(tok, "..")
	lo, _ = strconv.Atoi(bounds[0])
	hi = lo
	if len(bounds) == 2 {
		hi, _ = strconv.Atoi(bounds[1])
	}
	return lo, hi
}
