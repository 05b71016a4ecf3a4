package error

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// SpecErrors is a list of errors found in a grammar description. The order follows the positions of the errors.
type SpecErrors []*SpecError

func (e SpecErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%v", e[0])
	for _, err := range e[1:] {
		fmt.Fprintf(&b, "\n%v", err)
	}

	return b.String()
}

// Sort orders the errors by their row and column. Errors without a position come first.
func (e SpecErrors) Sort() {
	sort.SliceStable(e, func(i, j int) bool {
		if e[i].Row != e[j].Row {
			return e[i].Row < e[j].Row
		}
		return e[i].Col < e[j].Col
	})
}

// SetSource sets the file path and the source name to all errors.
func (e SpecErrors) SetSource(filePath, sourceName string) {
	for _, err := range e {
		err.FilePath = filePath
		err.SourceName = sourceName
	}
}

type SpecError struct {
	Cause      error
	Detail     string
	FilePath   string
	SourceName string
	Row        int
	Col        int
}

func (e *SpecError) Error() string {
	var b strings.Builder
	if e.SourceName != "" {
		fmt.Fprintf(&b, "%v: ", e.SourceName)
	}
	if e.Row != 0 && e.Col != 0 {
		fmt.Fprintf(&b, "%v:%v: ", e.Row, e.Col)
	}
	fmt.Fprintf(&b, "error: %v", e.Cause)
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %v", e.Detail)
	}

	line := readLine(e.FilePath, e.Row)
	if line != "" {
		fmt.Fprintf(&b, "\n    %v", line)
	}

	return b.String()
}

func (e *SpecError) Unwrap() error {
	return e.Cause
}

// AsSpecErrors extracts description errors from err. A single *SpecError is returned as a list of one element.
func AsSpecErrors(err error) (SpecErrors, bool) {
	var specErrs SpecErrors
	if errors.As(err, &specErrs) {
		return specErrs, true
	}
	var specErr *SpecError
	if errors.As(err, &specErr) {
		return SpecErrors{specErr}, true
	}
	return nil, false
}

func readLine(filePath string, row int) string {
	if filePath == "" || row <= 0 {
		return ""
	}

	f, err := os.Open(filePath)
	if err != nil {
		return ""
	}
	defer f.Close()

	i := 1
	s := bufio.NewScanner(f)
	for s.Scan() {
		if i == row {
			return s.Text()
		}
		i++
	}

	return ""
}
