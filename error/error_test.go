package error

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTest = errors.New("test error")

func TestSpecError_Error(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grammar.txt")
	err := os.WriteFile(path, []byte("S\n    : a\n    ;\n"), 0600)
	require.NoError(t, err)

	tests := []struct {
		caption  string
		err      *SpecError
		expected string
	}{
		{
			caption: "an error without a position has only the cause",
			err: &SpecError{
				Cause: errTest,
			},
			expected: "error: test error",
		},
		{
			caption: "an error with a position and a detail",
			err: &SpecError{
				Cause:  errTest,
				Detail: "foo",
				Row:    1,
				Col:    3,
			},
			expected: "1:3: error: test error: foo",
		},
		{
			caption: "an error with a source quotes the line",
			err: &SpecError{
				Cause:      errTest,
				FilePath:   path,
				SourceName: "grammar.txt",
				Row:        2,
				Col:        7,
			},
			expected: "grammar.txt: 2:7: error: test error\n        : a",
		},
		{
			caption: "a row beyond the file quotes nothing",
			err: &SpecError{
				Cause:      errTest,
				FilePath:   path,
				SourceName: "grammar.txt",
				Row:        10,
				Col:        1,
			},
			expected: "grammar.txt: 10:1: error: test error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
			assert.ErrorIs(t, tt.err, errTest)
		})
	}
}

func TestSpecErrors_Sort(t *testing.T) {
	errs := SpecErrors{
		{Cause: errTest, Detail: "c", Row: 3, Col: 1},
		{Cause: errTest, Detail: "b", Row: 1, Col: 5},
		{Cause: errTest, Detail: "a", Row: 1, Col: 2},
		{Cause: errTest, Detail: "no position"},
		{Cause: errTest, Detail: "d", Row: 3, Col: 1},
	}
	errs.Sort()

	var details []string
	for _, err := range errs {
		details = append(details, err.Detail)
	}
	assert.Equal(t, []string{"no position", "a", "b", "c", "d"}, details)
	assert.Equal(t, "error: test error: no position\n1:2: error: test error: a\n1:5: error: test error: b\n3:1: error: test error: c\n3:1: error: test error: d", errs.Error())
}

func TestAsSpecErrors(t *testing.T) {
	single := &SpecError{Cause: errTest}
	list := SpecErrors{single, {Cause: errTest, Row: 1, Col: 1}}

	tests := []struct {
		caption string
		err     error
		ok      bool
		count   int
	}{
		{
			caption: "a list",
			err:     list,
			ok:      true,
			count:   2,
		},
		{
			caption: "a wrapped list",
			err:     fmt.Errorf("wrapped: %w", list),
			ok:      true,
			count:   2,
		},
		{
			caption: "a single error",
			err:     single,
			ok:      true,
			count:   1,
		},
		{
			caption: "an unrelated error",
			err:     errTest,
			ok:      false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			errs, ok := AsSpecErrors(tt.err)
			require.Equal(t, tt.ok, ok)
			assert.Len(t, errs, tt.count)
		})
	}
}

func TestSpecErrors_SetSource(t *testing.T) {
	errs := SpecErrors{
		{Cause: errTest},
		{Cause: errTest},
	}
	errs.SetSource("/tmp/grammar.txt", "grammar.txt")
	for _, err := range errs {
		assert.Equal(t, "/tmp/grammar.txt", err.FilePath)
		assert.Equal(t, "grammar.txt", err.SourceName)
	}
}
