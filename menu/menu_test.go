package menu

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		raw    string
		choice int
		ok     bool
	}{
		{raw: "1", choice: 1, ok: true},
		{raw: "3", choice: 3, ok: true},
		{raw: " 2 \n", choice: 2, ok: true},
		{raw: "+2", choice: 2, ok: true},
		{raw: "0"},
		{raw: "-1"},
		{raw: "4"},
		{raw: "100"},
		{raw: ""},
		{raw: "abc"},
		{raw: "1.5"},
		{raw: "2x"},
		{raw: "99999999999999999999999"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			choice, ok := Resolve(3, tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.choice, choice)
		})
	}
}

func TestResolveOnlyAcceptsInRange(t *testing.T) {
	for count := 1; count <= 5; count++ {
		for n := -3; n <= count+3; n++ {
			choice, ok := Resolve(count, strconv.Itoa(n))
			if n >= 1 && n <= count {
				assert.True(t, ok, "count=%d n=%d", count, n)
				assert.Equal(t, n, choice)
			} else {
				assert.False(t, ok, "count=%d n=%d", count, n)
			}
		}
	}
}

func TestSelectOnePrintsMenuAndReturnsChoice(t *testing.T) {
	var out bytes.Buffer
	s := New(strings.NewReader("2\n"), &out)

	choice, err := s.SelectOne([]string{"dev", "prod"}, "Select a profile")
	require.NoError(t, err)
	assert.Equal(t, 2, choice)
	assert.Equal(t, "1. dev\n2. prod\nSelect a profile (1-2): ", out.String())
}

func TestSelectOneRepromptsOnBadInput(t *testing.T) {
	var out bytes.Buffer
	s := New(strings.NewReader("x\n0\n-1\n5\n1\n"), &out)

	choice, err := s.SelectOne([]string{"a", "b", "c"}, "Pick")
	require.NoError(t, err)
	assert.Equal(t, 1, choice)
	assert.Equal(t, 4, strings.Count(out.String(), RetryNotice))
	assert.Equal(t, 5, strings.Count(out.String(), "Pick (1-3): "))
}

func TestSelectOneAcceptsFinalLineWithoutNewline(t *testing.T) {
	s := New(strings.NewReader("3"), io.Discard)

	choice, err := s.SelectOne([]string{"a", "b", "c"}, "Pick")
	require.NoError(t, err)
	assert.Equal(t, 3, choice)
}

func TestSelectOneStopsWhenInputCloses(t *testing.T) {
	s := New(strings.NewReader("nope\n"), io.Discard)

	_, err := s.SelectOne([]string{"a"}, "Pick")
	require.Error(t, err)
	assert.Equal(t, io.EOF, errors.Cause(err))
}

func TestSelectOneRejectsEmptyOptions(t *testing.T) {
	_, err := New(strings.NewReader("1\n"), io.Discard).SelectOne(nil, "Pick")
	assert.Equal(t, ErrNoOptions, err)
}
