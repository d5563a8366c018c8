package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAsciiSanitize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain.zip", "plain.zip"},
		{"with space.zip", "with_space.zip"},
		{"tabs\tand\nnewlines", "tabs_and_newlines"},
		{"смелый.zip", "______.zip"},
		{"emoji🎮.zip", "emoji_.zip"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, asciiSanitize(tc.in), tc.in)
	}
}
