package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPluralize(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, "devices"},
		{1, "device"},
		{2, "devices"},
		{-1, "devices"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Pluralize(tt.count, "device", "devices"))
	}
}

func TestCountNoun(t *testing.T) {
	assert.Equal(t, "0 sites", CountNoun(0, "site", "sites"))
	assert.Equal(t, "1 site", CountNoun(1, "site", "sites"))
	assert.Equal(t, "12 sites", CountNoun(12, "site", "sites"))
}
