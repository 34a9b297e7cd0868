package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractQueryName(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want string
	}{
		{name: "select", sql: "SELECT id FROM authors", want: "SELECT"},
		{name: "insert", sql: "INSERT INTO comments VALUES ($1)", want: "INSERT"},
		{name: "leading newline separator", sql: "UPDATE\nratings SET score = $1", want: "UPDATE"},
		{name: "empty", sql: "", want: "unknown"},
		{name: "single short word", sql: "COMMIT", want: "COMMIT"},
		{name: "long unbroken text truncated", sql: "ABCDEFGHIJKLMNOPQRSTUVWXYZ", want: "ABCDEFGHIJKLMNOPQRST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractQueryName(tt.sql))
		})
	}
}
