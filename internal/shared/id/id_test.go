package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator(t *testing.T) {
	t.Run("Generate produces unique ULIDs", func(t *testing.T) {
		gen := NewGenerator()
		seen := make(map[string]bool)
		for i := 0; i < 1000; i++ {
			s := gen.GenerateString()
			require.False(t, seen[s], "duplicate ULID %s", s)
			seen[s] = true
		}
	})

	t.Run("GenerateWithPrefix", func(t *testing.T) {
		gen := NewGenerator()
		s := gen.GenerateWithPrefix("term")
		assert.True(t, strings.HasPrefix(s, "term_"))
		assert.Len(t, s, len("term_")+26) // ULID string form is 26 chars
	})
}

func TestTypedIDs(t *testing.T) {
	t.Run("TerminalID", func(t *testing.T) {
		tid := NewTerminalID()
		assert.True(t, IsTerminalID(string(tid)))
	})

	t.Run("RequestID", func(t *testing.T) {
		rid := NewRequestID()
		assert.True(t, strings.HasPrefix(string(rid), "req_"))
		assert.False(t, IsTerminalID(string(rid)))
	})

	t.Run("IsTerminalID rejects bare ULID", func(t *testing.T) {
		assert.False(t, IsTerminalID(Default().GenerateString()))
	})
}
