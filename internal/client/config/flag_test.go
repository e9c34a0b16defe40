package config

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected *Config
	}{
		{
			name:     "both flags set",
			args:     []string{"cmd", "-a", "http://api.example:9000/api", "-d", "/tmp/state.db"},
			expected: &Config{APIBaseURL: "http://api.example:9000/api", DatabasePath: "/tmp/state.db"},
		},
		{
			name:     "only base url",
			args:     []string{"cmd", "-a", "http://api.example:9000/api"},
			expected: &Config{APIBaseURL: "http://api.example:9000/api"},
		},
		{
			name:     "foreign flags are ignored",
			args:     []string{"cmd", "-c", "conf.json", "-x", "1"},
			expected: &Config{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origArgs := os.Args
			t.Cleanup(func() { os.Args = origArgs })
			os.Args = tt.args

			config := &Config{}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(config, tt.expected))
		})
	}
}
