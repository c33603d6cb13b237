package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo_Short(t *testing.T) {
	tests := []struct {
		name     string
		info     Info
		expected string
	}{
		{name: "no commit", info: Info{Version: "v1.0.0"}, expected: "v1.0.0"},
		{name: "short commit is ignored", info: Info{Version: "v1.0.0", GitCommit: "abc"}, expected: "v1.0.0"},
		{name: "commit is abbreviated", info: Info{Version: "v1.0.0", GitCommit: "1a2b3c4d5e6f"}, expected: "v1.0.0-1a2b3c4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.info.Short())
		})
	}
}

func TestGet(t *testing.T) {
	info := Get()

	assert.NotEmpty(t, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Contains(t, info.String(), "filevault ")
	assert.Contains(t, UserAgent(), "filevault-cli/")
}
