package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func withVersion(t *testing.T, version, commit, buildTime string) {
	t.Helper()
	oldVersion, oldCommit, oldBuildTime := Version, Commit, BuildTime
	Version, Commit, BuildTime = version, commit, buildTime
	t.Cleanup(func() {
		Version, Commit, BuildTime = oldVersion, oldCommit, oldBuildTime
	})
}

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		name      string
		version   string
		commit    string
		buildTime string
		expected  string
	}{
		{"development", "", "", "", "0.0.0-dev (development)"},
		{"commit only", "1.2.3", "abc1234", "", "1.2.3 (commit: abc1234)"},
		{"full", "1.2.3", "abc1234", "2025-10-23T10:20:30Z", "1.2.3 (commit: abc1234, built at: 2025-10-23T10:20:30Z)"},
		{"build time only", "1.2.3", "", "2025-10-23T10:20:30Z", "1.2.3 (commit: development, built at: 2025-10-23T10:20:30Z)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withVersion(t, tt.version, tt.commit, tt.buildTime)
			assert.Equal(t, tt.expected, FormatVersion())
		})
	}
}

func TestApplyBuildSettings(t *testing.T) {
	withVersion(t, devVersion, "", "")

	buildSettings{
		"vcs.revision": "0123456789abcdef",
		"vcs.time":     "2025-10-23T07:20:30-03:00",
		"vcs.tag":      "v1.4.0",
		"vcs.modified": "true",
	}.apply()

	assert.Equal(t, "1.4.0-dirty", Version)
	assert.Equal(t, "0123456", Commit)
	assert.Equal(t, "2025-10-23T10:20:30Z", BuildTime)
}

func TestApplyBuildSettings_KeepsLdflags(t *testing.T) {
	withVersion(t, "2.0.0", "", "")

	buildSettings{"vcs.revision": "0123456789abcdef", "vcs.tag": "v1.4.0"}.apply()

	assert.Equal(t, "2.0.0", Version)
	assert.Empty(t, Commit)
}
