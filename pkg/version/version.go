package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

const devVersion = "0.0.0-dev"

// Sobrescritos via -ldflags "-X github.com/diillson/bigrivercalc-go/pkg/version.Version=...".
var (
	Version   = devVersion
	Commit    = ""
	BuildTime = ""
)

// buildSettings abstrai debug.BuildInfo.Settings para os testes.
type buildSettings map[string]string

func readBuildSettings() buildSettings {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi == nil {
		return nil
	}
	settings := make(buildSettings, len(bi.Settings))
	for _, s := range bi.Settings {
		settings[s.Key] = s.Value
	}
	return settings
}

// apply preenche Version/Commit/BuildTime a partir das informações de VCS
// embutidas pelo Go, sem sobrescrever o que veio por ldflags.
func (s buildSettings) apply() {
	if Version != "" && Version != devVersion {
		return
	}

	if rev := s["vcs.revision"]; Commit == "" && len(rev) >= 7 {
		Commit = rev[:7]
	}

	if BuildTime == "" {
		if ts, err := time.Parse(time.RFC3339, s["vcs.time"]); err == nil {
			BuildTime = ts.UTC().Format("2006-01-02T15:04:05Z")
		}
	}

	if tag := s["vcs.tag"]; tag != "" {
		Version = strings.TrimPrefix(tag, "v")
		if strings.EqualFold(s["vcs.modified"], "true") {
			Version += "-dirty"
		}
	}
}

func init() {
	readBuildSettings().apply()
}

// FormatVersion retorna a versão formatada com commit e build time.
// Ex.: "1.2.3 (commit: abc1234, built at: 2025-10-23T10:20:30Z)"
func FormatVersion() string {
	ver := Version
	if ver == "" {
		ver = devVersion
	}

	switch {
	case Commit == "" && BuildTime == "":
		return fmt.Sprintf("%s (development)", ver)
	case Commit == "":
		return fmt.Sprintf("%s (commit: development, built at: %s)", ver, BuildTime)
	case BuildTime == "":
		return fmt.Sprintf("%s (commit: %s)", ver, Commit)
	default:
		return fmt.Sprintf("%s (commit: %s, built at: %s)", ver, Commit, BuildTime)
	}
}
