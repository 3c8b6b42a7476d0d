// Package version reports build information.
//
// Values are set at build time:
//
//	go build -ldflags "-X github.com/information-sharing-networks/ledger-demo/internal/version.version=v1.2.0 \
//	  -X github.com/information-sharing-networks/ledger-demo/internal/version.buildDate=2024-05-01T10:00:00Z \
//	  -X github.com/information-sharing-networks/ledger-demo/internal/version.gitCommit=abc1234"
//
// Without ldflags the module version and vcs revision recorded by the go tool are used.
package version

import "runtime/debug"

var (
	version   = ""
	buildDate = "unknown"
	gitCommit = ""
)

type Info struct {
	Version   string
	BuildDate string
	GitCommit string
}

func Get() Info {
	info := Info{Version: version, BuildDate: buildDate, GitCommit: gitCommit}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return withDefaults(info)
	}
	if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = s.Value
			}
		case "vcs.time":
			if info.BuildDate == "unknown" {
				info.BuildDate = s.Value
			}
		}
	}
	return withDefaults(info)
}

func withDefaults(info Info) Info {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.GitCommit == "" {
		info.GitCommit = "unknown"
	}
	return info
}
