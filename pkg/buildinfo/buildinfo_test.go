package buildinfo

import (
	"fmt"
	"runtime/debug"
	"testing"

	. "src.numbox.dev/pkg/prog/progtest"
	"src.numbox.dev/pkg/tt"
)

func TestProgram(t *testing.T) {
	Test(t, &Program{},
		ThatNumbox("-version").WritesStdout(Value.Version+"\n"),
		ThatNumbox("-version", "-json").WritesStdout(mustToJSON(Value.Version)+"\n"),
		ThatNumbox("-buildinfo").WritesStdout(fmt.Sprintf(
			"Version: %v\nGo version: %v\n", Value.Version, Value.GoVersion)),
		ThatNumbox("-buildinfo", "-json").WritesStdout(mustToJSON(Value)+"\n"),
		// Without its flags, the program defers to the next one.
		ThatNumbox().ExitsWith(2).WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func vcs(revision, time, modified string) *debug.BuildInfo {
	return &debug.BuildInfo{Settings: []debug.BuildSetting{
		{Key: "vcs.revision", Value: revision},
		{Key: "vcs.time", Value: time},
		{Key: "vcs.modified", Value: modified},
	}}
}

func TestDevVersion(t *testing.T) {
	version := func(vcsOverride string, bi *debug.BuildInfo) string {
		return devVersion("0.3.0", vcsOverride, func() (*debug.BuildInfo, bool) {
			return bi, bi != nil
		})
	}
	tt.Test(t, tt.Fn("devVersion", version), tt.Table{
		tt.Args("", (*debug.BuildInfo)(nil)).Rets("0.3.0-dev.unknown"),
		tt.Args("", &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}).
			Rets("0.3.0-dev.unknown"),
		// Installed as a module with a pseudo-version.
		tt.Args("", &debug.BuildInfo{Main: debug.Module{Version: "v0.3.0-dev.abcdef"}}).
			Rets("0.3.0-dev.abcdef"),
		tt.Args("", vcs("0123456789abcdef", "2026-03-14T15:09:26Z", "false")).
			Rets("0.3.0-dev.0.20260314150926-0123456789ab"),
		tt.Args("", vcs("0123456789abcdef", "2026-03-14T15:09:26Z", "true")).
			Rets("0.3.0-dev.0.20260314150926-0123456789ab-dirty"),
		tt.Args("", vcs("0123456789abcdef", "Pi Day", "false")).
			Rets("0.3.0-dev.unknown"),
		tt.Args("", vcs("", "2026-03-14T15:09:26Z", "false")).
			Rets("0.3.0-dev.unknown"),
		tt.Args("20260314150926-0123456789ab", (*debug.BuildInfo)(nil)).
			Rets("0.3.0-dev.0.20260314150926-0123456789ab"),
	})
}
