package version

import "github.com/fatih/color"

// Build metadata for the sluice CLI. The Git* and BuildDate variables
// are meant to be stamped via -ldflags; they stay empty in dev builds.

var (
	// Version is the semantic version of the CLI, with each component
	// colorized for terminal output.
	Version = render(0, 1, 0, "dev")

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

func render(major, minor, patch int, pre string) string {
	majorC := color.New(color.FgYellow, color.Bold)
	minorC := color.New(color.FgGreen, color.Bold)
	patchC := color.New(color.FgBlue, color.Bold)
	v := majorC.Sprintf("%d", major) + "." + minorC.Sprintf("%d", minor) + "." + patchC.Sprintf("%d", patch)
	if pre != "" {
		v += "-" + pre
	}
	return v
}
