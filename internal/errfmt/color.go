package errfmt

import "github.com/fatih/color"

// colorize applies color to text if color is enabled, mirroring the
// teacher's Generator.colorize: a single toggle rather than relying on
// fatih/color's global NoColor so formatters used concurrently from
// the CLI and the dashboard don't race on shared state.
func colorize(enabled bool, text string, attr color.Attribute) string {
	if !enabled {
		return text
	}
	return color.New(attr).Sprint(text)
}
