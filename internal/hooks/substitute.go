package hooks

import "strings"

// substitute replaces every {name} placeholder in template with the
// matching value from vars. Placeholders with no entry in vars are
// left untouched rather than erroring, since a hook author may
// reasonably reference a variable an older config doesn't supply.
func substitute(template string, vars Vars) string {
	if len(vars) == 0 {
		return template
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
