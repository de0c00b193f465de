// ABOUTME: Model and action detection for request logging.
// ABOUTME: Maps "<app>/<model>/<action>/..." admin paths to the owning plugin.

package logging

import (
	"strconv"
	"strings"

	"github.com/2389/actionadmin/plugins/core"
)

// Resolve determines which plugin and action a path below the admin prefix
// belongs to. Unknown models resolve to "unknown"; list and change pages
// have no action.
func Resolve(rest string) (pluginName, action string) {
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) < 2 || parts[0] == "" {
		return "", ""
	}

	p, ok := core.ByModel(parts[0], parts[1])
	if !ok {
		return "unknown", ""
	}
	pluginName = p.Name()

	if len(parts) < 3 {
		return pluginName, ""
	}
	if _, err := strconv.ParseInt(parts[2], 10, 64); err == nil {
		return pluginName, ""
	}
	if _, ok := p.Actions().Get(parts[2]); ok {
		return pluginName, parts[2]
	}
	return pluginName, ""
}
