package notify

import (
	"fmt"
	"runtime"

	"github.com/go-toast/toast"
)

// ToastChannel delivers Windows OS toast notifications. On any other
// GOOS it reports unsupported rather than attempting delivery, matching
// the teacher's ToastNotifier.
type ToastChannel struct {
	appID        string
	dashboardURL string
}

// NewToastChannel builds a ToastChannel. dashboardURL, when non-empty,
// is attached as a click-through action.
func NewToastChannel(appID, dashboardURL string) *ToastChannel {
	if appID == "" {
		appID = "orchestrator"
	}
	return &ToastChannel{appID: appID, dashboardURL: dashboardURL}
}

func (c *ToastChannel) Name() string { return "toast" }

func (c *ToastChannel) IsSupported() bool { return runtime.GOOS == "windows" }

func (c *ToastChannel) Send(n Notification) error {
	if !c.IsSupported() {
		return fmt.Errorf("toast notifications only supported on Windows")
	}
	note := toast.Notification{
		AppID:   c.appID,
		Title:   n.Title,
		Message: n.Message,
		Audio:   toast.Default,
	}
	if c.dashboardURL != "" {
		note.Actions = []toast.Action{
			{Type: "protocol", Label: "Open dashboard", Arguments: c.dashboardURL},
		}
	}
	return note.Push()
}
