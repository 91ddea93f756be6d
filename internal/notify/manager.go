package notify

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/taskweave/orchestrator/internal/store"
)

// Manager wires a Detector to a set of Channels and dispatches
// surviving notifications fire-and-forget, one goroutine per channel,
// mirroring the teacher's Router.Route. A channel that errors or
// blocks never holds up the dashboard loop that calls Notify (spec
// §5).
type Manager struct {
	detector *Detector
	channels []Channel
	log      zerolog.Logger
}

// NewManager builds a Manager. milestones and rateLimit configure the
// underlying Detector (see NewDetector); pass nil/0 for defaults.
func NewManager(milestones []int, rateLimit time.Duration, channels []Channel, log zerolog.Logger) *Manager {
	return &Manager{
		detector: NewDetector(milestones, rateLimit),
		channels: channels,
		log:      log,
	}
}

// Notify diffs snap against prior state and dispatches any surviving
// notifications across every supported channel.
func (m *Manager) Notify(snap store.Snapshot) {
	notifications := m.detector.Diff(snap)
	for _, n := range notifications {
		m.dispatch(n)
	}
}

func (m *Manager) dispatch(n Notification) {
	for _, ch := range m.channels {
		if !ch.IsSupported() {
			continue
		}
		go func(ch Channel) {
			if err := ch.Send(n); err != nil {
				m.log.Warn().Err(err).Str("channel", ch.Name()).Str("kind", string(n.Kind)).Msg("notification delivery failed")
			}
		}(ch)
	}
}
