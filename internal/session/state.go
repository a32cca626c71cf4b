package session

// State is a stage of frame production.
type State uint8

const (
	Idle State = iota
	PoseAccepted
	Rendering
	Compositing
	Sent
)

func (s State) String() string {
	switch s {
	case PoseAccepted:
		return "pose-accepted"
	case Rendering:
		return "rendering"
	case Compositing:
		return "compositing"
	case Sent:
		return "sent"
	default:
		return "idle"
	}
}
