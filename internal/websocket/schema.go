package websocket

// ─── Events (Server → Client) ───────────────────────────────────────
//
// Class activity itself is sent as model.ActivityEvent. The events below
// frame the stream.

type Event string

const (
	EventSubscribed Event = "subscribed"
	EventError      Event = "error"
)

// SubscribedMessage is the first frame of an activity stream.
type SubscribedMessage struct {
	Event   Event `json:"event"`
	ClassID int   `json:"class_id"`
}

type ErrorMessage struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}
