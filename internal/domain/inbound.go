package domain

type InboundKind int

const (
	InboundText InboundKind = iota
	InboundCommand
	InboundCallback
)

// Inbound is a transport-neutral chat event. Text carries the command name
// without its slash, the callback data, or the raw message text.
type Inbound struct {
	Kind       InboundKind
	ChatID     ChatID
	UserID     UserID
	Text       string
	Args       string
	CallbackID string
}
