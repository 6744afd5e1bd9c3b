package domain

type MessageHandle struct {
	ChatID    ChatID
	MessageID int64
}

type TextFormat string

const (
	FormatPlain TextFormat = ""
	FormatHTML  TextFormat = "HTML"
)

type Button struct {
	Label string
	Data  string
}

type Keyboard [][]Button

type MessageKind int

const (
	MessageText MessageKind = iota
	MessageAlbum
	MessageReport
	MessageDocument
)

type Photo struct {
	Path    string
	Caption string
	Format  TextFormat
}

// OutboundMessage is one step of a delivery plan. For albums Text holds the
// card sent on its own when the images cannot be delivered; for reports
// FailureText replaces the document when rendering fails.
type OutboundMessage struct {
	Kind        MessageKind
	Text        string
	Format      TextFormat
	Keyboard    Keyboard
	Photos      []Photo
	Report      *Report
	Document    *Document
	Caption     string
	FailureText string
}

type DeliveryPlan struct {
	ID           string
	ChatID       ChatID
	AckCallback  string
	ClearHistory bool
	Messages     []OutboundMessage
}

func (p *DeliveryPlan) Add(messages ...OutboundMessage) {
	p.Messages = append(p.Messages, messages...)
}

func (p DeliveryPlan) Reports() int {
	count := 0
	for _, message := range p.Messages {
		if message.Kind == MessageReport {
			count++
		}
	}
	return count
}
