package notify

import (
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	MsgItemAdded   = "Item Added to Cart"
	MsgItemRemoved = "Item Removed from Cart"
)

func init() {
	message.SetString(language.Hindi, MsgItemAdded, "आइटम कार्ट में जोड़ा गया")
	message.SetString(language.Hindi, MsgItemRemoved, "आइटम कार्ट से हटाया गया")
}

// Flash queues success toasts per session until the next page render.
type Flash struct {
	printer *message.Printer

	mu      sync.Mutex
	pending map[string][]string
}

func NewFlash(tag language.Tag) *Flash {
	return &Flash{
		printer: message.NewPrinter(tag),
		pending: make(map[string][]string),
	}
}

func (f *Flash) Success(session, msg string) {
	text := f.printer.Sprintf(msg)
	f.mu.Lock()
	f.pending[session] = append(f.pending[session], text)
	f.mu.Unlock()
}

// Drain returns and clears the pending messages of a session.
func (f *Flash) Drain(session string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := f.pending[session]
	delete(f.pending, session)
	return msgs
}

// For binds the queue to one session.
func (f *Flash) For(session string) SessionNotifier {
	return SessionNotifier{flash: f, session: session}
}

type SessionNotifier struct {
	flash   *Flash
	session string
}

func (n SessionNotifier) Success(msg string) {
	n.flash.Success(n.session, msg)
}
