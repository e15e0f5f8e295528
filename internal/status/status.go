// Package status holds the single transient notification shown to the operator.
package status

import (
	"sync"
	"time"
)

// DefaultTTL is how long a message stays visible when nothing replaces it.
const DefaultTTL = 5 * time.Second

// Kind is the severity of a message.
type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
)

// Message is one status notification.
type Message struct {
	Kind Kind
	Text string
	At   time.Time
}

// Notifier keeps at most one active message. Showing a new message
// cancels the expiry timer of the previous one.
type Notifier struct {
	mu      sync.Mutex
	ttl     time.Duration
	current *Message
	timer   *time.Timer
	seq     uint64
	onShow  func(Message)
	now     func() time.Time
}

// NewNotifier returns a Notifier whose messages expire after ttl.
// A non-positive ttl selects DefaultTTL.
func NewNotifier(ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Notifier{ttl: ttl, now: time.Now}
}

// OnShow registers fn to receive every message as it is shown.
func (n *Notifier) OnShow(fn func(Message)) {
	n.mu.Lock()
	n.onShow = fn
	n.mu.Unlock()
}

// Show replaces the current message.
func (n *Notifier) Show(kind Kind, text string) Message {
	n.mu.Lock()
	if n.timer != nil {
		n.timer.Stop()
	}
	n.seq++
	seq := n.seq
	msg := Message{Kind: kind, Text: text, At: n.now()}
	n.current = &msg
	n.timer = time.AfterFunc(n.ttl, func() { n.expire(seq) })
	fn := n.onShow
	n.mu.Unlock()

	if fn != nil {
		fn(msg)
	}
	return msg
}

// Success shows a success message.
func (n *Notifier) Success(text string) Message {
	return n.Show(Success, text)
}

// Error shows an error message.
func (n *Notifier) Error(text string) Message {
	return n.Show(Error, text)
}

// Current returns the active message, if any.
func (n *Notifier) Current() (Message, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Message{}, false
	}
	return *n.current, true
}

// Clear drops the active message and its timer.
func (n *Notifier) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.seq++
	n.current = nil
}

// expire clears the message armed with seq unless a newer one replaced it.
// Stop cannot recall a timer that already fired, hence the sequence check.
func (n *Notifier) expire(seq uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.seq != seq {
		return
	}
	n.current = nil
	n.timer = nil
}
