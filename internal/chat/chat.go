package chat

import "time"

// Role identifies who authored a message.
type Role string

const (
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAssistant || r == RoleUser
}

// Greeting opens every conversation.
const Greeting = "Hi! Let's create your invoice."

// Message is a single conversation turn. Messages are immutable once logged.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Log is an append-only, ordered sequence of messages.
type Log struct {
	newID    func() string
	now      func() time.Time
	messages []Message
}

// NewLog creates a log seeded with the given messages.
func NewLog(newID func() string, now func() time.Time, seed ...Message) *Log {
	messages := make([]Message, len(seed))
	copy(messages, seed)

	return &Log{newID: newID, now: now, messages: messages}
}

// Append logs a new message at the end of the conversation.
func (l *Log) Append(role Role, content string) Message {
	msg := Message{
		ID:        l.newID(),
		Role:      role,
		Content:   content,
		Timestamp: l.now(),
	}
	l.messages = append(l.messages, msg)

	return msg
}

// Messages returns a copy of the conversation in order.
func (l *Log) Messages() []Message {
	out := make([]Message, len(l.messages))
	copy(out, l.messages)

	return out
}

// Len returns the number of messages.
func (l *Log) Len() int {
	return len(l.messages)
}

// Last returns the most recent message.
func (l *Log) Last() (Message, bool) {
	if len(l.messages) == 0 {
		return Message{}, false
	}

	return l.messages[len(l.messages)-1], true
}
