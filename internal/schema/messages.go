package schema

// History is the ordered list of messages exchanged with the LLM.
// It only grows: there is no way to remove, reorder or edit an entry.
type History struct {
	messages []Message
}

// NewHistory returns a History initialised with the given messages.
func NewHistory(msgs ...Message) History {
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return History{messages: out}
}

// AddUser appends a user message.
func (h *History) AddUser(content string) {
	h.messages = append(h.messages, NewUserMessage(content))
}

// AddAssistant appends an assistant message.
func (h *History) AddAssistant(content string) {
	h.messages = append(h.messages, NewAssistantMessage(content))
}

// Append copies msgs onto the end of h.
func (h *History) Append(msgs ...Message) {
	h.messages = append(h.messages, msgs...)
}

// Messages returns a snapshot with an independent backing slice.
func (h History) Messages() []Message {
	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}
