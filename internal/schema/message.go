// Package schema holds the value types shared by the provider adapters, the
// tool dispatcher, the conversation engine and the session store.
package schema

import "strings"

// Role identifies who authored a Message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ParseRole maps a stored role string back to a Role.
// Unknown values are returned as-is so that view/export can still show them.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "system":
		return RoleSystem
	case "user":
		return RoleUser
	case "assistant":
		return RoleAssistant
	}
	return Role(s)
}

// Message is one entry in the conversation history. It carries no identity
// beyond its position in a History.
type Message struct {
	Role    Role
	Content string
}

func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}
