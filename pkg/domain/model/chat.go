package model

import "github.com/finport-lab/riskcast/pkg/domain/types"

// ChatRole marks who produced a chat turn
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// String returns the string representation of ChatRole
func (r ChatRole) String() string {
	return string(r)
}

// ChatTurn is one message in a chat session transcript
type ChatTurn struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}

// ChatReply is the outcome of routing one chat request. It always
// carries a text answer and the session it belongs to; Scenario is set
// when the request started a what-if simulation.
type ChatReply struct {
	SessionID types.SessionID
	Text      string
	Intent    types.Intent
	Scenario  *Scenario
}
