package domain

type ChatRole string

const (
	RoleUser  ChatRole = "user"
	RoleModel ChatRole = "model"
)

// ChatMessage is one entry in the session transcript. The transcript is
// append-only; the only mutation allowed is appending streamed text to
// the most recent model-authored message while a response is in flight.
type ChatMessage struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}
