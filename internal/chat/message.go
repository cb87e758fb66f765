package chat

import "time"

// Sender identifies which side of the conversation produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// WelcomeID is the fixed id of the greeting message every conversation
// starts with.
const WelcomeID = "welcome"

const (
	welcomeText = "Hello! I'm your AI assistant. How can I help you today?"
	apologyText = "Sorry, I encountered an error. Please try again."
)

var welcomeSuggestions = []string{
	"What can you do?",
	"Help me with something",
	"Tell me about yourself",
}

// Message is one turn in the conversation log. User turns carry a
// client-generated id and client clock; bot turns carry whatever the
// server reported, accepted as-is. Intent, Confidence and Suggestions
// are only ever set on bot turns.
type Message struct {
	ID          string
	Content     string
	Sender      Sender
	Timestamp   time.Time
	Intent      string
	Confidence  *float64
	Suggestions []string
}

func welcomeMessage(now time.Time) Message {
	return Message{
		ID:          WelcomeID,
		Content:     welcomeText,
		Sender:      SenderBot,
		Timestamp:   now,
		Suggestions: append([]string{}, welcomeSuggestions...),
	}
}
