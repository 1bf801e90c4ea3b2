// Package line adapts the official LINE Messaging API SDK to the small
// surface the bot uses: webhook parsing into a flat event model, replies,
// pushes, profile lookups, and message content download.
package line

import (
	"net/http"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

// Event types and message types delivered to the webhook.
const (
	EventMessage = "message"
	EventJoin    = "join"
	EventFollow  = "follow"

	MessageText  = "text"
	MessageImage = "image"

	SourceUser  = "user"
	SourceGroup = "group"
)

// ErrInvalidSignature is returned by ParseRequest when the X-Line-Signature
// header does not match the request body.
var ErrInvalidSignature = webhook.ErrInvalidSignature

// Event is one webhook event, flattened from the SDK's typed model.
type Event struct {
	Type       string
	ReplyToken string
	Source     Source
	Message    Message
}

// Source identifies where an event came from.
type Source struct {
	Type    string
	UserID  string
	GroupID string
}

// Message is the message payload of a message event.
type Message struct {
	ID   string
	Type string
	Text string
}

// SourceID returns the scope a transaction or approval belongs to: the group
// for group chats, otherwise the sending user.
func (e Event) SourceID() string {
	if e.Source.Type == SourceGroup && e.Source.GroupID != "" {
		return e.Source.GroupID
	}
	return e.Source.UserID
}

// ParseRequest verifies the webhook signature and returns the delivery's
// events. Event kinds the bot does not handle are dropped here.
func ParseRequest(channelSecret string, r *http.Request) ([]Event, error) {
	cb, err := webhook.ParseRequest(channelSecret, r)
	if err != nil {
		return nil, err
	}

	var events []Event
	for _, raw := range cb.Events {
		switch ev := raw.(type) {
		case webhook.MessageEvent:
			out := Event{
				Type:       EventMessage,
				ReplyToken: ev.ReplyToken,
				Source:     convertSource(ev.Source),
			}
			switch m := ev.Message.(type) {
			case webhook.TextMessageContent:
				out.Message = Message{ID: m.Id, Type: MessageText, Text: m.Text}
			case webhook.ImageMessageContent:
				out.Message = Message{ID: m.Id, Type: MessageImage}
			default:
				continue
			}
			events = append(events, out)
		case webhook.FollowEvent:
			events = append(events, Event{
				Type:       EventFollow,
				ReplyToken: ev.ReplyToken,
				Source:     convertSource(ev.Source),
			})
		case webhook.JoinEvent:
			events = append(events, Event{
				Type:       EventJoin,
				ReplyToken: ev.ReplyToken,
				Source:     convertSource(ev.Source),
			})
		}
	}
	return events, nil
}

func convertSource(src webhook.SourceInterface) Source {
	switch s := src.(type) {
	case webhook.UserSource:
		return Source{Type: SourceUser, UserID: s.UserId}
	case webhook.GroupSource:
		return Source{Type: SourceGroup, GroupID: s.GroupId, UserID: s.UserId}
	}
	return Source{}
}
