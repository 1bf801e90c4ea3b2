package line

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// Client wraps the SDK's messaging and blob clients behind the small method
// set the bot needs. The generated SDK methods do not take a context; the
// parameter keeps the call surface uniform for callers and fakes.
type Client struct {
	api  *messaging_api.MessagingApiAPI
	blob *messaging_api.MessagingApiBlobAPI
}

func NewClient(channelToken string) (*Client, error) {
	api, err := messaging_api.NewMessagingApiAPI(channelToken)
	if err != nil {
		return nil, fmt.Errorf("init messaging client: %w", err)
	}
	blob, err := messaging_api.NewMessagingApiBlobAPI(channelToken)
	if err != nil {
		return nil, fmt.Errorf("init blob client: %w", err)
	}
	return &Client{api: api, blob: blob}, nil
}

// Profile is a user's display profile.
type Profile struct {
	DisplayName string
	UserID      string
}

// GroupSummary describes a group chat.
type GroupSummary struct {
	GroupID   string
	GroupName string
}

// ReplyText answers an event using its reply token.
func (c *Client) ReplyText(_ context.Context, replyToken, text string) error {
	_, err := c.api.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages: []messaging_api.MessageInterface{
			messaging_api.TextMessage{Text: text},
		},
	})
	if err != nil {
		return fmt.Errorf("reply message: %w", err)
	}
	return nil
}

// PushText sends a message to a user or group without a reply token.
func (c *Client) PushText(_ context.Context, to, text string) error {
	_, err := c.api.PushMessage(&messaging_api.PushMessageRequest{
		To: to,
		Messages: []messaging_api.MessageInterface{
			messaging_api.TextMessage{Text: text},
		},
	}, "")
	if err != nil {
		return fmt.Errorf("push message: %w", err)
	}
	return nil
}

// GetProfile returns a user's display profile.
func (c *Client) GetProfile(_ context.Context, userID string) (*Profile, error) {
	resp, err := c.api.GetProfile(userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &Profile{DisplayName: resp.DisplayName, UserID: resp.UserId}, nil
}

// GetGroupSummary returns the name of a group the bot has joined.
func (c *Client) GetGroupSummary(_ context.Context, groupID string) (*GroupSummary, error) {
	resp, err := c.api.GetGroupSummary(groupID)
	if err != nil {
		return nil, fmt.Errorf("get group summary: %w", err)
	}
	return &GroupSummary{GroupID: resp.GroupId, GroupName: resp.GroupName}, nil
}

// GetGroupMemberProfile returns a group member's display profile.
func (c *Client) GetGroupMemberProfile(_ context.Context, groupID, userID string) (*Profile, error) {
	resp, err := c.api.GetGroupMemberProfile(groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("get group member profile: %w", err)
	}
	return &Profile{DisplayName: resp.DisplayName, UserID: resp.UserId}, nil
}

// GetMessageContent downloads the binary content of a message, e.g. a slip
// image.
func (c *Client) GetMessageContent(_ context.Context, messageID string) ([]byte, error) {
	resp, err := c.blob.GetMessageContent(messageID)
	if err != nil {
		return nil, fmt.Errorf("download message content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("message content status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
