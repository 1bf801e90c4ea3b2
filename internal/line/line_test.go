package line

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func signedRequest(secret string, body []byte) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/callback", bytes.NewReader(body))
	req.Header.Set("X-Line-Signature", sign(secret, body))
	return req
}

func TestParseRequestConvertsEvents(t *testing.T) {
	body := []byte(`{"destination":"Udest","events":[
		{"type":"message","replyToken":"rt1","source":{"type":"group","groupId":"G1","userId":"U1"},"message":{"id":"m1","type":"image"}},
		{"type":"message","replyToken":"rt2","source":{"type":"user","userId":"U2"},"message":{"id":"m2","type":"text","text":"ping"}},
		{"type":"follow","replyToken":"rt3","source":{"type":"user","userId":"U3"}},
		{"type":"join","replyToken":"rt4","source":{"type":"group","groupId":"G2"}}
	]}`)

	events, err := ParseRequest("secret", signedRequest("secret", body))
	require.NoError(t, err)
	require.Len(t, events, 4)

	assert.Equal(t, EventMessage, events[0].Type)
	assert.Equal(t, MessageImage, events[0].Message.Type)
	assert.Equal(t, "m1", events[0].Message.ID)
	assert.Equal(t, "G1", events[0].SourceID())
	assert.Equal(t, "U1", events[0].Source.UserID)

	assert.Equal(t, MessageText, events[1].Message.Type)
	assert.Equal(t, "ping", events[1].Message.Text)
	assert.Equal(t, "U2", events[1].SourceID())

	assert.Equal(t, EventFollow, events[2].Type)
	assert.Equal(t, "U3", events[2].SourceID())

	assert.Equal(t, EventJoin, events[3].Type)
	assert.Equal(t, "G2", events[3].SourceID())
}

func TestParseRequestRejectsBadSignature(t *testing.T) {
	body := []byte(`{"events":[]}`)
	req := httptest.NewRequest(http.MethodPost, "/callback", bytes.NewReader(body))
	req.Header.Set("X-Line-Signature", "tampered")

	_, err := ParseRequest("secret", req)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestSourceIDPrefersGroup(t *testing.T) {
	ev := Event{Source: Source{Type: SourceGroup, GroupID: "G1", UserID: "U1"}}
	assert.Equal(t, "G1", ev.SourceID())

	ev = Event{Source: Source{Type: SourceUser, UserID: "U1"}}
	assert.Equal(t, "U1", ev.SourceID())
}

func apiClient(t *testing.T, srvURL string) *Client {
	t.Helper()
	api, err := messaging_api.NewMessagingApiAPI("token", messaging_api.WithEndpoint(srvURL))
	require.NoError(t, err)
	return &Client{api: api}
}

func TestReplyTextSendsTokenAndMessage(t *testing.T) {
	var gotPath, gotAuth, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	err := apiClient(t, srv.URL).ReplyText(context.Background(), "rt-1", "สวัสดี")
	require.NoError(t, err)
	assert.Equal(t, "/v2/bot/message/reply", gotPath)
	assert.Equal(t, "Bearer token", gotAuth)
	assert.Contains(t, gotBody, `"replyToken":"rt-1"`)
	assert.Contains(t, gotBody, "สวัสดี")
}

func TestReplyTextReportsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Invalid reply token"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	err := apiClient(t, srv.URL).ReplyText(context.Background(), "expired", "x")
	require.Error(t, err)
}

func TestGetProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/bot/profile/U1", r.URL.Path)
		w.Write([]byte(`{"displayName":"สมศรี","userId":"U1"}`))
	}))
	defer srv.Close()

	p, err := apiClient(t, srv.URL).GetProfile(context.Background(), "U1")
	require.NoError(t, err)
	assert.Equal(t, "สมศรี", p.DisplayName)
	assert.Equal(t, "U1", p.UserID)
}

func TestGetMessageContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/bot/message/m1/content", r.URL.Path)
		w.Write([]byte{0xff, 0xd8, 0xff})
	}))
	defer srv.Close()

	blob, err := messaging_api.NewMessagingApiBlobAPI("token", messaging_api.WithBlobEndpoint(srv.URL))
	require.NoError(t, err)
	c := &Client{blob: blob}

	data, err := c.GetMessageContent(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, data)
}
