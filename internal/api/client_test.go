package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type staticTokens struct {
	token string
}

func (s *staticTokens) Token() (string, bool) {
	return s.token, s.token != ""
}

type recordedRequest struct {
	path          string
	authorization string
	body          map[string]any
}

// chatServer records chat requests and answers with the given payload.
func chatServer(t *testing.T, status int, payload string) (*httptest.Server, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.path = r.URL.Path
		rec.authorization = r.Header.Get("Authorization")
		rec.body = nil
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&rec.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(server.Close)
	return server, rec
}

const fullChatResponse = `{
	"messageId": "m1",
	"response": "Hi there",
	"sessionId": "s1",
	"timestamp": "2024-03-01T10:00:05Z",
	"intent": "greeting",
	"confidence": 0.93,
	"suggestions": ["a", "b"]
}`

func TestSendMessagePublicRequestShape(t *testing.T) {
	server, rec := chatServer(t, http.StatusOK, fullChatResponse)
	client := NewClient(server.URL, nil)

	_, err := client.SendMessagePublic(context.Background(), "Hello", "")
	require.NoError(t, err)

	require.Equal(t, "/api/chat/message/public", rec.path)
	require.Empty(t, rec.authorization)
	require.Equal(t, "Hello", rec.body["message"])
	// First turn: sessionId is present and explicitly null.
	v, present := rec.body["sessionId"]
	require.True(t, present)
	require.Nil(t, v)
}

func TestSendMessageCarriesSessionAndBearer(t *testing.T) {
	server, rec := chatServer(t, http.StatusOK, fullChatResponse)
	client := NewClient(server.URL, &staticTokens{token: "tok-123"})

	_, err := client.SendMessage(context.Background(), "More", "s1")
	require.NoError(t, err)

	require.Equal(t, "/api/chat/message", rec.path)
	require.Equal(t, "Bearer tok-123", rec.authorization)
	require.Equal(t, "s1", rec.body["sessionId"])
}

func TestBearerAttachedWheneverTokenPresent(t *testing.T) {
	// The interceptor keys on token presence, not on the endpoint.
	server, rec := chatServer(t, http.StatusOK, fullChatResponse)
	client := NewClient(server.URL, &staticTokens{token: "tok-123"})

	_, err := client.SendMessagePublic(context.Background(), "Hello", "")
	require.NoError(t, err)
	require.Equal(t, "Bearer tok-123", rec.authorization)
}

func TestSendMessageDecodesFullReply(t *testing.T) {
	server, _ := chatServer(t, http.StatusOK, fullChatResponse)
	client := NewClient(server.URL, nil)

	reply, err := client.SendMessagePublic(context.Background(), "Hello", "")
	require.NoError(t, err)

	require.Equal(t, "m1", reply.MessageID)
	require.Equal(t, "Hi there", reply.Response)
	require.Equal(t, "s1", reply.SessionID)
	require.Equal(t, "2024-03-01T10:00:05Z", reply.Timestamp.Format("2006-01-02T15:04:05Z07:00"))
	require.Equal(t, "greeting", reply.Intent)
	require.NotNil(t, reply.Confidence)
	require.InDelta(t, 0.93, *reply.Confidence, 1e-9)
	require.Equal(t, []string{"a", "b"}, reply.Suggestions)
}

func TestSendMessageDefaultsOptionalFields(t *testing.T) {
	server, _ := chatServer(t, http.StatusOK, `{
		"messageId": "m1",
		"response": "Hi",
		"sessionId": "s1",
		"timestamp": "2024-03-01T10:00:05Z"
	}`)
	client := NewClient(server.URL, nil)

	reply, err := client.SendMessagePublic(context.Background(), "Hello", "")
	require.NoError(t, err)
	require.Empty(t, reply.Intent)
	require.Nil(t, reply.Confidence)
	require.NotNil(t, reply.Suggestions)
	require.Empty(t, reply.Suggestions)
}

func TestSendMessageRejectsMalformedPayload(t *testing.T) {
	cases := map[string]string{
		"bad timestamp":    `{"messageId":"m1","response":"Hi","sessionId":"s1","timestamp":"yesterday"}`,
		"missing ids":      `{"response":"Hi","timestamp":"2024-03-01T10:00:05Z"}`,
		"not json":         `<html>gateway error</html>`,
		"wrong value type": `{"messageId":"m1","response":"Hi","sessionId":"s1","timestamp":"2024-03-01T10:00:05Z","confidence":"high"}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			server, _ := chatServer(t, http.StatusOK, payload)
			client := NewClient(server.URL, nil)

			_, err := client.SendMessagePublic(context.Background(), "Hello", "")
			require.Error(t, err)
		})
	}
}

func TestSendMessageNonOKIsStatusError(t *testing.T) {
	server, _ := chatServer(t, http.StatusBadGateway, `upstream down`)
	client := NewClient(server.URL, nil)

	_, err := client.SendMessagePublic(context.Background(), "Hello", "")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
}

func TestLogin(t *testing.T) {
	server, rec := chatServer(t, http.StatusOK, `{"accessToken":"tok-xyz","tokenType":"Bearer"}`)
	client := NewClient(server.URL, nil)

	creds, err := client.Login(context.Background(), "demo", "password123")
	require.NoError(t, err)
	require.Equal(t, "/api/auth/login", rec.path)
	require.Equal(t, "demo", rec.body["username"])
	require.Equal(t, "password123", rec.body["password"])
	require.Equal(t, "tok-xyz", creds.AccessToken)
	require.Equal(t, "Bearer", creds.TokenType)
}

func TestLoginRejected(t *testing.T) {
	server, _ := chatServer(t, http.StatusUnauthorized, ``)
	client := NewClient(server.URL, nil)

	_, err := client.Login(context.Background(), "demo", "wrong")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
}

func TestRegister(t *testing.T) {
	server, rec := chatServer(t, http.StatusOK, `User registered successfully`)
	client := NewClient(server.URL, nil)

	require.NoError(t, client.Register(context.Background(), "newuser", "pw"))
	require.Equal(t, "/api/auth/register", rec.path)
}

func TestRegisterConflict(t *testing.T) {
	server, _ := chatServer(t, http.StatusBadRequest, `Registration failed`)
	client := NewClient(server.URL, nil)

	err := client.Register(context.Background(), "demo", "pw")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, "Registration failed", statusErr.Body)
}

func TestListAndGetSessions(t *testing.T) {
	server, rec := chatServer(t, http.StatusOK, `[
		{"sessionId":"abcd1234efgh","userId":"demo","createdAt":"2024-03-01T09:00:00","lastActivity":"2024-03-01T10:00:00","status":"ACTIVE","messages":[]}
	]`)
	client := NewClient(server.URL, &staticTokens{token: "tok"})

	sessions, err := client.ListSessions(context.Background())
	require.NoError(t, err)
	require.Equal(t, "/api/sessions", rec.path)
	require.Equal(t, "Bearer tok", rec.authorization)
	require.Len(t, sessions, 1)
	require.Equal(t, "abcd1234", sessions[0].ShortID())

	server2, rec2 := chatServer(t, http.StatusOK, `{"sessionId":"s1","userId":"demo","messages":[{"content":"hi","type":"USER","sender":"demo","timestamp":"2024-03-01T09:00:01"}]}`)
	client2 := NewClient(server2.URL, &staticTokens{token: "tok"})

	session, err := client2.GetSession(context.Background(), "s1")
	require.NoError(t, err)
	require.Equal(t, "/api/sessions/s1", rec2.path)
	require.Len(t, session.Messages, 1)
	require.Equal(t, "USER", session.Messages[0].Type)
}
