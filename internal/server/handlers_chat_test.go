package server

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishimitra/advisory/internal/assistant"
	"github.com/krishimitra/advisory/pkg/models"
)

func TestChat_AssistantReply(t *testing.T) {
	env := newTestEnv(t)
	farmer := env.addUser(t, models.User{MobileNumber: "9876543210", FirstName: "Sita", Role: models.RoleUser, Language: "en"})
	env.advisor.reply = &assistant.Reply{
		ResponseText:    "Sow rice after the first monsoon rain.",
		QuestionSummary: "rice sowing time",
	}

	rec := env.do(t, http.MethodPost, "/api/chat", map[string]interface{}{
		"userId":  farmer.ID,
		"message": "When should I sow rice?",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "assistant", body["source"])
	assert.Equal(t, "Sow rice after the first monsoon rain.", body["response_text"])
	assert.Equal(t, false, body["is_complex"])
	assert.NotEmpty(t, body["chat_id"])

	// Both utterances are persisted on the session.
	chat, err := env.chats.GetChat(context.Background(), body["chat_id"].(string))
	require.NoError(t, err)
	require.Len(t, chat.Messages, 2)
	assert.Equal(t, models.ChatRoleUser, chat.Messages[0].Role)
	assert.Equal(t, models.ChatRoleBot, chat.Messages[1].Role)
}

func TestChat_ComplexReturnsEscalationDraft(t *testing.T) {
	env := newTestEnv(t)
	farmer := env.addUser(t, models.User{MobileNumber: "9876543210", FirstName: "Sita", Role: models.RoleUser})
	env.advisor.reply = &assistant.Reply{
		IsComplex:       true,
		ResponseText:    "This question seems complex. Redirecting you to an expert...",
		QuestionSummary: "entire crop wilting overnight",
	}

	rec := env.do(t, http.MethodPost, "/api/chat", map[string]interface{}{
		"userId":  farmer.ID,
		"message": "My entire crop wilted overnight, what do I do?",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["is_complex"])

	draft, ok := body["escalation_draft"].(map[string]interface{})
	require.True(t, ok, "expected escalation_draft in response")
	assert.Equal(t, "entire crop wilting overnight", draft["title"])
	assert.Equal(t, "My entire crop wilted overnight, what do I do?", draft["details"])
}

func TestChat_ExpertAnswerShortCircuitsModel(t *testing.T) {
	env := newTestEnv(t)
	farmer := env.addUser(t, models.User{MobileNumber: "9876543210", FirstName: "Sita", Role: models.RoleUser, Language: "en"})
	env.questions.expertMatch = &models.EscalatedQuestion{
		ID:     3,
		Title:  "Leaf curl on tomato",
		Status: models.StatusResolved,
		Answer: "Spray neem oil twice a week.",
	}

	rec := env.do(t, http.MethodPost, "/api/chat", map[string]interface{}{
		"userId":  farmer.ID,
		"message": "leaf curl tomato",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "expert", body["source"])
	assert.Contains(t, body["response_text"], "An expert has provided an answer for a similar question:")
	assert.Contains(t, body["response_text"], "Spray neem oil twice a week.")
	assert.Zero(t, env.advisor.calls, "model must not be called on an expert hit")
}

func TestChat_AdvisorFailure(t *testing.T) {
	env := newTestEnv(t)
	farmer := env.addUser(t, models.User{MobileNumber: "9876543210", FirstName: "Sita", Role: models.RoleUser, Language: "en"})
	env.advisor.err = fmt.Errorf("model unavailable")

	rec := env.do(t, http.MethodPost, "/api/chat", map[string]interface{}{
		"userId":  farmer.ID,
		"message": "When should I sow rice?",
	})

	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Please check your connection or ask again.", decodeBody(t, rec)["error"])
}

func TestChat_PassesSoilReportAndHistory(t *testing.T) {
	env := newTestEnv(t)
	farmer := env.addUser(t, models.User{MobileNumber: "9876543210", FirstName: "Sita", Role: models.RoleUser, Language: "hi"})
	env.soil.reports = map[int64]*models.SoilReport{
		farmer.ID: {UserID: farmer.ID, PH: 6.5, Nitrogen: 140, CreatedAt: time.Now()},
	}

	first := env.do(t, http.MethodPost, "/api/chat", map[string]interface{}{
		"userId":  farmer.ID,
		"message": "Which fertilizer for wheat?",
	})
	require.Equal(t, http.StatusOK, first.Code)
	chatID := decodeBody(t, first)["chat_id"].(string)

	second := env.do(t, http.MethodPost, "/api/chat", map[string]interface{}{
		"userId":  farmer.ID,
		"chatId":  chatID,
		"message": "And how much per acre?",
	})
	require.Equal(t, http.StatusOK, second.Code)

	req := env.advisor.lastReq
	require.NotNil(t, req)
	assert.Equal(t, "And how much per acre?", req.Message)
	assert.Equal(t, "hi", req.Language)
	require.NotNil(t, req.SoilReport)
	assert.InDelta(t, 6.5, req.SoilReport.PH, 0.01)
	// History carries the first turn, user question then bot reply.
	require.Len(t, req.History, 2)
	assert.Equal(t, "Which fertilizer for wheat?", req.History[0].Content)
}

func TestChat_UnknownChatID(t *testing.T) {
	env := newTestEnv(t)
	farmer := env.addUser(t, models.User{MobileNumber: "9876543210", FirstName: "Sita", Role: models.RoleUser})

	rec := env.do(t, http.MethodPost, "/api/chat", map[string]interface{}{
		"userId":  farmer.ID,
		"chatId":  "no-such-chat",
		"message": "hello",
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChat_ForeignChatIsHidden(t *testing.T) {
	env := newTestEnv(t)
	owner := env.addUser(t, models.User{MobileNumber: "9876543210", FirstName: "Sita", Role: models.RoleUser})
	other := env.addUser(t, models.User{MobileNumber: "9876543211", FirstName: "Gita", Role: models.RoleUser})

	chat, err := env.chats.CreateChat(context.Background(), owner.ID, "my chat")
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/api/chat", map[string]interface{}{
		"userId":  other.ID,
		"chatId":  chat.ID,
		"message": "peek",
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChat_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/chat", map[string]interface{}{"userId": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChats_ListAndDelete(t *testing.T) {
	env := newTestEnv(t)
	farmer := env.addUser(t, models.User{MobileNumber: "9876543210", FirstName: "Sita", Role: models.RoleUser})

	chat, err := env.chats.CreateChat(context.Background(), farmer.ID, "fertilizer advice")
	require.NoError(t, err)

	rec := env.do(t, http.MethodGet, fmt.Sprintf("/api/chats?userId=%d", farmer.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.EqualValues(t, 1, body["count"])

	rec = env.do(t, http.MethodDelete, "/api/chats/"+chat.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/chats/"+chat.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChat_LongFirstMessageTruncatedIntoTitle(t *testing.T) {
	env := newTestEnv(t)
	farmer := env.addUser(t, models.User{MobileNumber: "9876543210", FirstName: "Sita", Role: models.RoleUser})

	long := ""
	for i := 0; i < 20; i++ {
		long += "very long question "
	}
	rec := env.do(t, http.MethodPost, "/api/chat", map[string]interface{}{
		"userId":  farmer.ID,
		"message": long,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	chats, err := env.chats.ListChats(context.Background(), farmer.ID)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.LessOrEqual(t, len([]rune(chats[0].Title)), chatTitleLimit+3)
}
