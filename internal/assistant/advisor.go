// Package assistant implements the AI advisory flow: build a prompt
// around the farmer's question, soil context and conversation history,
// call Gemini, and parse the structured reply.
package assistant

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/krishimitra/advisory/pkg/models"
)

// Request carries everything the advisor needs for one turn.
type Request struct {
	Message    string
	Language   string
	History    []models.ChatMessage
	SoilReport *models.SoilReport
}

// Reply is the structured answer the model is instructed to return.
type Reply struct {
	IsComplex       bool   `json:"is_complex"`
	ResponseText    string `json:"response_text"`
	QuestionSummary string `json:"question_summary"`
}

// Advisor wraps the Gemini client.
type Advisor struct {
	client *genai.Client
	model  string
}

// New creates an Advisor backed by the Gemini API.
func New(ctx context.Context, apiKey, model string) (*Advisor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Advisor{client: client, model: model}, nil
}

// historyRole maps a stored chat role onto the model's conversation
// role. Anything that is not the bot speaks as the user.
func historyRole(role models.ChatRole) genai.Role {
	if role == models.ChatRoleBot {
		return genai.RoleModel
	}
	return genai.RoleUser
}

// Ask sends one advisory turn to the model and parses its JSON reply.
// No retry is attempted; the caller surfaces failures to the user.
func (a *Advisor) Ask(ctx context.Context, req Request) (*Reply, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(BuildSystemPrompt(req), genai.RoleUser),
		genai.NewContentFromText("Ok, I am Krishi-Mitra. I will help.", genai.RoleModel),
	}
	for _, msg := range req.History {
		contents = append(contents, genai.NewContentFromText(msg.Content, historyRole(msg.Role)))
	}
	contents = append(contents, genai.NewContentFromText(req.Message, genai.RoleUser))

	resp, err := a.client.Models.GenerateContent(ctx, a.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	raw := resp.Text()
	if raw == "" {
		return nil, fmt.Errorf("empty model response")
	}

	reply, err := ParseReply(raw)
	if err != nil {
		return nil, fmt.Errorf("parse model response: %w", err)
	}
	return reply, nil
}
