package assistant

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/krishimitra/advisory/internal/i18n"
)

// BuildSystemPrompt composes the instruction block for one turn. The
// model must reply with a bare JSON object so the caller can branch on
// is_complex.
func BuildSystemPrompt(req Request) string {
	var b strings.Builder

	b.WriteString("You are Krishi-Mitra, an expert Indian agricultural assistant.\n")
	b.WriteString("Analyze the user's question for complexity. A question is \"complex\" or \"critical\" if it involves severe symptoms, potential high financial loss, requires detailed local knowledge you might not have, or is very vague.\n")
	b.WriteString("You MUST reply ONLY with a valid JSON object in the following format. Do not include any other text, explanations, or markdown formatting.\n\n")
	b.WriteString(`{
  "is_complex": <boolean>,
  "response_text": "<A direct, helpful answer if the question is NOT complex. If it IS complex, this text should inform the user they are being redirected to an expert.>",
  "question_summary": "<A concise summary of the user's original question.>"
}`)
	b.WriteString("\n")

	if req.SoilReport != nil {
		r := req.SoilReport
		b.WriteString("\n---\nIMPORTANT CONTEXT: SOIL HEALTH REPORT\n")
		fmt.Fprintf(&b, "This is the user's soil health data from a report analyzed on %s. ", r.CreatedAt.Format("2006-01-02"))
		b.WriteString("You MUST use this information to answer any relevant questions about their soil, crops, or fertilizers. Do not ask for this information again.\nSoil Data:\n")
		fmt.Fprintf(&b, "  - PH: %.1f\n", r.PH)
		fmt.Fprintf(&b, "  - NITROGEN: %.1f\n", r.Nitrogen)
		fmt.Fprintf(&b, "  - PHOSPHORUS: %.1f\n", r.Phosphorus)
		fmt.Fprintf(&b, "  - POTASSIUM: %.1f\n", r.Potassium)
		fmt.Fprintf(&b, "  - MOISTURE: %.1f\n", r.Moisture)
		b.WriteString("---\n")
	}

	lang := i18n.Name(i18n.Language(req.Language))
	fmt.Fprintf(&b, "\nYou MUST reply in %s, using simple words. Provide short, practical, and low-cost advice. Your response_text and question_summary MUST be in %s.\n", lang, lang)

	return b.String()
}

// ParseReply decodes the model output into a Reply, tolerating the
// ```json fences Gemini wraps around structured output.
func ParseReply(raw string) (*Reply, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var reply Reply
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		return nil, err
	}
	if reply.ResponseText == "" {
		return nil, fmt.Errorf("model reply missing response_text")
	}
	return &reply, nil
}
