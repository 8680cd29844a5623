package rag

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/brastorne/lebo/internal/chat"
	"github.com/brastorne/lebo/internal/knowledge"
)

// noContextPlaceholder stands in for the retrieval context when nothing
// qualifies. Retrieval emptiness is not an error; the persona block tells
// the model to escalate when the context cannot answer.
const noContextPlaceholder = "No specific service information found."

// promptTemplate is the full prompt: persona and behavioral rules, the
// literal user question, the retrieval context, then the serialized
// trailing history window.
const promptTemplate = `You are the Brastorne AI Assistant, a professional and helpful guide for www.brastorne.com.
Your goal is to explain how Brastorne reaches the unconnected in Africa through services like mAgri, Mpotsa, and Vuka.

User Question: %q

Context from Brastorne Documentation:
%s

Chat History:
%s

Instructions:
- Use the provided context to answer the question accurately.
- If the user asks in Setswana, respond in Setswana. If in English, respond in English.
- If the answer isn't in the context, tell the user to contact the Brastorne office at +267 390 1234.
- Keep responses concise and professional.
- Bold key information like USSD codes (e.g., *157#).`

// AssembleContext renders retrieved entries as text blocks joined by
// blank lines.
func AssembleContext(results []knowledge.Result) string {
	if len(results) == 0 {
		return noContextPlaceholder
	}

	blocks := make([]string, len(results))
	for i, r := range results {
		blocks[i] = fmt.Sprintf("Service: %s\nContent: %s", r.Entry.ServiceName, r.Entry.Content)
	}
	return strings.Join(blocks, "\n\n")
}

// BuildPrompt combines persona, question, context and history into one
// prompt string. History is passed through unmodified; the caller already
// bounds it to the trailing window.
func BuildPrompt(query, contextText string, history []chat.Message) (string, error) {
	serialized, err := json.Marshal(history)
	if err != nil {
		return "", fmt.Errorf("serializing history: %w", err)
	}
	return fmt.Sprintf(promptTemplate, query, contextText, serialized), nil
}
