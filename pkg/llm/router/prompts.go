package router

import (
	"fmt"
	"strings"

	"github.com/papercomputeco/disrello/pkg/llm"
)

// Temperatures for the extraction prompts.
const (
	TaskifyTemperature   = 0.2
	SummariseTemperature = 0.2
)

const chatSystem = `You are a helpful Discord chatbot.
Rules:
- Reply naturally and concisely (one message).
- Don't invent tasks unless asked.
- If asked to extract tasks, only extract what was explicitly stated.
`

const taskifySystem = `You convert a short Discord conversation into TODO tasks.
STRICT RULES:
- ONLY extract tasks explicitly stated or clearly intended.
- DO NOT add suggestions or planning steps.
- Output ONLY a bullet list using '-' bullets. No headings.
- Max 5 bullets.
- If no clear tasks, output exactly: - No clear tasks
`

const summariseSystem = `You summarise a Discord channel discussion.
Output format (strict):
Topic: <one line>
Key points:
- ...
Decisions:
- ... (or - None)
Open questions:
- ... (or - None)
Keep it concise. Do not invent facts.`

// Chat builds the free-form chat prompt with recent channel lines as
// context.
func Chat(providerName, model string, temperature float64, prompt string, contextLines []string) llm.Prompt {
	var ctxText strings.Builder
	for _, c := range contextLines {
		if c == "" {
			continue
		}
		if ctxText.Len() > 0 {
			ctxText.WriteByte('\n')
		}
		ctxText.WriteString("- " + c)
	}
	return llm.Prompt{
		Provider:    providerName,
		Model:       model,
		System:      chatSystem,
		User:        fmt.Sprintf("Recent channel context:\n%s\n\nUser message:\n%s", ctxText.String(), prompt),
		Temperature: temperature,
	}
}

// Taskify builds the prompt that turns a conversation into bullet tasks.
func Taskify(providerName, model, conversation string) llm.Prompt {
	return llm.Prompt{
		Provider:    providerName,
		Model:       model,
		System:      taskifySystem,
		User:        fmt.Sprintf("Conversation:\n%s\n\nTasks:", conversation),
		Temperature: TaskifyTemperature,
	}
}

// Summarise builds the strict-format summary prompt. At most ten keywords
// are passed along as hints.
func Summarise(providerName, model, conversation string, keywords []string) llm.Prompt {
	if len(keywords) > 10 {
		keywords = keywords[:10]
	}
	return llm.Prompt{
		Provider:    providerName,
		Model:       model,
		System:      summariseSystem,
		User:        fmt.Sprintf("Keywords (optional): %s\n\nConversation:\n%s\n\nSummary:", strings.Join(keywords, ", "), conversation),
		Temperature: SummariseTemperature,
	}
}
