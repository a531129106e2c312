package ask

import (
	"fmt"

	"github.com/metropolia-apps/faq-core/internal/validate"
)

// DefaultSystemPrompt frames the assistant for course-material
// questions. Deployments can override it via prompt.system in the
// config file.
const DefaultSystemPrompt = `You are an AI assistant designed to help students and staff at Metropolia UAS.
Your role is to help with course materials, lecture notes, and educational questions.
Provide clear, concise, and helpful answers. If the question is outside the scope of the provided text, say so.
Keep responses focused and structured.`

const userPromptTemplate = `Based on the following course material, please answer the question.

Course Material:
%s

Question: %s

Provide a clear and concise answer.`

// buildUserPrompt renders the user message for a validated query.
func buildUserPrompt(q validate.Query) string {
	return fmt.Sprintf(userPromptTemplate, q.Text, q.Question)
}
