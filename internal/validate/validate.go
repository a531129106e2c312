package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Length limits for the two query fields, counted in runes after
// trimming surrounding whitespace. The browser frontend and the CLI
// enforce the same limits before submitting; the server re-checks and
// stays authoritative.
const (
	TextMinLength     = 20
	TextMaxLength     = 5000
	QuestionMinLength = 3
	QuestionMaxLength = 300
)

// Field names the query field a FieldError refers to.
type Field string

const (
	FieldText     Field = "text"
	FieldQuestion Field = "question"
)

// FieldError is the first failed constraint of a query. Message is
// user-facing and returned to clients verbatim.
type FieldError struct {
	Field   Field
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// Query is a lecture text / question pair that passed validation, with
// surrounding whitespace already removed.
type Query struct {
	Text     string
	Question string
}

// ValidateQuery trims both fields and checks them against the length
// limits. Checks run in a fixed order and the first failure wins:
// missing text, missing question, text too short, question too short,
// text too long, question too long.
func ValidateQuery(text, question string) (Query, *FieldError) {
	text = strings.TrimSpace(text)
	question = strings.TrimSpace(question)

	if text == "" {
		return Query{}, &FieldError{
			Field:   FieldText,
			Message: "Please provide lecture text.",
		}
	}
	if question == "" {
		return Query{}, &FieldError{
			Field:   FieldQuestion,
			Message: "Please enter a question.",
		}
	}
	if utf8.RuneCountInString(text) < TextMinLength {
		return Query{}, &FieldError{
			Field:   FieldText,
			Message: "Lecture text is too short. Please provide more content.",
		}
	}
	if utf8.RuneCountInString(question) < QuestionMinLength {
		return Query{}, &FieldError{
			Field:   FieldQuestion,
			Message: "Question is too short. Please be more specific.",
		}
	}
	if utf8.RuneCountInString(text) > TextMaxLength {
		return Query{}, &FieldError{
			Field:   FieldText,
			Message: fmt.Sprintf("Lecture text exceeds maximum length (%d characters). Please shorten it.", TextMaxLength),
		}
	}
	if utf8.RuneCountInString(question) > QuestionMaxLength {
		return Query{}, &FieldError{
			Field:   FieldQuestion,
			Message: fmt.Sprintf("Question exceeds maximum length (%d characters). Please shorten it.", QuestionMaxLength),
		}
	}

	return Query{Text: text, Question: question}, nil
}
