// Package advisor answers free-text finance questions by forwarding them to
// a chat completion API, with canned replies when none is configured.
package advisor

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"time"

	"finboard/internal/log"
)

const (
	ResponseText        ResponseType = "text"
	ResponseTip         ResponseType = "tip"
	ResponseAlert       ResponseType = "alert"
	ResponseCelebration ResponseType = "celebration"
)

var ErrEmptyMessage = errors.New("message is required")

type ResponseType string

// Reply is what the chat endpoint returns.
type Reply struct {
	Content     string       `json:"content"`
	Type        ResponseType `json:"type"`
	Suggestions []string     `json:"suggestions"`
}

const systemPrompt = `You are a friendly and knowledgeable financial advisor inside a personal finance dashboard.

Your role is to:
- Provide practical financial guidance, budgeting tips, and encouragement
- Flag risky spending patterns and celebrate financial milestones
- Answer financial questions with empathy and expertise
- Be contextually aware of the user's financial situation
- Keep responses concise but helpful (2-3 sentences max)
- Use a supportive, encouraging tone

You should avoid:
- Giving specific investment advice or guarantees
- Being overly technical or using financial jargon
- Making predictions about market performance
- Recommending specific financial products`

const emptyCompletion = "I apologize, but I couldn't generate a response right now."

var (
	liveSuggestions = []string{
		"Tell me about my spending habits",
		"How can I save more money?",
		"Am I on track with my budget?",
	}
	fallbackSuggestions = []string{
		"Set up your budget categories",
		"Review your spending patterns",
		"Increase your emergency fund",
	}
	fallbackReplies = []Reply{
		{Content: "I understand you're looking for financial guidance! Personalized advice needs a configured language model API key. In the meantime, your dashboard shows where your money goes each month.", Type: ResponseText},
		{Content: "Great question about your finances! Once the language model API key is set up I can give more tailored answers. For now, consider reviewing your largest spending categories.", Type: ResponseTip},
		{Content: "I'm here to help with your financial questions! With the model integration enabled I'll be able to give more detailed advice based on your spending patterns and goals.", Type: ResponseText},
	}
)

// Advisor routes chat messages to a Completer or to a canned fallback.
type Advisor struct {
	completer Completer
	timeout   time.Duration
	logger    *log.Logger
}

// New returns an advisor. A nil completer means every reply is a fallback.
func New(completer Completer, timeout time.Duration, logger *log.Logger) *Advisor {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Advisor{
		completer: completer,
		timeout:   timeout,
		logger:    logger.WithComponent(log.ComponentAdvisor),
	}
}

// Configured reports whether replies come from the model.
func (a *Advisor) Configured() bool {
	return a.completer != nil
}

// Chat answers message. Upstream failures are logged and answered with a
// fallback reply, so the only error is ErrEmptyMessage.
func (a *Advisor) Chat(ctx context.Context, message string, fc *FinancialContext) (Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Reply{}, ErrEmptyMessage
	}
	if a.completer == nil {
		return Fallback(message), nil
	}

	summary := fc.Summary()
	if summary == "" {
		summary = "No financial data available."
	}
	messages := []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "system", Content: "Current user financial context: " + summary},
		{Role: "user", Content: message},
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	content, err := a.completer.Complete(callCtx, messages)
	if err != nil {
		a.logger.ErrorContext(ctx, "Chat completion failed, using fallback",
			log.FieldOperation, log.OpChat, log.FieldError, err,
			log.FieldDuration, time.Since(start).Milliseconds())
		return Fallback(message), nil
	}
	if content == "" {
		content = emptyCompletion
	}

	a.logger.DebugContext(ctx, "Chat completion received",
		log.FieldOperation, log.OpChat, log.FieldDuration, time.Since(start).Milliseconds())
	return Reply{
		Content:     content,
		Type:        Classify(content),
		Suggestions: append([]string(nil), liveSuggestions...),
	}, nil
}

// Classify picks a response type from keywords in content, first match wins:
// celebration, then alert, then tip.
func Classify(content string) ResponseType {
	lower := strings.ToLower(content)
	switch {
	case strings.Contains(lower, "congratulations") || strings.Contains(lower, "great job"):
		return ResponseCelebration
	case strings.Contains(lower, "warning") || strings.Contains(lower, "careful"):
		return ResponseAlert
	case strings.Contains(lower, "tip") || strings.Contains(lower, "consider"):
		return ResponseTip
	default:
		return ResponseText
	}
}

// Fallback returns a canned reply chosen by hashing message, so the same
// question always gets the same answer.
func Fallback(message string) Reply {
	h := fnv.New32a()
	_, _ = h.Write([]byte(message))
	r := fallbackReplies[h.Sum32()%uint32(len(fallbackReplies))]
	r.Suggestions = append([]string(nil), fallbackSuggestions...)
	return r
}
