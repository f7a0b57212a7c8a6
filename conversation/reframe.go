package conversation

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/mdbplc/advisor/common/logger"
	"github.com/mdbplc/advisor/llm"
	"github.com/mdbplc/advisor/schema"
)

var confirmations = map[string]struct{}{
	"yes": {}, "ok": {}, "okay": {}, "sure": {}, "go ahead": {}, "please do": {},
	"proceed": {}, "alright": {}, "tell me more": {}, "elaborate": {},
	"how can i apply for it": {}, "how do i apply": {}, "apply for it": {},
	"more info": {}, "details please": {}, "what's the process": {},
	"what about it": {}, "this": {}, "that": {}, "it": {},
	"guide me": {}, "next steps": {}, "what's next": {}, "i want to know more": {},
	"i want to apply": {}, "more details": {}, "more information": {},
	"please continue": {}, "continue": {}, "go on": {},
}

var rejections = map[string]struct{}{
	"no": {}, "not now": {}, "maybe later": {}, "cancel": {}, "never mind": {},
}

// ClosingRemark ends a declined follow-up without a generation call.
const ClosingRemark = "No follow-up needed. Thank you!"

var pronounRe = regexp.MustCompile(`\b(it|this|that)\b`)

const reframeSystemPrompt = "You are a bank assistant. Your task is to rephrase vague replies " +
	"like 'yes', 'how do I apply for it', or 'tell me more' into clear, complete follow-up requests. " +
	"Make sure the output is specific to the last topic. Be clear and concise."

// Reframe rewrites a vague follow-up into an explicit query. The boolean
// reports whether any reframing applied; when false the caller should use
// the original message unchanged.
func Reframe(ctx context.Context, provider llm.Provider, message, topic, lastBotMessage string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(message))

	if _, ok := rejections[lower]; ok {
		return ClosingRemark, true
	}
	if topic == "" {
		return "", false
	}

	if pronounRe.MatchString(lower) {
		return strings.TrimSpace(pronounRe.ReplaceAllString(lower, topic)), true
	}

	if _, ok := confirmations[lower]; ok {
		messages := []schema.ChatMessage{
			{Role: schema.RoleSystem, Content: reframeSystemPrompt},
			{Role: schema.RoleUser, Content: fmt.Sprintf(
				"The user said: '%s'. The previous bot message was: '%s'. The topic is: '%s'.\n\nPlease convert the user reply into a clear follow-up request.",
				lower, lastBotMessage, topic)},
		}
		out, err := provider.Chat(ctx, messages)
		if err != nil || strings.TrimSpace(out) == "" {
			if err != nil {
				logger.Warnf("conversation: reframe generation failed: %v", err)
			}
			return fmt.Sprintf("Please continue explaining about %s.", topic), true
		}
		return strings.TrimSpace(out), true
	}

	return "", false
}
