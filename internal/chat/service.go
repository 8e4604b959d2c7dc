// Package chat implements the assistant's query resolution pipeline:
// greeting matching, local knowledge lookup, domain classification, and the
// remote completion fallback chain.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/krishimitra/server/internal/domain"
	"github.com/krishimitra/server/internal/knowledge"
	"github.com/krishimitra/server/internal/lang"
	"github.com/krishimitra/server/internal/llm"
)

// historyWindow caps how many trailing messages are rendered into the
// completion prompt.
const historyWindow = 10

// Service resolves user input into assistant replies. All methods uphold
// the pipeline contract: a non-empty reply is always produced, regardless
// of credential, network, or response-shape failures.
type Service struct {
	llm    llm.Client
	kb     *knowledge.Base
	logger *slog.Logger
}

// NewService creates the chat service.
func NewService(client llm.Client, kb *knowledge.Base, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{llm: client, kb: kb, logger: logger}
}

// SendMessage appends the user message and a synthesized assistant reply to
// the session and returns the extended copy. It never returns an error:
// every failure mode inside the pipeline degrades to a canned reply.
//
// Resolution order: greeting, local knowledge base, crop tips, remote
// completion with topic fallback.
func (s *Service) SendMessage(ctx context.Context, sess *domain.ChatSession, message string) *domain.ChatSession {
	updated := sess.Append(domain.NewMessage(domain.RoleUser, message))

	if reply := matchGreeting(message, sess.Language); reply != "" {
		return updated.Append(domain.NewMessage(domain.RoleAssistant, reply))
	}

	if answer := s.kb.Find(message, sess.Language); answer != "" {
		return updated.Append(domain.NewMessage(domain.RoleAssistant, answer))
	}
	if tip := s.kb.CropInfo(message, sess.Language); tip != "" {
		return updated.Append(domain.NewMessage(domain.RoleAssistant, tip))
	}

	prompt := s.buildPrompt(updated, message)
	reply := s.completeWithFallback(ctx, prompt, func() string {
		return topicFallback(message, sess.Language)
	})

	return updated.Append(domain.NewMessage(domain.RoleAssistant, reply))
}

// buildPrompt renders the system context, the trailing conversation window,
// the latest message, and the target-language instruction.
func (s *Service) buildPrompt(sess *domain.ChatSession, message string) string {
	var systemContext string
	if knowledge.IsAgriculture(message) {
		systemContext = localized(agriContexts, sess.Language)
	} else {
		systemContext = localized(generalContexts, sess.Language)
	}

	var history strings.Builder
	for i, msg := range sess.Recent(historyWindow) {
		if i > 0 {
			history.WriteByte('\n')
		}
		if msg.Role == domain.RoleUser {
			history.WriteString("User: ")
		} else {
			history.WriteString("Assistant: ")
		}
		history.WriteString(msg.Content)
	}

	return fmt.Sprintf("%s\n\nConversation history:\n%s\n\nUser's latest message: %s\n\nPlease respond in %s.",
		systemContext, history.String(), message, lang.Name(sess.Language))
}

// completeWithFallback wraps a remote completion so the caller always gets
// text. The required fallback producer makes the "never throw" contract
// structural: there is no code path that surfaces the remote error.
func (s *Service) completeWithFallback(ctx context.Context, prompt string, fallback func() string) string {
	text, err := s.llm.GenerateContent(ctx, prompt)
	if err != nil {
		if errors.Is(err, llm.ErrNoCredential) {
			s.logger.Debug("Generative API key not configured, using fallback reply")
		} else {
			s.logger.Warn("Generative API call failed, using fallback reply", "error", err)
		}
		return fallback()
	}
	if text == "" {
		return fallback()
	}
	return text
}

// topicFallback picks a canned paragraph matching the message topic, tested
// in English, Hindi and Marathi, else the generic apology.
func topicFallback(message, language string) string {
	lowered := strings.ToLower(message)
	switch {
	case strings.Contains(lowered, "weather") || strings.Contains(lowered, "forecast"):
		return localized(weatherFallbacks, language)
	case strings.Contains(lowered, "soil") || strings.Contains(lowered, "मिट्टी") || strings.Contains(lowered, "माती"):
		return localized(soilFallbacks, language)
	case strings.Contains(lowered, "crop") || strings.Contains(lowered, "फसल") || strings.Contains(lowered, "पीक"):
		return localized(cropFallbacks, language)
	default:
		return localized(errorMessages, language)
	}
}

// matchGreeting returns the canned greeting reply when the message is a
// greeting in any supported language, localized to the session language.
// The empty string means no match.
func matchGreeting(message, language string) string {
	normalized := strings.ToLower(strings.TrimSpace(message))
	for _, words := range greetings {
		for _, g := range words {
			if normalized == g || strings.HasPrefix(normalized, g+" ") {
				return localized(greetingReplies, language)
			}
		}
	}
	return ""
}
