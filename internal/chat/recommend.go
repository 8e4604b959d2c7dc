package chat

import (
	"context"
	"fmt"

	"github.com/krishimitra/server/internal/knowledge"
	"github.com/krishimitra/server/internal/lang"
)

// Recommend produces a standalone recommendation for a topic, outside any
// session. The same resolution order applies: local knowledge base first,
// then the generative API with a topic fallback.
func (s *Service) Recommend(ctx context.Context, topic, language string) string {
	if answer := s.kb.Find(topic, language); answer != "" {
		return answer
	}
	if tip := s.kb.CropInfo(topic, language); tip != "" {
		return tip
	}

	var prompt string
	if knowledge.IsAgriculture(topic) {
		prompt = fmt.Sprintf(`You are an agricultural expert specializing in farming practices in India.
Provide a detailed recommendation about %s for farmers.
Your response should be practical, actionable, and specific to Indian agricultural conditions.
Please respond in %s language.`, topic, lang.Name(language))
	} else {
		prompt = fmt.Sprintf(`You are KrishiMitra AI, a helpful assistant for farmers and general users.
Please answer the following question: %s
Be informative, accurate, and helpful. If the question is not related to agriculture,
still provide a helpful response while mentioning that you specialize in agricultural topics.
Please respond in %s language.`, topic, lang.Name(language))
	}

	return s.completeWithFallback(ctx, prompt, func() string {
		return topicFallback(topic, language)
	})
}

// Translate renders text into the target language via the generative API.
// On any failure the original text is returned unchanged.
func (s *Service) Translate(ctx context.Context, text, targetLanguage string) string {
	prompt := fmt.Sprintf("Translate the following text to %s:\n\n%q\n\nOnly provide the translation, nothing else.",
		lang.Name(targetLanguage), text)

	translated, err := s.llm.GenerateContent(ctx, prompt)
	if err != nil || translated == "" {
		return text
	}
	return translated
}
