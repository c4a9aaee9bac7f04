package routing

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultSystemPrompt is sent to the general LLM when no personality applies.
const DefaultSystemPrompt = `Sen BİLGİN adında yardımsever bir yapay zeka asistanısın. Yanıtlarını her zaman akıcı, doğru ve anlaşılır Türkçe ile ver. Emin olmadığın konularda bunu açıkça belirt.`

// currentInfoFallbackNote is appended when web search failed and the general
// LLM answers a time-sensitive question from its own knowledge.
const currentInfoFallbackNote = `Kullanıcı güncel bir bilgi soruyor ancak canlı arama şu anda kullanılamıyor. Bildiğin en son bilgiyi ver ve bilginin güncel olmayabileceğini kısaca belirt.`

// personalityMessage prepends a personality prompt to the user's message for
// providers that take a single message field.
func personalityMessage(personality, message string) string {
	if personality == "" {
		return message
	}
	return personality + "\n\nKullanıcının mesajı: " + message
}

// fileMessage injects extracted file text into the outgoing message.
func fileMessage(file *FileContext, message string, maxChars int) string {
	if file == nil || strings.TrimSpace(file.Text) == "" {
		return message
	}
	text := truncateRunes(strings.TrimSpace(file.Text), maxChars)

	var sb strings.Builder
	sb.WriteString("Kullanıcının yüklediği dosya: ")
	sb.WriteString(file.Name)
	sb.WriteString("\n\nDosya içeriği:\n")
	sb.WriteString(text)
	sb.WriteString("\n\nKullanıcının sorusu: ")
	sb.WriteString(message)
	return sb.String()
}

func truncateRunes(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "…"
}

// SynthesizeSnippets joins web results into raw text for the localizer. Links
// are left out so no source attribution reaches the answer.
func SynthesizeSnippets(results []SearchResult, limit int) string {
	if limit <= 0 || limit > len(results) {
		limit = len(results)
	}
	var sb strings.Builder
	for _, res := range results[:limit] {
		snippet := strings.TrimSpace(res.Snippet)
		if snippet == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		if title := strings.TrimSpace(res.Title); title != "" {
			fmt.Fprintf(&sb, "%s: %s", title, snippet)
		} else {
			sb.WriteString(snippet)
		}
	}
	return sb.String()
}
