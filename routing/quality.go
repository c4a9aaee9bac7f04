package routing

import (
	"strings"
	"unicode/utf8"
)

const (
	noAnswerMarker = "no_answer"
	sourcesMarker  = "sources:"

	// minAdequateLen is the shortest trimmed reply (in runes) that can be used.
	minAdequateLen = 10
)

// refusalPhrases mean the provider could not answer. Matched case-insensitively.
var refusalPhrases = []string{
	"bilmiyorum",
	"bilgim yok",
	"bilgiye sahip değilim",
	"bilgi bulunamadı",
	"bilgi bulamadım",
	"erişimim yok",
	"erişemiyorum",
	"yanıt veremiyorum",
	"cevap veremiyorum",
	"yardımcı olamıyorum",
	"üzgünüm",
	"maalesef",
	"i don't know",
	"i do not know",
	"i can't access",
	"i cannot access",
	"i don't have access",
	"i do not have access",
	"i couldn't find",
	"i could not find",
	"no relevant information",
	"not in the provided context",
	"i'm sorry",
	"sorry",
	"unable to answer",
}

// IsAdequate reports whether a retrieval reply can be shown to the user. A
// false result means the router should move to the next provider.
func IsAdequate(reply string) bool {
	_, ok := InadequateReason(reply)
	return !ok
}

// InadequateReason explains why a reply fails the gate. The bool is false for
// usable replies.
func InadequateReason(reply string) (string, bool) {
	trimmed := strings.TrimSpace(reply)
	lower := strings.ToLower(trimmed)

	if i := strings.Index(lower, noAnswerMarker); i >= 0 && strings.Contains(lower[i:], sourcesMarker) {
		return "no_answer_sentinel", true
	}
	if strings.Contains(lower, "no answer") {
		return "no_answer_phrase", true
	}
	if utf8.RuneCountInString(trimmed) < minAdequateLen {
		return "too_short", true
	}
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			return "refusal", true
		}
	}
	return "", false
}
