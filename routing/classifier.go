package routing

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// QuestionLabel is the coarse label produced by QuestionCategory.
type QuestionLabel string

const (
	LabelCasual      QuestionLabel = "casual"
	LabelCurrentInfo QuestionLabel = "current_info"
	LabelFactual     QuestionLabel = "factual"
	LabelMath        QuestionLabel = "math"
	LabelGeneral     QuestionLabel = "general"
)

// Normalize lowercases with Turkish rules ("I" -> "ı", "İ" -> "i") and trims a
// question. No stemming is applied.
func Normalize(text string) string {
	return strings.TrimSpace(strings.ToLowerSpecial(unicode.TurkishCase, text))
}

// tokens splits normalised text into words with surrounding punctuation removed.
func tokens(text string) []string {
	fields := strings.Fields(text)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		// "league'de" -> "league"
		if i := strings.IndexAny(f, "'’"); i > 0 {
			f = f[:i]
		}
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func matchFirst(text string, table []Pattern) (string, bool) {
	for _, pat := range table {
		if pat.Re.MatchString(text) {
			return pat.Name, true
		}
	}
	return "", false
}

// hasGreetingToken reports whether a greeting keyword appears as a word.
// Short keywords must match a whole token ("hey" is not "heyecan"), longer
// ones may carry a suffix ("merhabalar").
func hasGreetingToken(text string) bool {
	for _, tok := range tokens(text) {
		for _, kw := range casualKeywords {
			if tok == kw {
				return true
			}
			if utf8.RuneCountInString(kw) >= 5 && strings.HasPrefix(tok, kw) {
				return true
			}
		}
	}
	// two-word keywords such as "sağ ol"
	for _, kw := range casualKeywords {
		if strings.Contains(kw, " ") && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// IsCasualChat reports whether the text is a greeting or small talk.
func IsCasualChat(text string) bool {
	text = Normalize(text)
	if text == "" {
		return false
	}
	if _, ok := matchFirst(text, casualPatterns); ok {
		return true
	}
	return utf8.RuneCountInString(text) <= casualMaxLen && hasGreetingToken(text)
}

// RequiresCurrentInfo reports whether the answer depends on real-time data.
func RequiresCurrentInfo(text string) bool {
	_, ok := CurrentInfoMatch(text)
	return ok
}

// CurrentInfoMatch returns the name of the first current-info pattern that
// matches the text.
func CurrentInfoMatch(text string) (string, bool) {
	return matchFirst(Normalize(text), currentInfoPatterns)
}

// IsFormulaOrTechnical reports whether the text is a maths, physics,
// engineering or statistics problem.
func IsFormulaOrTechnical(text string) bool {
	return containsAny(Normalize(text), formulaKeywords)
}

// IsGeneralKnowledgeOrCreative reports whether the text is a culture/history/
// lifestyle question or a writing, editing, translation or summary task.
func IsGeneralKnowledgeOrCreative(text string) bool {
	text = Normalize(text)
	return containsAny(text, generalKnowledgeKeywords) || containsAny(text, creativeKeywords)
}

// IsFileRelated reports whether the text refers to the file uploaded to the
// conversation. It is always false when no file is present.
func IsFileRelated(text string, hasUploadedFile bool) bool {
	if !hasUploadedFile {
		return false
	}
	text = Normalize(text)
	if containsAny(text, fileReferenceWords) {
		return true
	}
	if !containsAny(text, fileActionWords) {
		return false
	}
	for _, tok := range tokens(text) {
		if deicticWords[tok] {
			return true
		}
	}
	return false
}

// QuestionCategory labels a question: casual, then current info, then
// factual, then arithmetic, otherwise general.
func QuestionCategory(text string) QuestionLabel {
	norm := Normalize(text)
	switch {
	case IsCasualChat(norm):
		return LabelCasual
	case RequiresCurrentInfo(norm):
		return LabelCurrentInfo
	}
	if _, ok := matchFirst(norm, factualPatterns); ok {
		return LabelFactual
	}
	if mathPattern.MatchString(norm) {
		return LabelMath
	}
	return LabelGeneral
}

// Classify returns the category of a question. Checks run in priority order
// and the first hit wins. With hasUploadedFile false the result is the category
// that selects the provider chain.
func Classify(text string, hasUploadedFile bool) Category {
	norm := Normalize(text)
	switch {
	case IsCasualChat(norm):
		return CategoryCasual
	case RequiresCurrentInfo(norm):
		return CategoryCurrentInfo
	case IsFileRelated(norm, hasUploadedFile):
		return CategoryFileRelated
	case IsFormulaOrTechnical(norm):
		return CategoryFormulaTechnical
	case IsGeneralKnowledgeOrCreative(norm):
		return CategoryCreative
	default:
		return CategoryRegular
	}
}
