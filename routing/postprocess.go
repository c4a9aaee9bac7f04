package routing

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// User facing apologies. The router only ever surfaces these on failure.
const (
	ApologyGeneral = "Üzgünüm, şu anda sorunuza yanıt veremiyorum. Lütfen biraz sonra tekrar deneyin."
	ApologyTimeout = "Üzgünüm, yanıt almak beklenenden uzun sürdü. Lütfen sorunuzu tekrar gönderin."
	ApologyEmpty   = "Lütfen bir soru ya da mesaj yazın."
)

var (
	headingRe    = regexp.MustCompile(`(?m)^[ \t]*#{1,6}[ \t]*`)
	boldStarRe   = regexp.MustCompile(`\*\*([^\n]+?)\*\*`)
	boldUnderRe  = regexp.MustCompile(`__([^\n]+?)__`)
	italicStarRe = regexp.MustCompile(`(^|[^\w*])\*([^*\s][^*\n]*?)\*`)
	strayBoldRe  = regexp.MustCompile(`\*\*+`)
	blankLinesRe = regexp.MustCompile(`\n{3,}`)
)

func stripMarkupOnce(text string) string {
	text = headingRe.ReplaceAllString(text, "")
	text = boldStarRe.ReplaceAllString(text, "$1")
	text = boldUnderRe.ReplaceAllString(text, "$1")
	text = italicStarRe.ReplaceAllString(text, "$1$2")
	text = strayBoldRe.ReplaceAllString(text, "")
	text = blankLinesRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// StripMarkup removes bold, italic and heading markers. Every substitution
// only deletes characters, so iterating to a fixed point terminates and makes
// the transform idempotent. Bullet markers ("* ", "- ") are kept.
func StripMarkup(text string) string {
	for {
		next := stripMarkupOnce(text)
		if next == text {
			return next
		}
		text = next
	}
}

// attributionRe matches source-attribution phrases the localizer is told to
// drop but sometimes leaves in.
var attributionRe = regexp.MustCompile(`(?i)(web araştırması sonucunda|web araştırmasına göre|web araştırmalarına göre|yapılan web araştırmasına göre|güncel web kaynaklarından( elde edilen bilgilere göre)?|güncel web kaynaklarına göre|internet kaynaklarına göre|arama sonuçlarına göre|according to (the )?web research|according to (the )?search results|based on (the )?current web sources|from current web sources)[,:]?[ \t]*`)

// sourceLineRe drops trailing "Kaynak: ..." / "Sources: ..." lines.
var sourceLineRe = regexp.MustCompile(`(?im)^[ \t]*(kaynak|kaynaklar|sources?)[ \t]*:.*$`)

// ScrubSourceAttribution removes residual source attributions from a web
// answer and re-capitalises the first letter if a leading phrase was removed.
func ScrubSourceAttribution(text string) string {
	text = attributionRe.ReplaceAllString(text, "")
	text = sourceLineRe.ReplaceAllString(text, "")
	text = blankLinesRe.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)
	return capitalizeFirst(text)
}

func capitalizeFirst(text string) string {
	r, size := utf8.DecodeRuneInString(text)
	if r == utf8.RuneError || !unicode.IsLower(r) {
		return text
	}
	return string(unicode.TurkishCase.ToUpper(r)) + text[size:]
}

// providerErrorRule maps a whole leaked upstream error reply to a Turkish
// sentence.
type providerErrorRule struct {
	Re   *regexp.Regexp
	Text string
}

const retryLater = "Şu anda çok fazla istek alıyorum. Lütfen biraz sonra tekrar deneyin."

// providerErrorRules only match replies that consist of the boilerplate alone,
// so an answer that merely mentions "rate limit" is left untouched.
var providerErrorRules = []providerErrorRule{
	{regexp.MustCompile(`^sorry, i (couldn't|could not|can't|cannot) process your request\.?$`), "Üzgünüm, isteğinizi şu anda işleyemedim. Lütfen tekrar deneyin."},
	{regexp.MustCompile(`^sorry, i'm having trouble connecting to the ai service\.?$`), "Üzgünüm, yapay zeka servisine bağlanırken sorun yaşıyorum. Lütfen biraz sonra tekrar deneyin."},
	{regexp.MustCompile(`^sorry, i'm experiencing technical difficulties\.?$`), "Üzgünüm, şu anda teknik bir sorun yaşıyorum. Lütfen biraz sonra tekrar deneyin."},
	{regexp.MustCompile(`^(error:\s*)?(rate limit exceeded|rate limit reached|too many requests)\.?$`), retryLater},
	{regexp.MustCompile(`^(error:\s*)?(internal server error|an error occurred|an unexpected error occurred)\.?$`), ApologyGeneral},
	{regexp.MustCompile(`(?s)^error:.*maximum context length`), "Mesajınız çok uzun. Lütfen kısaltarak tekrar deneyin."},
}

// NormalizeProviderErrors replaces a reply that is nothing but English error
// boilerplate from an upstream provider with a canned Turkish sentence.
func NormalizeProviderErrors(text string) string {
	lower := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(text, "’", "'")))
	for _, rule := range providerErrorRules {
		if rule.Re.MatchString(lower) {
			return rule.Text
		}
	}
	return text
}
