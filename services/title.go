package services

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultTitle is used when a message yields no usable title.
const DefaultTitle = "Yeni Sohbet"

const (
	titleMaxWords = 5
	titleMaxChars = 50
)

var turkishTitle = cases.Title(language.Turkish)

var turkishLower = cases.Lower(language.Turkish)

// titleKeywords maps request keywords to a topic label. Checked in order.
var titleKeywords = []struct {
	Keyword string
	Label   string
}{
	{"logo", "Logo Tasarlama İsteği"},
	{"web sitesi", "Web Sitesi Geliştirme"},
	{"python", "Python Programlama"},
	{"javascript", "Javascript Programlama"},
	{"makale", "Makale Yazımı"},
	{"mektup", "Mektup Yazımı"},
	{"strateji", "Strateji Geliştirme"},
	{"pazarlama", "Pazarlama Stratejisi"},
	{"karşılaştır", "Karşılaştırma"},
	{"analiz", "Analiz Talebi"},
	{"tavsiye", "Tavsiye Talebi"},
	{"öneri", "Öneri İsteği"},
	{"hata", "Hata Giderme"},
	{"sorun", "Sorun Çözme"},
	{"ders", "Ders İsteği"},
	{"proje", "Proje Yönetimi"},
	{"tasarla", "Tasarım İsteği"},
}

var questionWords = map[string]bool{
	"nasıl": true, "nedir": true, "demek": true, "için": true, "olan": true, "yapılır": true, "kullanılır": true, "ne": true,
}

// GenerateTitle builds a conversation title from the first message. Short
// messages become the title as is (capped at 50 characters). Longer ones get
// a topic label when a keyword matches, otherwise the first five words
// followed by "...".
func GenerateTitle(message string) string {
	message = strings.TrimSpace(message)
	words := strings.Fields(message)
	if len(words) == 0 {
		return DefaultTitle
	}

	if len(words) <= titleMaxWords {
		return truncateTitle(strings.Join(words, " "))
	}

	if title := keywordTitle(message, words); title != "" {
		return title
	}
	return truncateTitle(strings.Join(words[:titleMaxWords], " ")) + "..."
}

func keywordTitle(message string, words []string) string {
	lower := turkishLower.String(message)

	if strings.Contains(lower, "nasıl") || strings.Contains(lower, "nedir") || strings.Contains(lower, "ne demek") {
		for _, w := range words {
			lw := strings.Trim(turkishLower.String(w), "?!.,")
			if utf8.RuneCountInString(lw) > 3 && !questionWords[lw] {
				return turkishTitle.String(lw) + " Hakkında"
			}
		}
	}

	for _, kw := range titleKeywords {
		if strings.Contains(lower, kw.Keyword) {
			return kw.Label
		}
	}
	return ""
}

func truncateTitle(s string) string {
	if utf8.RuneCountInString(s) <= titleMaxChars {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:titleMaxChars]))
}
