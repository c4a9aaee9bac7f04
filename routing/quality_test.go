package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInadequateReason(t *testing.T) {
	tests := []struct {
		name   string
		reply  string
		reason string
	}{
		{"sentinel", "NO_ANSWER\nSources:", "no_answer_sentinel"},
		{"sentinel lowercase", "no_answer sources: none", "no_answer_sentinel"},
		{"phrase", "There is no answer in the documents for this.", "no_answer_phrase"},
		{"empty", "   ", "too_short"},
		{"short", "Tamam.", "too_short"},
		{"turkish refusal", "Bu konuda maalesef yeterli bilgim bulunmuyor.", "refusal"},
		{"english refusal", "I don't know the answer to that question.", "refusal"},
		{"no access", "Belgelere erişimim yok, tekrar deneyin.", "refusal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, bad := InadequateReason(tt.reply)
			assert.True(t, bad)
			assert.Equal(t, tt.reason, reason)
			assert.False(t, IsAdequate(tt.reply))
		})
	}
}

func TestIsAdequate(t *testing.T) {
	assert.True(t, IsAdequate("25 × 8 işleminin sonucu 200'dür."))
	assert.True(t, IsAdequate("Merhaba! Size nasıl yardımcı olabilirim?"))
	assert.True(t, IsAdequate("İstanbul, Türkiye'nin en kalabalık şehridir."))
}
