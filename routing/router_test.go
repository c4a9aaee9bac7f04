package routing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pro(q string) Request {
	return Request{Question: q, SessionID: "conv-1", Context: RoutingContext{Tier: TierPro, Mode: ModeNormal}}
}

func free(q string) Request {
	return Request{Question: q, SessionID: "conv-1", Context: RoutingContext{Tier: TierFree, Mode: ModeNormal}}
}

func TestRoute_GreetingGoesToKnowledgeBase(t *testing.T) {
	s := newStubs()
	s.pro.reply = "Merhaba! Size nasıl yardımcı olabilirim?"

	res := s.router().Route(context.Background(), pro("merhaba"))

	assert.Equal(t, CategoryCasual, res.Category)
	assert.Equal(t, ProviderRAGPro, res.Provider)
	assert.Equal(t, 1, s.pro.calls)
	assert.Equal(t, "merhaba", s.pro.lastMessage(), "no personality prefix in normal mode")
	assert.Zero(t, s.search.calls)
	assert.Zero(t, s.llm.calls)
	assert.Equal(t, "Merhaba! Size nasıl yardımcı olabilirim?", res.Text)
	assert.False(t, res.Exhausted)
}

func TestRoute_CurrentInfoUsesWebSearchOnBothTiers(t *testing.T) {
	for _, req := range []Request{pro("bugün dolar kuru kaç TL?"), free("bugün dolar kuru kaç TL?")} {
		t.Run(string(req.Context.Tier), func(t *testing.T) {
			s := newStubs()
			res := s.router().Route(context.Background(), req)

			assert.Equal(t, CategoryCurrentInfo, res.Category)
			assert.Equal(t, 1, s.search.calls)
			assert.Equal(t, 1, s.localizer.calls)
			assert.Zero(t, s.pro.calls)
			assert.Zero(t, s.free.calls)
			assert.Zero(t, s.llm.calls)
			assert.Equal(t, ProviderLocalizer, res.Provider)
			assert.NotContains(t, strings.ToLower(res.Text), "web araştırması sonucunda")
			assert.Equal(t, "Dolar kuru bugün 34,50 TL.", res.Text)
			assert.Contains(t, s.localizer.raw, "34,50 TL")
			assert.NotContains(t, s.localizer.raw, "https://")
		})
	}
}

func TestRoute_LocalizerFailureFallsBackToRawSnippets(t *testing.T) {
	s := newStubs()
	s.localizer.err = errors.New("boom")

	res := s.router().Route(context.Background(), pro("bugün dolar kuru kaç TL?"))

	assert.Equal(t, ProviderWebSearch, res.Provider)
	assert.Contains(t, res.Text, "Dolar bugün 34,50 TL seviyesinde.")
	assert.Zero(t, s.llm.calls)
}

func TestRoute_SearchFailureFallsBackToLLM(t *testing.T) {
	s := newStubs()
	s.search.err = errors.New("serper down")

	res := s.router().Route(context.Background(), free("bugün hava durumu nasıl?"))

	assert.Equal(t, ProviderLLM, res.Provider)
	assert.Equal(t, 1, s.llm.calls)
	assert.Contains(t, s.llm.last.System, "canlı arama")
	require.Len(t, res.Attempts, 2)
	assert.Equal(t, OutcomeError, res.Attempts[0].Outcome)
}

func TestRoute_ArithmeticAdequateReplyStops(t *testing.T) {
	s := newStubs()
	s.pro.reply = "25 × 8 işleminin sonucu 200'dür."

	res := s.router().Route(context.Background(), pro("25 × 8 kaç eder?"))

	assert.Equal(t, CategoryRegular, res.Category)
	assert.Equal(t, LabelMath, res.QuestionCategory)
	assert.Equal(t, 1, s.pro.calls)
	assert.Zero(t, s.llm.calls)
	assert.Contains(t, res.Text, "200")
}

func TestRoute_NoAnswerSentinelFallsBackToLLM(t *testing.T) {
	s := newStubs()
	s.pro.reply = "NO_ANSWER\nSources:"
	s.llm.reply = "25 × 8 = 200"

	res := s.router().Route(context.Background(), pro("25 × 8 kaç eder?"))

	assert.Equal(t, 1, s.pro.calls)
	assert.Equal(t, 1, s.llm.calls)
	assert.Equal(t, ProviderLLM, res.Provider)
	assert.Equal(t, "25 × 8 = 200", res.Text)
	assert.Equal(t, float64(0), s.llm.last.Temperature)
	require.Len(t, res.Attempts, 2)
	assert.Equal(t, OutcomeInadequate, res.Attempts[0].Outcome)
}

func TestRoute_CreativeSkipsKnowledgeBase(t *testing.T) {
	s := newStubs()

	res := s.router().Route(context.Background(), pro("Bana bir blog yazısı yaz"))

	assert.Equal(t, CategoryCreative, res.Category)
	assert.Equal(t, 1, s.llm.calls)
	assert.Zero(t, s.pro.calls)
	assert.Zero(t, s.free.calls)
	assert.Equal(t, ProviderLLM, res.Provider)
}

func TestRoute_FormulaPrefersKnowledgeBase(t *testing.T) {
	s := newStubs()
	s.pro.err = errors.New("connection refused")

	res := s.router().Route(context.Background(), pro("İstatistiksel standart sapma formülünü açıkla ve örnek hesaplama yap"))

	assert.Equal(t, CategoryFormulaTechnical, res.Category)
	assert.Equal(t, 1, s.pro.calls)
	assert.Equal(t, 1, s.llm.calls)
	assert.Equal(t, ProviderLLM, res.Provider)
}

func TestRoute_ConversationModeBypassesOtherBranches(t *testing.T) {
	s := newStubs()
	req := pro("bugün dolar kuru kaç TL?")
	req.Context.Mode = ModeFriend

	res := s.router().Route(context.Background(), req)

	assert.Equal(t, 1, s.free.calls)
	assert.True(t, strings.HasPrefix(s.free.lastMessage(), "Samimi ve motive edici"))
	assert.Contains(t, s.free.lastMessage(), "bugün dolar kuru kaç TL?")
	assert.Zero(t, s.search.calls)
	assert.Zero(t, s.llm.calls)
	assert.Zero(t, s.pro.calls)
	assert.Equal(t, ProviderRAGFree, res.Provider)
}

func TestRoute_FreeTierNeverCallsRetrieval(t *testing.T) {
	s := newStubs()
	s.llm.err = errors.New("503")

	res := s.router().Route(context.Background(), free("25 × 8 kaç eder?"))

	assert.Zero(t, s.pro.calls)
	assert.Zero(t, s.free.calls)
	assert.Equal(t, 1, s.llm.calls)
	assert.True(t, res.Exhausted)
	assert.Equal(t, ApologyGeneral, res.Text)
}

func TestRoute_FreeTierPersonalityIsSystemPrompt(t *testing.T) {
	s := newStubs()
	req := free("Matematik öğrenmek istiyorum")
	req.Context.Mode = ModeTeacher

	s.router().Route(context.Background(), req)

	assert.Equal(t, 1, s.llm.calls)
	assert.Contains(t, s.llm.last.System, "öğretmen")
	assert.Equal(t, "Matematik öğrenmek istiyorum", s.llm.last.User)
}

func TestRoute_NeverFailsWhenEveryProviderBreaks(t *testing.T) {
	s := newStubs()
	s.pro.panicMsg = "nil map"
	s.llm.err = errors.New("timeout")

	res := s.router().Route(context.Background(), pro("Vakıf sistemi nasıl işler?"))
	assert.Equal(t, CategoryRegular, res.Category)
	assert.Equal(t, 1, s.pro.calls)
	assert.NotEmpty(t, res.Text)
	assert.True(t, res.Exhausted)
	assert.Equal(t, ApologyGeneral, res.Text)
	require.Len(t, res.Attempts, 2)
	assert.ErrorContains(t, res.Attempts[0].Err, "nil map")

	res = s.router().Route(context.Background(), pro("bu konuda ne düşünüyorsun"))
	assert.NotEmpty(t, res.Text)
	assert.Equal(t, ProviderNone, res.Provider)
}

func TestRoute_MissingProvidersStillAnswer(t *testing.T) {
	r := NewRouter(Providers{}, Config{}, nil)

	res := r.Route(context.Background(), pro("vakıflar hakkında bilgi"))

	assert.True(t, res.Exhausted)
	assert.Equal(t, ApologyGeneral, res.Text)
	for _, a := range res.Attempts {
		assert.ErrorIs(t, a.Err, ErrProviderMissing)
	}
}

func TestRoute_TimeoutApology(t *testing.T) {
	s := newStubs()
	s.llm.block = true
	cfg := DefaultConfig()
	cfg.Timeouts = map[ProviderID]time.Duration{ProviderLLM: 20 * time.Millisecond}
	r := NewRouter(s.providers(), cfg, nil)

	res := r.Route(context.Background(), free("Bana bir şiir yaz"))

	assert.True(t, res.Exhausted)
	assert.Equal(t, ApologyTimeout, res.Text)
}

func TestRoute_EmptyQuestion(t *testing.T) {
	s := newStubs()

	res := s.router().Route(context.Background(), pro("   "))

	assert.Equal(t, ApologyEmpty, res.Text)
	assert.Zero(t, s.pro.calls+s.llm.calls+s.search.calls)
}

func TestRoute_FileTextInjected(t *testing.T) {
	s := newStubs()
	req := pro("Bu dosyayı özetle")
	req.File = &FileContext{Name: "rapor.pdf", Text: "Yıllık satışlar yüzde 12 arttı."}

	res := s.router().Route(context.Background(), req)

	assert.Equal(t, CategoryFileRelated, res.Category)
	assert.Equal(t, 1, s.llm.calls)
	assert.Zero(t, s.pro.calls)
	assert.Contains(t, s.llm.last.User, "rapor.pdf")
	assert.Contains(t, s.llm.last.User, "Yıllık satışlar yüzde 12 arttı.")
	assert.Contains(t, s.llm.last.User, "Bu dosyayı özetle")
}

func TestRoute_FileDoesNotChangeTheChain(t *testing.T) {
	s := newStubs()
	s.pro.reply = "Denklemin çözümü x = 4 olarak bulunur."
	req := pro("Bu pdf'teki denklemi çöz ve sonucu hesapla")
	req.File = &FileContext{Name: "odev.pdf", Text: "2x + 3 = 11"}

	res := s.router().Route(context.Background(), req)

	assert.Equal(t, CategoryFileRelated, res.Category)
	assert.Equal(t, 1, s.pro.calls, "formula questions start at the knowledge base")
	assert.Zero(t, s.llm.calls)
	assert.Equal(t, ProviderRAGPro, res.Provider)
	assert.Contains(t, s.pro.lastMessage(), "2x + 3 = 11")
	assert.Contains(t, s.pro.lastMessage(), "odev.pdf")
}

func TestRoute_ReplyMentioningRateLimitIsKept(t *testing.T) {
	s := newStubs()
	s.pro.reply = "Rate limit, bir API'nin belirli bir sürede kabul ettiği en fazla istek sayısıdır."

	res := s.router().Route(context.Background(), pro("API'lerde rate limit kavramı nedir?"))

	assert.Equal(t, ProviderRAGPro, res.Provider)
	assert.Equal(t, s.pro.reply, res.Text)
}

func TestRoute_WebBoilerplateErrorIsTranslated(t *testing.T) {
	s := newStubs()
	s.localizer.reply = "Sorry, I'm experiencing technical difficulties."

	res := s.router().Route(context.Background(), pro("bugün dolar kuru kaç TL?"))

	assert.Equal(t, ProviderLocalizer, res.Provider)
	assert.Equal(t, "Üzgünüm, şu anda teknik bir sorun yaşıyorum. Lütfen biraz sonra tekrar deneyin.", res.Text)
}

func TestRoute_ExhaustedChainIsCounted(t *testing.T) {
	s := newStubs()
	s.llm.err = errors.New("503")
	before := exhaustedCount(t, "free")

	s.router().Route(context.Background(), free("25 × 8 kaç eder?"))

	assert.Equal(t, before+1, exhaustedCount(t, "free"))
}

func TestRoute_FileIgnoredWhenQuestionUnrelated(t *testing.T) {
	s := newStubs()
	req := pro("25 × 8 kaç eder?")
	req.File = &FileContext{Name: "rapor.pdf", Text: "gizli içerik"}

	s.router().Route(context.Background(), req)

	assert.Equal(t, "25 × 8 kaç eder?", s.pro.lastMessage())
}

func TestRoute_MarkupStripped(t *testing.T) {
	s := newStubs()
	s.llm.reply = "## Başlık\n**Kalın** ve *eğik* metin."

	res := s.router().Route(context.Background(), pro("Bana bir hikaye yaz"))

	assert.Equal(t, "Başlık\nKalın ve eğik metin.", res.Text)
}

func TestRoute_UnknownTierIsFree(t *testing.T) {
	s := newStubs()
	req := Request{Question: "25 × 8 kaç eder?", Context: RoutingContext{Tier: "enterprise"}}

	s.router().Route(context.Background(), req)

	assert.Zero(t, s.pro.calls)
	assert.Equal(t, 1, s.llm.calls)
}

func TestRouter_ConcurrentUse(t *testing.T) {
	s := newStubs()
	r := s.router()

	done := make(chan Result, 20)
	for i := 0; i < 20; i++ {
		go func() {
			done <- r.Route(context.Background(), pro("25 × 8 kaç eder?"))
		}()
	}
	for i := 0; i < 20; i++ {
		res := <-done
		assert.NotEmpty(t, res.Text)
	}
	assert.Equal(t, 20, s.pro.calls)
}

// exhaustedCount reads bilgin_chain_exhausted_total for a tier from the
// default registry.
func exhaustedCount(t *testing.T, tier string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "bilgin_chain_exhausted_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "tier" && l.GetValue() == tier {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
