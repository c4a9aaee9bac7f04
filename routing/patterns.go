package routing

import "regexp"

// Pattern is one named entry of a routing table. Tables are scanned top to
// bottom and the first hit wins.
type Pattern struct {
	Name string
	Re   *regexp.Regexp
}

func p(name, expr string) Pattern {
	return Pattern{Name: name, Re: regexp.MustCompile(expr)}
}

// Go's \b only knows ASCII word characters, so the Turkish tables anchor on
// whitespace and punctuation instead.
const (
	wordStart = `(?:^|[\s,.;:!?'"(])`
	wordEnd   = `(?:$|[\s,.;:!?'")])`
	// wordGap separates two anchored words with anything in between.
	wordGap = `[\s,.;:!?'"()](?:.*[\s,.;:!?'"(])?`
)

// word matches one of the alternatives as a whole word.
func word(alts string) string {
	return wordStart + `(?:` + alts + `)` + wordEnd
}

// prefixed matches one of the alternatives at the start of a word, suffixes allowed.
func prefixed(alts string) string {
	return wordStart + `(?:` + alts + `)`
}

// near matches a word from first followed later by a whole word from then.
func near(first, then string) string {
	return wordStart + `(?:` + first + `)` + wordGap + `(?:` + then + `)` + wordEnd
}

// casualPatterns recognise greetings and small talk. Input is normalised text.
var casualPatterns = []Pattern{
	p("greeting_only", `^(merhaba|merhabalar|selam|selamlar|slm|sa|selamün aleyküm|hey|hi|hello|günaydın|iyi akşamlar|iyi geceler|iyi günler|tünaydın)[\s!.,?]*$`),
	p("greeting_how_are_you", `^(merhaba|selam|hey|hi|hello)[\s,!.]+(nasılsın|nasılsınız|naber|ne haber|n'aber|iyi misin)[\s!.?]*$`),
	p("how_are_you", `^(nasılsın|nasılsınız|naber|ne haber|n'aber|napıyorsun|ne yapıyorsun|iyi misin|keyifler nasıl)[\s!.?]*$`),
	p("thanks", `^(teşekkürler|teşekkür ederim|çok teşekkürler|sağ ol|sağol|sağolun|sağ olun|eyvallah|thanks|thank you|tşk|tsk)[\s!.,]*$`),
	p("acknowledgement", `^(tamam|tamamdır|ok|okey|peki|anladım|harika|süper|güzel|evet|hayır|olur)[\s!.,]*$`),
	p("farewell", `^(görüşürüz|hoşça kal|hoşçakal|bay bay|bye|iyi geceler|kendine iyi bak)[\s!.,]*$`),
	p("who_are_you", `^(sen kimsin|kimsin|adın ne|senin adın ne)[\s!.?]*$`),
}

// casualKeywords are the greeting words used by the short-message rule.
var casualKeywords = []string{
	"merhaba", "selam", "slm", "hey", "hi", "hello", "günaydın", "naber", "nasılsın", "teşekkür", "sağol", "sağ ol",
}

// casualMaxLen is the length (in runes) under which a message containing a
// greeting keyword counts as casual chat.
const casualMaxLen = 15

// currentInfoPatterns cover questions whose answer changes from day to day.
// Short stems are word anchored so "sel" does not fire on "fiziksel" or "kur"
// on "kursu".
var currentInfoPatterns = []Pattern{
	p("today_topic", near(`bugün|bu gün|bugünkü|bu akşam|bu akşamki`, `maç|maçı|maçlar|maçları|skor|skoru|skorlar|hava|havası|dolar|doları|euro|borsa|borsada|haber|haberler|haberleri|gündem|gündemi|altın|altını|kur|kuru|kurlar|kurları`)),
	p("match_result", prefixed(`maç|maçı|maçlar|maçın|maçları`)+`\s*(sonucu|sonuçları|skoru|kaç kaç|ne oldu|oynanıyor|oynanacak|ne zaman|saat kaçta)`+wordEnd),
	p("league_table", `(puan durumu|fikstür|lig sıralaması|gol krallığı|canlı skor)`),
	p("team_news", near(`(?:galatasaray|fenerbahçe|beşiktaş|trabzonspor|başakşehir|real madrid|barcelona|manchester)\S*`, `maç\S*|skor\S*|kazandı|kaybetti|transfer\S*|puan\S*|yendi|berabere`)),
	p("competition", `(champions league|şampiyonlar ligi|süper lig|premier lig|la liga|avrupa ligi|konferans ligi|uefa|dünya kupası|euro 20\d\d)`),
	p("weather_report", `hava durumu`),
	p("weather_question", prefixed(`hava|havası`)+`\s*(nasıl|kaç derece|yağmurlu|güneşli|soğuk mu|sıcak mı|bulutlu)`),
	p("weather_forecast", near(`yarın|yarınki|bu hafta|hafta sonu|haftasonu`, `hava|havası|havalar|yağmur\S*|kar|karlı|kar yağışı|sıcaklık\S*|fırtına\S*`)),
	p("city_conditions", near(`(?:istanbul|ankara|izmir|antalya|bursa|adana|konya|trabzon)\S*`, `hava|havası|sıcaklık\S*|derece|trafik|trafiği|yağış\S*`)),
	p("fx_rate", prefixed(`dolar|doları|euro|avro|sterlin|döviz|yen|frank`)+`\s*(kuru|kurları|kaç|ne kadar|fiyatı|bugün)`+wordEnd),
	p("fx_board", prefixed(`döviz|kur`)+`\s*(kurları|fiyatları|tablosu)`+wordEnd),
	p("gold_price", prefixed(`altın|gram altın|çeyrek altın|yarım altın|cumhuriyet altını|ons`)+`\s*(fiyatı|fiyatları|kaç|ne kadar|bugün)`+wordEnd),
	p("stock_market", word(`borsa\S*|bist\s?100|bist|nasdaq|dow jones|s&p 500|hisse senedi|hisseler\S*`)),
	p("crypto_price", near(`bitcoin\S*|btc|ethereum\S*|eth|kripto para\S*|kripto`, `fiyat\S*|kaç|ne kadar|değer\S*|yükseldi|düştü`)),
	p("fuel_price", prefixed(`benzin|motorin|mazot|akaryakıt|elektrik|doğalgaz|lpg`)+`\s*(fiyatı|fiyatları|zammı|zam|kaç|ne kadar)`+wordEnd),
	p("breaking_news", prefixed(`son dakika|flaş haber|gündem|güncel haber|son haberler|manşet`)),
	p("latest_news", prefixed(`bugünkü|günün|son|en son`)+`\s+(haber|haberler|gelişme|gelişmeler)`),
	p("disaster", near(`deprem\S*|sel|seli|selde|sel felaketi|yangın\S*|fırtına\S*`, `nerede|oldu mu|son|bugün|büyüklüğü|kaç şiddetinde`)),
	p("election", near(`seçim|seçimler|seçimi|seçimin|seçimde`, `sonuç\S*|anket\S*|kim kazandı|ne zaman`)),
	p("right_now", near(`şu an|şu anda|şuan|şuanda|şimdi`, `kim|kimdir|ne|nedir|neler|kaç|nerede|nasıl|hangi|hangisi`)),
	p("day_marker", near(`bugün|bu gün|dün|yarın`, `ne|neler|kaç|kim|var mı|oynanıyor|açık mı|kapalı mı`)),
	p("latest_state", word(`en son|en güncel|son durum|son durumu|güncel durum|güncel`)),
	p("this_period", near(`bu hafta|bu ay|bu yıl|geçen hafta`, `ne|neler|kim|kaç|oldu|çıkan|çıkacak|açıklandı`)),
	p("official_statement", near(`(?:cumhurbaşkanı|başbakan|bakan|merkez bankası)\S*`, `açıkladı|dedi|söyledi|bugün|karar\S*`)),
	p("economy_rate", near(`enflasyon\S*|faiz\S*|asgari ücret\S*|memur maaşı|emekli maaşı|kira artış\S*`, `oranı|kaç|ne kadar|açıklandı|zam|zammı|oldu`)),
	p("cinema", near(`vizyondaki|vizyonda|sinemada|bu hafta vizyona`, `film\S*`)),
	p("pharmacy", `nöbetçi eczane`),
	p("traffic", `(trafik durumu|yol durumu|trafik yoğunluğu)`),
	p("clock_date", word(`saat kaç|saat kaçta|günlerden ne|bugünün tarihi|bugün ayın kaçı|tarih ne`)),
	p("winner", `(kim kazandı|kazanan kim|sonuçlandı mı|kim önde)`),
	p("open_closed", near(`bugün|yarın`, `(?:açık|kapalı|tatil|iptal)\s*(?:mı|mi|mu|mü|mıdır|midir)`)),
	p("live_event", prefixed(`oynanacak|oynanıyor|başladı|bitti|ertelendi`)+`\s*(mı|mi|mu|mü)`+wordEnd),
}

// formulaKeywords mark mathematics, physics, engineering and statistics work.
var formulaKeywords = []string{
	"formül", "formul", "denklem", "hesapla", "hesaplama", "hesaplayın", "hesaplar mısın", "çözümle",
	"integral", "türev", "matris", "determinant", "olasılık", "istatistik", "standart sapma", "varyans",
	"medyan", "regresyon", "korelasyon", "logaritma", "trigonometri", "sinüs", "kosinüs", "tanjant",
	"pisagor", "teorem", "ispatla", "geometri", "hacmi", "çevresi",
	"fizik", "kuvvet", "ivme", "newton", "joule", "watt", "volt", "amper", "ohm", "direnç", "devre",
	"mukavemet", "gerilme", "termodinamik", "entalpi", "entropi", "basınç", "momentum", "tork",
	"mühendislik", "birim dönüşümü", "kilogram", "metrekare", "santimetre",
	"calculate", "solve", "equation", "derivative", "formula",
}

// generalKnowledgeKeywords cover culture, history, geography and lifestyle.
var generalKnowledgeKeywords = []string{
	"tarih", "osmanlı", "cumhuriyet", "savaş", "imparatorluk", "padişah", "antik",
	"coğrafya", "başkent", "nüfus", "en büyük şehir", "kıta", "okyanus", "nehir", "dağı",
	"kültür", "gelenek", "sanat", "ressam", "edebiyat", "şair", "yazar", "roman", "müzik", "besteci",
	"film öner", "kitap öner", "dizi öner", "yemek tarifi", "tarifi", "mutfak",
	"sağlık", "beslenme", "diyet", "egzersiz", "uyku", "seyahat", "gezilecek", "tatil öner",
	"moda", "dekorasyon", "ilişki", "hobi", "felsefe", "mitoloji",
}

// creativeKeywords cover writing, editing, translation and summarisation intents.
var creativeKeywords = []string{
	"yazı yaz", "yazısı yaz", "makale yaz", "makale", "blog", "şiir yaz", "şiir", "hikaye yaz", "hikaye",
	"öykü yaz", "masal", "mektup yaz", "mektup", "dilekçe", "e-posta yaz", "mail yaz", "metni düzelt",
	"metin düzelt", "yazım hata", "imla", "çevir", "tercüme", "ingilizceye", "türkçeye", "özetle",
	"özet çıkar", "yeniden yaz", "paraphrase", "slogan", "başlık öner", "sunum hazırla", "özgeçmiş",
	"cv hazırla", "senaryo", "şarkı sözü", "write an article", "translate", "summarize",
}

// fileReferenceWords point at an uploaded attachment directly.
var fileReferenceWords = []string{
	"pdf", "dosya", "belge", "doküman", "döküman", "excel", "word", "yüklediğim", "yüklenen",
	"ekteki", "resim", "görsel", "fotoğraf", "file", "document",
}

// fileActionWords are processing verbs that only count together with a deictic word.
var fileActionWords = []string{
	"özetle", "özet", "analiz", "incele", "açıkla", "düzelt", "çevir", "oku", "yorumla", "kontrol et",
	"summarize", "analyze", "fix",
}

// deicticWords are matched as whole tokens; "bu" must not fire on "bugün".
var deicticWords = map[string]bool{
	"bu": true, "şu": true, "bunu": true, "şunu": true, "bunun": true, "şunun": true, "bunda": true,
	"buradaki": true, "yukarıdaki": true, "içindeki": true, "içeriği": true, "this": true, "that": true,
}

// factualPatterns mark questions worth a factual answer (who, what, when, where).
var factualPatterns = []Pattern{
	p("what_who", `(nedir|nelerdir|kimdir|kimlerdir|ne demek|ne anlama gelir)`),
	p("when", `(ne zaman|hangi yıl|kaç yılında|hangi tarihte)`),
	p("where", wordStart+`(nerede|neresi|neresidir|nerededir)`+wordEnd),
	p("which", wordStart+`(hangi|hangisi|hangisidir)`+wordEnd),
	p("founded", `(kuruldu|icat edildi|keşfedildi|yazıldı|bulundu|inşa edildi)`),
	p("attribute", `(başkenti|nüfusu|yüzölçümü|para birimi|resmi dili)`),
	p("verify", `(doğru mu|doğru mudur|gerçek mi|gerçekten mi|yanlış mı)`),
}

// mathPattern matches plain arithmetic such as "25 × 8" or "kaç eder".
var mathPattern = regexp.MustCompile(`(\d+\s*[-+*/×x÷^%]\s*\d+|kaç eder|sonucu kaç|işleminin sonucu|karekök|karesi kaç|yüzde \d+)`)
