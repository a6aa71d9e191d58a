package temperature

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"recipe-normalizer/internal/core/quantity"
	"recipe-normalizer/internal/core/unit"
)

// Kind 片段類型
type Kind int

const (
	Literal Kind = iota
	Mention
)

// Segment 文字片段。Mention 片段記錄數值與原始寫法，以便保留格式改寫。
// "350-400°F" 這類範圍是單一片段，Low 為下限，Number 為上限。
type Segment struct {
	Kind     Kind
	Text     string
	Value    quantity.Quantity
	Scale    Scale
	Number   string // 原始數字，含負號
	Gap      string // 數字與標記之間的空白
	Marker   string // 度數標記連同其後空白，例如 "°" 或 "degrees "
	Token    string // 溫標字樣，例如 "F"、"fahrenheit"、"degC"
	Low      string // 範圍下限的原始數字，非範圍時為空
	LowValue quantity.Quantity
	Sep      string // 下限與上限之間的原文，例如 "-"、" to "、"°–"
}

type scaleToken struct {
	word  string
	scale Scale
}

// 長字優先比對
var (
	unitTokens = []scaleToken{
		{"fahrenheit", Fahrenheit}, {"celsius", Celsius},
		{"degf", Fahrenheit}, {"degc", Celsius},
		{"f", Fahrenheit}, {"c", Celsius},
	}
	degreeWords   = []string{"degrees", "degree", "deg"}
	degreeSymbols = []string{"°", "º", "˚"}
)

// Segments 將文字切成文字片段與溫度片段的惰性序列，串接所有片段的 Text 等於原文。
func Segments(text string) iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		literalStart := 0
		i := 0
		for i < len(text) {
			seg, n, ok := matchAt(text, i)
			if !ok {
				_, size := utf8.DecodeRuneInString(text[i:])
				i += size
				continue
			}
			if i > literalStart {
				if !yield(Segment{Kind: Literal, Text: text[literalStart:i]}) {
					return
				}
			}
			if !yield(seg) {
				return
			}
			i += n
			literalStart = i
		}
		if literalStart < len(text) {
			yield(Segment{Kind: Literal, Text: text[literalStart:]})
		}
	}
}

// matchAt 嘗試在位置 i 比對「數字 [範圍上限] [空白] [度數標記] 溫標字樣」。
// 範圍沒有溫標時整段不比對，上限也不會單獨被當成溫度。
func matchAt(text string, i int) (Segment, int, bool) {
	if i > 0 {
		prev, _ := utf8.DecodeLastRuneInString(text[:i])
		if unicode.IsLetter(prev) || unicode.IsDigit(prev) || prev == '.' {
			return Segment{}, 0, false
		}
	}
	if rangeBefore(text, i) {
		return Segment{}, 0, false
	}

	j, ok := scanNumber(text, i)
	if !ok {
		return Segment{}, 0, false
	}
	number := text[i:j]

	var low, sep string
	if k, ok := rangeSeparator(text, j); ok {
		if h, ok := scanNumber(text, k); ok {
			low, sep, number = number, text[j:k], text[k:h]
			j = h
		}
	}

	gapEnd := skipSpaces(text, j)
	gap := text[j:gapEnd]

	marker := ""
	k := gapEnd
	if m, ok := degreeMarker(text, k); ok {
		markerEnd := skipSpaces(text, k+len(m))
		marker = text[k:markerEnd]
		k = markerEnd
	}

	tok, ok := scaleTokenAt(text, k, marker != "")
	if !ok {
		return Segment{}, 0, false
	}
	// 沒有度數標記的小寫 "c" 一律視為杯："2 c flour"、"2c. flour"
	if marker == "" && text[k:k+len(tok.word)] == "c" {
		return Segment{}, 0, false
	}

	v, err := parseSigned(number)
	if err != nil {
		return Segment{}, 0, false
	}

	end := k + len(tok.word)
	seg := Segment{
		Kind:   Mention,
		Text:   text[i:end],
		Value:  v,
		Scale:  tok.scale,
		Number: number,
		Gap:    gap,
		Marker: marker,
		Token:  text[k:end],
	}
	if low != "" {
		lv, err := parseSigned(low)
		if err != nil {
			return Segment{}, 0, false
		}
		seg.Low, seg.LowValue, seg.Sep = low, lv, sep
	}
	return seg, end - i, true
}

// scanNumber 比對 [-]數字[.數字]，回傳結束位置
func scanNumber(text string, i int) (int, bool) {
	j := i
	if j < len(text) && text[j] == '-' {
		j++
	}
	digitsStart := j
	for j < len(text) && isDigit(text[j]) {
		j++
	}
	if j == digitsStart {
		return 0, false
	}
	if j+1 < len(text) && text[j] == '.' && isDigit(text[j+1]) {
		j++
		for j < len(text) && isDigit(text[j]) {
			j++
		}
	}
	return j, true
}

// rangeSeparator 比對下限數字之後的範圍連接：可選的度數符號，接著 "-"、"–" 或 " to "，
// 回傳上限數字的起點
func rangeSeparator(text string, j int) (int, bool) {
	k := j
	for _, sym := range degreeSymbols {
		if strings.HasPrefix(text[k:], sym) {
			k += len(sym)
			break
		}
	}
	s := skipSpaces(text, k)
	switch {
	case strings.HasPrefix(text[s:], "-"):
		s = skipSpaces(text, s+1)
	case strings.HasPrefix(text[s:], "–"):
		s = skipSpaces(text, s+len("–"))
	case s > k && hasFoldPrefix(text[s:], "to") && isSpace(text, s+2):
		s = skipSpaces(text, s+2)
	default:
		return 0, false
	}
	if s >= len(text) || !isDigit(text[s]) {
		return 0, false
	}
	return s, true
}

// rangeBefore 位置 i 的數字是否為範圍的上限，也就是前面緊接「數字 [度數符號] 連接詞」
func rangeBefore(text string, i int) bool {
	s := strings.TrimRight(text[:i], " \t")
	spaced := len(s) < i
	switch {
	case strings.HasSuffix(s, "-"):
		s = s[:len(s)-1]
	case strings.HasSuffix(s, "–"):
		s = s[:len(s)-len("–")]
	case spaced && len(s) > 2 && strings.EqualFold(s[len(s)-2:], "to") && isSpace(s, len(s)-3):
		s = s[:len(s)-2]
	default:
		return false
	}
	s = strings.TrimRight(s, " \t")
	for _, sym := range degreeSymbols {
		if strings.HasSuffix(s, sym) {
			s = strings.TrimSuffix(s, sym)
			break
		}
	}
	return s != "" && isDigit(s[len(s)-1])
}

func degreeMarker(text string, k int) (string, bool) {
	for _, s := range degreeSymbols {
		if strings.HasPrefix(text[k:], s) {
			return s, true
		}
	}
	for _, w := range degreeWords {
		if hasFoldPrefix(text[k:], w) && wordEnds(text, k+len(w)) {
			return w, true
		}
	}
	return "", false
}

// scaleTokenAt 比對溫標字樣；"degf" 之類的合寫只在沒有度數標記時成立
func scaleTokenAt(text string, k int, marked bool) (scaleToken, bool) {
	for _, t := range unitTokens {
		if marked && strings.HasPrefix(t.word, "deg") {
			continue
		}
		if hasFoldPrefix(text[k:], t.word) && wordEnds(text, k+len(t.word)) {
			return t, true
		}
	}
	return scaleToken{}, false
}

// Rewrite 將溫度片段換算到目標溫標，保留原本的空白、度數標記與大小寫
func (s Segment) Rewrite(to Scale) string {
	if s.Kind != Mention || s.Scale == to {
		return s.Text
	}
	high := Convert(s.Value, s.Scale, to).Format(0) + s.Gap + s.Marker + swapToken(s.Token, to)
	if s.Low == "" {
		return high
	}
	return Convert(s.LowValue, s.Scale, to).Format(0) + s.Sep + high
}

func swapToken(token string, to Scale) string {
	lower := strings.ToLower(token)
	switch {
	case len(token) == 1:
		return matchCase(token, strings.ToLower(to.String()))
	case strings.HasPrefix(lower, "deg"):
		return token[:3] + matchCase(token[3:], strings.ToLower(to.String()))
	case to == Celsius:
		return matchCase(token, "celsius")
	default:
		return matchCase(token, "fahrenheit")
	}
}

// matchCase 依範本的大小寫樣式輸出 word：全大寫、首字大寫或全小寫
func matchCase(template, word string) string {
	if template == strings.ToUpper(template) {
		return strings.ToUpper(word)
	}
	first, _ := utf8.DecodeRuneInString(template)
	if unicode.IsUpper(first) {
		return strings.ToUpper(word[:1]) + word[1:]
	}
	return word
}

// ConvertText 將文字中屬於來源溫標的溫度改寫為目標制度的溫標，其餘文字不變
func ConvertText(text string, target unit.System) string {
	to := ScaleFor(target)
	var b strings.Builder
	b.Grow(len(text))
	for seg := range Segments(text) {
		b.WriteString(seg.Rewrite(to))
	}
	return b.String()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isSpace(text string, k int) bool {
	return k >= 0 && k < len(text) && (text[k] == ' ' || text[k] == '\t')
}

func skipSpaces(text string, k int) int {
	for k < len(text) && (text[k] == ' ' || text[k] == '\t') {
		k++
	}
	return k
}

func hasFoldPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func wordEnds(text string, k int) bool {
	if k >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[k:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
