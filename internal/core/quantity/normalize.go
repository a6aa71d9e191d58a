package quantity

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// vulgarFractions Unicode 分數字元對應的 ASCII 分數
var vulgarFractions = map[rune]string{
	'¼': "1/4",
	'½': "1/2",
	'¾': "3/4",
	'⅓': "1/3",
	'⅔': "2/3",
	'⅛': "1/8",
	'⅜': "3/8",
	'⅝': "5/8",
	'⅞': "7/8",
	'⅐': "1/7",
	'⅑': "1/9",
	'⅒': "1/10",
	'⅕': "1/5",
	'⅖': "2/5",
	'⅗': "3/5",
	'⅘': "4/5",
	'⅙': "1/6",
	'⅚': "5/6",
}

var (
	hyphenMixedPattern = regexp.MustCompile(`^(\d+)\s*-\s*(\d+/\d+)`)
	spacedSlashPattern = regexp.MustCompile(`(\d)\s*/\s*(\d)`)
	slashReplacer      = strings.NewReplacer("⁄", "/", "∕", "/")
)

// IsFractionGlyph 判斷字元是否為支援的 Unicode 分數字元
func IsFractionGlyph(r rune) bool {
	_, ok := vulgarFractions[r]
	return ok
}

// Glyphs 回傳所有支援的分數字元及其 ASCII 形式
func Glyphs() map[rune]string {
	out := make(map[rune]string, len(vulgarFractions))
	for r, s := range vulgarFractions {
		out[r] = s
	}
	return out
}

// Normalize 將原始數量字串正規化為可解析的 ASCII 形式。
// "1½" → "1 1/2"，"/4" → "1/4"，"1-1/2" → "1 1/2"。無法辨識的字元原樣保留。
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw) + 4)

	var prev rune
	for _, r := range raw {
		if frac, ok := vulgarFractions[r]; ok {
			if unicode.IsDigit(prev) {
				b.WriteByte(' ')
			}
			b.WriteString(frac)
			prev = '0'
			continue
		}
		b.WriteRune(r)
		prev = r
	}

	// 全形數字、不換行空白等相容字元在此折疊
	s := norm.NFKC.String(b.String())
	s = slashReplacer.Replace(s)
	s = strings.Join(strings.Fields(s), " ")

	s = hyphenMixedPattern.ReplaceAllString(s, "$1 $2")
	s = spacedSlashPattern.ReplaceAllString(s, "$1/$2")

	if strings.HasPrefix(s, "/") {
		s = "1" + s
	}
	return s
}
