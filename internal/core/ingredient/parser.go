package ingredient

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"recipe-normalizer/internal/core/quantity"
	"recipe-normalizer/internal/core/unit"
)

// ErrNoQuantityCue 行首無數量或單位線索且無逗號，不自動拆分
var ErrNoQuantityCue = errors.New("no quantity cue")

// PrepVerbs 可作為前置處理方式的動詞
var PrepVerbs = []string{
	"chopped", "diced", "minced", "sliced", "grated", "crushed", "pureed",
	"melted", "softened", "cubed", "julienned", "shredded",
}

var prepAdverbs = map[string]struct{}{
	"finely": {}, "roughly": {}, "coarsely": {}, "thinly": {}, "thickly": {}, "freshly": {}, "lightly": {},
}

var articles = map[string]struct{}{"a": {}, "an": {}, "one": {}}

var (
	leadingQuantityPattern = regexp.MustCompile(`^(\d+ \d+/\d+|\d+/\d+|\d*\.\d+|\d+)(?:\s+(.*))?$`)

	// "2-3"、"2 – 3"、"2 to 3"
	rangeQuantityPattern = regexp.MustCompile(`^(\d+/\d+|\d*\.\d+|\d+)(?:\s*[-–]\s*|\s+to\s+)(\d+/\d+|\d*\.\d+|\d+)(?:\s+(.*))?$`)
)

// Parser 食材行解析器，建立後可併發使用
type Parser struct {
	units     *unit.Table
	prepVerbs map[string]struct{}
}

// NewParser 建立解析器
func NewParser(units *unit.Table) *Parser {
	verbs := make(map[string]struct{}, len(PrepVerbs))
	for _, v := range PrepVerbs {
		verbs[v] = struct{}{}
	}
	return &Parser{units: units, prepVerbs: verbs}
}

// ParseLine 將一行食材文字拆成數量、單位、品項與處理方式。
// 回傳 ErrNoQuantityCue 時，呼叫端應將原文保留為品項。
func (p *Parser) ParseLine(line string) (Row, error) {
	text := strings.TrimSpace(line)
	if text == "" {
		return Row{}, fmt.Errorf("%w: empty line", ErrNoQuantityCue)
	}

	var (
		row  Row
		rest string
		cue  bool
	)

	if qty, after, ok := p.splitQuantity(text); ok {
		u, remainder := p.splitUnit(after)
		row.Quantity = qty
		row.Unit = u.Name()
		rest = remainder
		cue = true
	} else if u, remainder, ok := p.splitWordCue(text); ok {
		row.Quantity = ""
		if _, article := articles[strings.ToLower(firstWord(text))]; article {
			row.Quantity = "1"
		}
		row.Unit = u.Name()
		rest = remainder
		cue = true
	} else {
		rest = text
	}

	if !cue && !strings.Contains(rest, ",") {
		return Row{}, fmt.Errorf("%w: %q", ErrNoQuantityCue, text)
	}

	row.Item, row.Prep = p.splitItemPrep(rest)
	return row, nil
}

// ParseLines 逐行解析多行貼上的內容，空白行略過。
// 無法解析的行保留原文為品項，數量與單位留空。
func (p *Parser) ParseLines(text string) []Row {
	lines := strings.Split(text, "\n")
	rows := make([]Row, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		row, err := p.ParseLine(line)
		if err != nil {
			row = Row{Item: line}
		}
		rows = append(rows, row)
	}
	return rows
}

// splitQuantity 正規化行首的數字區段並取出數量。
// 範圍數量以 "下限-上限" 原樣保留，無法當作單一數值換算。
func (p *Parser) splitQuantity(text string) (string, string, bool) {
	end := 0
	for i, r := range text {
		if !isNumericRune(r) {
			break
		}
		end = i + len(string(r))
	}
	if end == 0 {
		return "", "", false
	}

	normalized := strings.TrimSpace(quantity.Normalize(text[:end]) + " " + strings.TrimSpace(text[end:]))
	if m := rangeQuantityPattern.FindStringSubmatch(normalized); m != nil {
		if _, err := quantity.Parse(m[1]); err != nil {
			return "", "", false
		}
		if _, err := quantity.Parse(m[2]); err != nil {
			return "", "", false
		}
		return m[1] + "-" + m[2], m[3], true
	}
	m := leadingQuantityPattern.FindStringSubmatch(normalized)
	if m == nil {
		return "", "", false
	}
	if _, err := quantity.Parse(m[1]); err != nil {
		return "", "", false
	}
	return m[1], m[2], true
}

func isNumericRune(r rune) bool {
	return unicode.IsDigit(r) || quantity.IsFractionGlyph(r) ||
		r == '/' || r == '⁄' || r == '.' || r == '-' || r == ' ' || r == '\t'
}

// splitUnit 嘗試以兩個字或一個字比對單位，無法辨識時預設為 EACH 並保留原文
func (p *Parser) splitUnit(rest string) (unit.Unit, string) {
	words := strings.Fields(rest)
	each := p.units.MustLookup(unit.EACH)
	if len(words) == 0 {
		return each, ""
	}

	if len(words) >= 2 {
		if two := cleanToken(words[0] + " " + words[1]); p.units.Recognizes(two) {
			return p.units.Classify(two), stripOf(words[2:])
		}
	}
	if one := cleanToken(words[0]); p.units.Recognizes(one) {
		return p.units.Classify(one), stripOf(words[1:])
	}
	return each, strings.Join(words, " ")
}

// splitWordCue 無數字時的線索："a cup of sugar"（數量 1）或 "cup of sugar"（數量留空）
func (p *Parser) splitWordCue(text string) (unit.Unit, string, bool) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return unit.Unit{}, "", false
	}

	if _, ok := articles[strings.ToLower(words[0])]; ok && len(words) > 1 {
		u, rest := p.splitUnit(strings.Join(words[1:], " "))
		if u.Convertible() {
			return u, rest, true
		}
		return unit.Unit{}, "", false
	}

	// 單獨的單位字須接 "of"，避免 "pound cake" 被誤判
	for _, n := range []int{2, 1} {
		if len(words) > n && strings.EqualFold(words[n], "of") {
			if u := p.units.Classify(cleanToken(strings.Join(words[:n], " "))); u.Convertible() {
				return u, strings.Join(words[n+1:], " "), true
			}
		}
	}
	return unit.Unit{}, "", false
}

// splitItemPrep 以第一個逗號分隔品項與處理方式，品項前的處理動詞為次要線索
func (p *Parser) splitItemPrep(rest string) (string, string) {
	item := strings.TrimSpace(rest)
	prep := ""
	if idx := strings.Index(item, ","); idx >= 0 {
		prep = strings.ToLower(strings.TrimSpace(item[idx+1:]))
		item = strings.TrimSpace(item[:idx])
	}

	stripped, verb := p.stripPrepVerb(item)
	if stripped != "" {
		item = stripped
		if prep == "" {
			prep = verb
		}
	}
	return item, prep
}

// stripPrepVerb 移除開頭的處理動詞（可帶副詞，如 "finely chopped"）
func (p *Parser) stripPrepVerb(item string) (string, string) {
	words := strings.Fields(item)
	i := 0
	if len(words) > 1 {
		if _, ok := prepAdverbs[strings.ToLower(words[0])]; ok {
			i = 1
		}
	}
	if i >= len(words) {
		return "", ""
	}
	if _, ok := p.prepVerbs[strings.ToLower(words[i])]; !ok {
		return "", ""
	}
	verb := strings.ToLower(strings.Join(words[:i+1], " "))
	return strings.Join(words[i+1:], " "), verb
}

func cleanToken(s string) string {
	return strings.TrimRight(s, ",;:")
}

func stripOf(words []string) string {
	if len(words) > 1 && strings.EqualFold(words[0], "of") {
		words = words[1:]
	}
	return strings.Join(words, " ")
}

func firstWord(text string) string {
	if f := strings.Fields(text); len(f) > 0 {
		return f[0]
	}
	return ""
}

var defaultParser = NewParser(unit.Default())

// ParseLine 使用預設單位表解析一行
func ParseLine(line string) (Row, error) {
	return defaultParser.ParseLine(line)
}

// ParseLines 使用預設單位表解析多行
func ParseLines(text string) []Row {
	return defaultParser.ParseLines(text)
}
