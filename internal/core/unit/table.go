// Package unit 提供單位別名表、物理量綱分類與單位換算。
package unit

import (
	"fmt"
	"strings"

	"recipe-normalizer/internal/core/quantity"
)

// Dimension 物理量綱
type Dimension int

const (
	// Count 計數（含未知單位）
	Count Dimension = iota
	// Volume 體積，基準單位為毫升
	Volume
	// Mass 質量，基準單位為公克
	Mass
)

func (d Dimension) String() string {
	switch d {
	case Volume:
		return "volume"
	case Mass:
		return "mass"
	default:
		return "count"
	}
}

// MarshalText 以名稱序列化
func (d Dimension) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText 由名稱反序列化
func (d *Dimension) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "volume":
		*d = Volume
	case "mass":
		*d = Mass
	case "count":
		*d = Count
	default:
		return fmt.Errorf("unknown dimension %q", text)
	}
	return nil
}

// System 度量衡制度
type System int

const (
	// Imperial 英制（美式廚房單位）
	Imperial System = iota
	// Metric 公制
	Metric
)

func (s System) String() string {
	if s == Metric {
		return "metric"
	}
	return "imperial"
}

// MarshalText 以名稱序列化
func (s System) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText 由名稱反序列化
func (s *System) UnmarshalText(text []byte) error {
	parsed, err := ParseSystem(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSystem 解析制度名稱
func ParseSystem(name string) (System, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "imperial", "us", "customary":
		return Imperial, nil
	case "metric", "si":
		return Metric, nil
	default:
		return Imperial, fmt.Errorf("unknown measurement system %q", name)
	}
}

// Code 標準單位代碼
type Code string

// 標準單位代碼
const (
	TSP    Code = "TSP"
	TBSP   Code = "TBSP"
	FLOZ   Code = "FLOZ"
	CUP    Code = "CUP"
	PINT   Code = "PINT"
	QUART  Code = "QUART"
	GALLON Code = "GALLON"
	OZ     Code = "OZ"
	LBS    Code = "LBS"
	ML     Code = "ML"
	L      Code = "L"
	G      Code = "G"
	KG     Code = "KG"
	EACH   Code = "EACH"
)

// Unit 單位分類結果。未知單位 Known 為 false、量綱為 Count，Label 保留原始輸入。
type Unit struct {
	Code      Code      `json:"code,omitempty"`
	Label     string    `json:"label"`
	Dimension Dimension `json:"dimension"`
	System    System    `json:"system"`
	Known     bool      `json:"known"`
}

// Convertible 是否可在體積或質量階梯間換算
func (u Unit) Convertible() bool {
	return u.Known && u.Dimension != Count
}

// Name 列資料中儲存的單位字串：已知單位為代碼，未知單位為原始標籤
func (u Unit) Name() string {
	if u.Known {
		return string(u.Code)
	}
	return u.Label
}

// definition 單位定義，base 為每單位相當的基準單位量（毫升或公克）
type definition struct {
	label   string
	dim     Dimension
	system  System
	base    quantity.Quantity
	aliases []string
}

var (
	teaspoonML = quantity.MustParse("4.92892159375")
	ounceG     = quantity.MustParse("28.349523125")
)

func tsp(n int64) quantity.Quantity { return teaspoonML.Mul(quantity.FromInt(n)) }

var definitions = map[Code]definition{
	TSP: {"tsp", Volume, Imperial, tsp(1), []string{
		"tsp", "tsps", "tspn", "teaspoon", "teaspoons", "teaspoonful", "teaspoonfuls",
		"tea spoon", "tea spoons", "teaspon", "teaspons", "teasp", "teaspoom",
	}},
	TBSP: {"tbsp", Volume, Imperial, tsp(3), []string{
		"tbsp", "tbsps", "tbs", "tbl", "tbls", "tblsp", "tbspn", "tablespoon", "tablespoons",
		"tablespoonful", "tablespoonfuls", "table spoon", "table spoons", "tablespon", "tablespons", "tablspoon",
	}},
	FLOZ: {"fl oz", Volume, Imperial, tsp(6), []string{
		"fl oz", "floz", "fl ozs", "fluid ounce", "fluid ounces", "fl ounce", "fl ounces", "fluid oz",
	}},
	CUP: {"cup", Volume, Imperial, tsp(48), []string{
		"c", "cp", "cup", "cups", "cupful", "cupfuls", "cupp", "cupps",
	}},
	PINT: {"pt", Volume, Imperial, tsp(96), []string{
		"pt", "pts", "pint", "pints", "pintes",
	}},
	QUART: {"qt", Volume, Imperial, tsp(192), []string{
		"qt", "qts", "quart", "quarts", "quort", "quorts",
	}},
	GALLON: {"gal", Volume, Imperial, tsp(768), []string{
		"gal", "gals", "gallon", "gallons", "galon", "galons", "gallan",
	}},
	OZ: {"oz", Mass, Imperial, ounceG, []string{
		"oz", "ozs", "ounce", "ounces", "ounze", "onces", "ozz",
	}},
	LBS: {"lbs", Mass, Imperial, ounceG.Mul(quantity.FromInt(16)), []string{
		"lb", "lbs", "lbz", "pound", "pounds", "pnd", "pnds", "pund",
	}},
	ML: {"ml", Volume, Metric, quantity.FromInt(1), []string{
		"ml", "mls", "milliliter", "milliliters", "millilitre", "millilitres", "mililiter", "mililiters", "cc",
	}},
	L: {"l", Volume, Metric, quantity.FromInt(1000), []string{
		"l", "lt", "ltr", "ltrs", "liter", "liters", "litre", "litres",
	}},
	G: {"g", Mass, Metric, quantity.FromInt(1), []string{
		"g", "gr", "grm", "grms", "gram", "grams", "gramme", "grammes",
	}},
	KG: {"kg", Mass, Metric, quantity.FromInt(1000), []string{
		"kg", "kgs", "kilo", "kilos", "kilogram", "kilograms", "kilogramme", "kilogrammes",
	}},
	EACH: {"each", Count, Imperial, quantity.FromInt(1), []string{
		"each", "ea", "pc", "pcs", "piece", "pieces", "whole", "unit", "units", "ct", "count",
	}},
}

// Table 不可變的單位別名查詢表，建立後可併發讀取
type Table struct {
	aliases map[string]Code
}

var defaultTable = NewTable()

// Default 回傳共用的預設查詢表
func Default() *Table {
	return defaultTable
}

// NewTable 建立單位查詢表
func NewTable() *Table {
	t := &Table{aliases: make(map[string]Code, 160)}
	for code, def := range definitions {
		t.aliases[normalizeKey(string(code))] = code
		for _, alias := range def.aliases {
			t.aliases[normalizeKey(alias)] = code
		}
	}
	return t
}

// normalizeKey 忽略大小寫、句點、"(s)" 與多餘空白
func normalizeKey(text string) string {
	s := strings.ToLower(text)
	s = strings.ReplaceAll(s, "(s)", "")
	s = strings.ReplaceAll(s, ".", "")
	return strings.Join(strings.Fields(s), " ")
}

// Classify 將任意單位文字分類。永不失敗：未知單位回傳 Count 量綱並保留原始文字。
func (t *Table) Classify(text string) Unit {
	if code, ok := t.aliases[normalizeKey(text)]; ok {
		return t.MustLookup(code)
	}
	return Unit{
		Label:     strings.TrimSpace(text),
		Dimension: Count,
	}
}

// Lookup 以標準代碼查詢單位
func (t *Table) Lookup(code Code) (Unit, bool) {
	def, ok := definitions[code]
	if !ok {
		return Unit{}, false
	}
	return Unit{
		Code:      code,
		Label:     def.label,
		Dimension: def.dim,
		System:    def.system,
		Known:     true,
	}, true
}

// MustLookup 查詢必定存在的標準代碼
func (t *Table) MustLookup(code Code) Unit {
	u, ok := t.Lookup(code)
	if !ok {
		panic(fmt.Sprintf("unit: unknown code %q", code))
	}
	return u
}

// Recognizes 文字是否為已知單位
func (t *Table) Recognizes(text string) bool {
	_, ok := t.aliases[normalizeKey(text)]
	return ok
}

// Classify 使用預設查詢表分類
func Classify(text string) Unit {
	return defaultTable.Classify(text)
}
