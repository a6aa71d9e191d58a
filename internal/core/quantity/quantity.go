// Package quantity 提供食材數量的精確有理數表示與解析。
// 解析與換算過程一律使用有理數，僅在格式化時才四捨五入到小數位。
package quantity

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

// ErrNotANumber 數量字串無法解析
var ErrNotANumber = errors.New("not a number")

// DisplayPlaces 顯示用的小數位數
const DisplayPlaces = 2

var (
	integerPattern  = regexp.MustCompile(`^\d+$`)
	decimalPattern  = regexp.MustCompile(`^(\d+\.\d+|\.\d+|\d+\.)$`)
	fractionPattern = regexp.MustCompile(`^(\d+)/(\d+)$`)
)

// Quantity 不可變的有理數數量，零值代表 0
type Quantity struct {
	r *big.Rat
}

// New 以分子分母建立數量，den 不可為 0
func New(num, den int64) Quantity {
	return Quantity{r: big.NewRat(num, den)}
}

// FromInt 以整數建立數量
func FromInt(n int64) Quantity {
	return Quantity{r: new(big.Rat).SetInt64(n)}
}

// FromFloat 以浮點數的十進位表示建立數量，例如 85.5 → 171/2
func FromFloat(f float64) Quantity {
	r, ok := new(big.Rat).SetString(strconv.FormatFloat(f, 'f', -1, 64))
	if !ok {
		return Quantity{}
	}
	return Quantity{r: r}
}

// FromRat 複製 big.Rat 建立數量
func FromRat(r *big.Rat) Quantity {
	if r == nil {
		return Quantity{}
	}
	return Quantity{r: new(big.Rat).Set(r)}
}

// MustParse 解析失敗時 panic，僅用於常數表與測試
func MustParse(s string) Quantity {
	q, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("quantity: %q: %v", s, err))
	}
	return q
}

// Parse 解析數量字串：整數、小數、分數 "3/4" 或帶分數 "1 1/2"。
// 輸入會先經過 Normalize，因此 Unicode 分數字元亦可直接傳入。
func Parse(text string) (Quantity, error) {
	s := Normalize(text)
	if s == "" {
		return Quantity{}, fmt.Errorf("%w: empty", ErrNotANumber)
	}

	parts := strings.Split(s, " ")
	switch len(parts) {
	case 1:
		return parseSimple(parts[0])
	case 2:
		if !integerPattern.MatchString(parts[0]) || !fractionPattern.MatchString(parts[1]) {
			return Quantity{}, fmt.Errorf("%w: %q", ErrNotANumber, text)
		}
		whole, err := parseSimple(parts[0])
		if err != nil {
			return Quantity{}, err
		}
		frac, err := parseFraction(parts[1])
		if err != nil {
			return Quantity{}, err
		}
		return whole.Add(frac), nil
	default:
		return Quantity{}, fmt.Errorf("%w: %q", ErrNotANumber, text)
	}
}

func parseSimple(s string) (Quantity, error) {
	if strings.Contains(s, "/") {
		return parseFraction(s)
	}
	if !integerPattern.MatchString(s) && !decimalPattern.MatchString(s) {
		return Quantity{}, fmt.Errorf("%w: %q", ErrNotANumber, s)
	}
	s = strings.TrimSuffix(s, ".")
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return Quantity{}, fmt.Errorf("%w: %q", ErrNotANumber, s)
	}
	return Quantity{r: r}, nil
}

func parseFraction(s string) (Quantity, error) {
	m := fractionPattern.FindStringSubmatch(s)
	if m == nil {
		return Quantity{}, fmt.Errorf("%w: malformed fraction %q", ErrNotANumber, s)
	}
	num, ok := new(big.Int).SetString(m[1], 10)
	if !ok {
		return Quantity{}, fmt.Errorf("%w: %q", ErrNotANumber, s)
	}
	den, ok := new(big.Int).SetString(m[2], 10)
	if !ok || den.Sign() == 0 {
		return Quantity{}, fmt.Errorf("%w: zero denominator in %q", ErrNotANumber, s)
	}
	return Quantity{r: new(big.Rat).SetFrac(num, den)}, nil
}

func (q Quantity) rat() *big.Rat {
	if q.r == nil {
		return new(big.Rat)
	}
	return q.r
}

// Rat 回傳內部有理數的副本
func (q Quantity) Rat() *big.Rat {
	return new(big.Rat).Set(q.rat())
}

// Add 加法
func (q Quantity) Add(o Quantity) Quantity {
	return Quantity{r: new(big.Rat).Add(q.rat(), o.rat())}
}

// Sub 減法
func (q Quantity) Sub(o Quantity) Quantity {
	return Quantity{r: new(big.Rat).Sub(q.rat(), o.rat())}
}

// Mul 乘法
func (q Quantity) Mul(o Quantity) Quantity {
	return Quantity{r: new(big.Rat).Mul(q.rat(), o.rat())}
}

// Quo 除法，o 為 0 時 panic，呼叫端需先檢查 IsZero
func (q Quantity) Quo(o Quantity) Quantity {
	return Quantity{r: new(big.Rat).Quo(q.rat(), o.rat())}
}

// Cmp 比較大小，回傳 -1、0、+1
func (q Quantity) Cmp(o Quantity) int {
	return q.rat().Cmp(o.rat())
}

// Equal 數值是否相等
func (q Quantity) Equal(o Quantity) bool {
	return q.Cmp(o) == 0
}

// Sign 正負號
func (q Quantity) Sign() int {
	return q.rat().Sign()
}

// IsZero 是否為 0
func (q Quantity) IsZero() bool {
	return q.Sign() == 0
}

// Float64 最接近的浮點數值，僅供顯示與比較容差使用
func (q Quantity) Float64() float64 {
	f, _ := q.rat().Float64()
	return f
}

// Round 四捨五入到指定小數位（0.5 遠離零進位），結果仍為精確有理數
func (q Quantity) Round(places int) Quantity {
	r, ok := new(big.Rat).SetString(q.rat().FloatString(places))
	if !ok {
		return q
	}
	return Quantity{r: r}
}

// Format 四捨五入到指定小數位並去除多餘的 0，例如 1.50 → "1.5"
func (q Quantity) Format(places int) string {
	s := q.rat().FloatString(places)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}

// Display 以顯示精度格式化
func (q Quantity) Display() string {
	return q.Format(DisplayPlaces)
}

// String 回傳分數形式，例如 "3/2"
func (q Quantity) String() string {
	return q.rat().RatString()
}
