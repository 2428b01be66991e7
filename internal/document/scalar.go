package document

// Kind is the kind of a scalar.
type Kind int

const (
	String Kind = iota
	Number
	Bool
	Null
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "boolean"
	case Null:
		return "null"
	default:
		return "unknown"
	}
}

// Scalar is a leaf value. Text holds the string contents for strings, the
// literal as written for numbers, "true"/"false" for booleans and "null"
// for null, so rendering a scalar never reformats it.
type Scalar struct {
	Kind Kind
	Text string
}

func (Scalar) value() {}

// Str returns a string scalar.
func Str(s string) Scalar { return Scalar{Kind: String, Text: s} }

// Num returns a number scalar for a literal accepted by IsNumber.
func Num(literal string) Scalar { return Scalar{Kind: Number, Text: literal} }

// Boolean returns a boolean scalar.
func Boolean(b bool) Scalar {
	if b {
		return Scalar{Kind: Bool, Text: "true"}
	}
	return Scalar{Kind: Bool, Text: "false"}
}

// NullValue returns the null scalar.
func NullValue() Scalar { return Scalar{Kind: Null, Text: "null"} }

// ParseScalar coerces markup text into a scalar: number literals become
// numbers, "true" and "false" become booleans and everything else stays a
// string.
func ParseScalar(s string) Scalar {
	switch {
	case s == "true":
		return Boolean(true)
	case s == "false":
		return Boolean(false)
	case IsNumber(s):
		return Num(s)
	default:
		return Str(s)
	}
}

// IsNumber reports whether s is a number literal: an optional minus sign,
// an integer part without leading zeros, an optional fraction and an
// optional exponent.
func IsNumber(s string) bool {
	if len(s) == 0 {
		return false
	}
	i := 0

	// Optional sign.
	if s[i] == '-' {
		if len(s) == 1 {
			return false
		}
		i++
	}

	var ok bool
	if i, ok = parseIntegerPart(s, i); !ok {
		return false
	}
	if i, ok = parseFractionalPart(s, i); !ok {
		return false
	}
	if i, ok = parseExponentPart(s, i); !ok {
		return false
	}

	// Must consume the whole string.
	return i == len(s)
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func consumeDigits(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i
}

func parseIntegerPart(s string, i int) (int, bool) {
	integerStart := i
	i = consumeDigits(s, i)
	if i == integerStart {
		return i, false // No digits found.
	}
	if i-integerStart > 1 && s[integerStart] == '0' {
		return i, false // Leading zeros are not allowed.
	}
	return i, true
}

func parseFractionalPart(s string, i int) (int, bool) {
	if i >= len(s) || s[i] != '.' {
		return i, true
	}
	i++ // Consume '.'.
	fractionStart := i
	i = consumeDigits(s, i)
	return i, i != fractionStart
}

func parseExponentPart(s string, i int) (int, bool) {
	if i >= len(s) || (s[i] != 'e' && s[i] != 'E') {
		return i, true
	}
	i++ // Consume 'e' or 'E'.
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	exponentStart := i
	i = consumeDigits(s, i)
	return i, i != exponentStart
}
