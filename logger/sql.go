package logger

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
	"unicode"
)

const tmFmtWithMS = "2006-01-02 15:04:05.999"

// NamedVar a statement parameter bound to a :name placeholder
type NamedVar struct {
	Name  string
	Value interface{}
}

func isPrintable(s []byte) bool {
	for _, r := range s {
		if !unicode.IsPrint(rune(r)) {
			return false
		}
	}
	return true
}

func formatVar(v interface{}, escaper string) string {
	if valuer, ok := v.(driver.Valuer); ok {
		v, _ = valuer.Value()
	}

	switch v := v.(type) {
	case nil:
		return "NULL"
	case bool:
		return fmt.Sprint(v)
	case time.Time:
		return escaper + v.Format(tmFmtWithMS) + escaper
	case *time.Time:
		if v == nil {
			return "NULL"
		}
		return escaper + v.Format(tmFmtWithMS) + escaper
	case []byte:
		if isPrintable(v) {
			return escaper + strings.ReplaceAll(string(v), escaper, "\\"+escaper) + escaper
		}
		return escaper + "<binary>" + escaper
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float64, float32:
		return fmt.Sprintf("%.6f", v)
	case string:
		return escaper + strings.ReplaceAll(v, escaper, "\\"+escaper) + escaper
	default:
		return escaper + strings.ReplaceAll(fmt.Sprint(v), escaper, "\\"+escaper) + escaper
	}
}

// ExplainSQL renders sql with its parameters inlined, for logging only.
// NamedVar values replace :name placeholders, other values replace ? in order.
func ExplainSQL(sql string, escaper string, vars ...interface{}) string {
	var (
		named      = map[string]string{}
		positional []string
	)

	for _, v := range vars {
		if nv, ok := v.(NamedVar); ok {
			named[nv.Name] = formatVar(nv.Value, escaper)
		} else {
			positional = append(positional, formatVar(v, escaper))
		}
	}

	var (
		buf     strings.Builder
		quote   rune
		ordinal int
		runes   = []rune(sql)
	)

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
			buf.WriteRune(r)
		case r == '`' || r == '\'' || r == '"':
			quote = r
			buf.WriteRune(r)
		case r == '?' && ordinal < len(positional):
			buf.WriteString(positional[ordinal])
			ordinal++
		case r == ':' && i+1 < len(runes) && isNameStart(runes[i+1]):
			j := i + 1
			for j < len(runes) && isNamePart(runes[j]) {
				j++
			}
			name := string(runes[i+1 : j])
			if s, ok := named[name]; ok {
				buf.WriteString(s)
			} else {
				buf.WriteString(":" + name)
			}
			i = j - 1
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNamePart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
