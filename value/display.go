package value

import (
	"encoding/hex"
	"math"
	"strconv"
	"strings"

	"github.com/itchyny/timefmt-go"
)

// DateFormat is the strftime layout used for the display form of dates.
const DateFormat = "%Y-%m-%d %H:%M:%S %z"

// DisplayString returns the canonical textual form of v. The conversion is
// deterministic and total: every value has exactly one display string.
func (v Value) DisplayString() string {
	switch v.Kind {
	case KindRow:
		var b strings.Builder
		b.WriteString("[row")
		for k := range v.Row.All() {
			b.WriteByte(' ')
			b.WriteString(k)
		}
		b.WriteByte(']')
		return b.String()
	case KindTable:
		parts := make([]string, len(v.Table))
		for i, item := range v.Table {
			parts[i] = item.DisplayString()
		}
		return strings.Join(parts, ", ")
	default:
		return v.Primitive.String()
	}
}

// String returns the display form of the primitive.
func (p Primitive) String() string {
	switch p.Kind {
	case PrimNothing:
		return ""
	case PrimString, PrimPath:
		return p.str
	case PrimInt:
		if p.num == nil {
			return "0"
		}
		return p.num.String()
	case PrimDecimal:
		return formatDecimal(p.dec)
	case PrimBoolean:
		return strconv.FormatBool(p.bln)
	case PrimDate:
		return timefmt.Format(p.date, DateFormat)
	case PrimDuration:
		return p.dur.String()
	case PrimFilesize:
		return strconv.FormatUint(p.size, 10)
	case PrimBinary:
		return hex.EncodeToString(p.bin)
	default:
		return ""
	}
}

func formatDecimal(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
