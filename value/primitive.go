package value

import (
	"math/big"
	"time"
)

// PrimitiveKind identifies the scalar stored in a Primitive.
type PrimitiveKind uint8

const (
	PrimNothing PrimitiveKind = iota
	PrimString
	PrimInt
	PrimDecimal
	PrimBoolean
	PrimDate
	PrimDuration
	PrimFilesize
	PrimPath
	PrimBinary
)

func (k PrimitiveKind) String() string {
	switch k {
	case PrimNothing:
		return "nothing"
	case PrimString:
		return "string"
	case PrimInt:
		return "int"
	case PrimDecimal:
		return "decimal"
	case PrimBoolean:
		return "boolean"
	case PrimDate:
		return "date"
	case PrimDuration:
		return "duration"
	case PrimFilesize:
		return "filesize"
	case PrimPath:
		return "path"
	case PrimBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// Primitive is a scalar value. The zero value is Nothing.
type Primitive struct {
	Kind PrimitiveKind

	str  string // String, Path
	num  *big.Int
	dec  float64
	bln  bool
	date time.Time
	dur  time.Duration
	size uint64
	bin  []byte
}

// Str returns the payload of a String or Path primitive.
func (p Primitive) Str() (string, bool) {
	if p.Kind == PrimString || p.Kind == PrimPath {
		return p.str, true
	}
	return "", false
}

// Int returns the payload of an Int primitive.
func (p Primitive) Int() (*big.Int, bool) {
	if p.Kind == PrimInt && p.num != nil {
		return new(big.Int).Set(p.num), true
	}
	return nil, false
}

// Decimal returns the payload of a Decimal primitive.
func (p Primitive) Decimal() (float64, bool) {
	return p.dec, p.Kind == PrimDecimal
}

// Bool returns the payload of a Boolean primitive.
func (p Primitive) Bool() (bool, bool) {
	return p.bln, p.Kind == PrimBoolean
}

// Date returns the payload of a Date primitive.
func (p Primitive) Date() (time.Time, bool) {
	return p.date, p.Kind == PrimDate
}

// Duration returns the payload of a Duration primitive.
func (p Primitive) Duration() (time.Duration, bool) {
	return p.dur, p.Kind == PrimDuration
}

// Filesize returns the byte count of a Filesize primitive.
func (p Primitive) Filesize() (uint64, bool) {
	return p.size, p.Kind == PrimFilesize
}

// Binary returns a copy of the payload of a Binary primitive.
func (p Primitive) Binary() ([]byte, bool) {
	if p.Kind != PrimBinary {
		return nil, false
	}
	return append([]byte(nil), p.bin...), true
}

func Nothing(tag Tag) Value {
	return NewPrimitiveValue(Primitive{Kind: PrimNothing}, tag)
}

func String(s string, tag Tag) Value {
	return NewPrimitiveValue(Primitive{Kind: PrimString, str: s}, tag)
}

func Int(i int64, tag Tag) Value {
	return NewPrimitiveValue(Primitive{Kind: PrimInt, num: big.NewInt(i)}, tag)
}

// BigInt copies i into an Int value. A nil i is treated as zero.
func BigInt(i *big.Int, tag Tag) Value {
	n := new(big.Int)
	if i != nil {
		n.Set(i)
	}
	return NewPrimitiveValue(Primitive{Kind: PrimInt, num: n}, tag)
}

func Decimal(f float64, tag Tag) Value {
	return NewPrimitiveValue(Primitive{Kind: PrimDecimal, dec: f}, tag)
}

func Bool(b bool, tag Tag) Value {
	return NewPrimitiveValue(Primitive{Kind: PrimBoolean, bln: b}, tag)
}

func Date(t time.Time, tag Tag) Value {
	return NewPrimitiveValue(Primitive{Kind: PrimDate, date: t}, tag)
}

func Duration(d time.Duration, tag Tag) Value {
	return NewPrimitiveValue(Primitive{Kind: PrimDuration, dur: d}, tag)
}

func Filesize(n uint64, tag Tag) Value {
	return NewPrimitiveValue(Primitive{Kind: PrimFilesize, size: n}, tag)
}

func Path(p string, tag Tag) Value {
	return NewPrimitiveValue(Primitive{Kind: PrimPath, str: p}, tag)
}

func Binary(b []byte, tag Tag) Value {
	return NewPrimitiveValue(Primitive{Kind: PrimBinary, bin: append([]byte(nil), b...)}, tag)
}
