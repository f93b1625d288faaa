package key

import (
	"github.com/positiverec/tuplego/errs"
	"github.com/positiverec/tuplego/internal/hash"
	"github.com/positiverec/tuplego/record"
	"github.com/positiverec/tuplego/tag"
)

// FieldSource is anything a composite key can pull column values from; it
// is satisfied by *record.Buffer.
type FieldSource interface {
	First(col uint16, typeOrFilter int32) (record.Field, bool)
}

// ColumnSpec names one column of a declared composite-key column order
// (spec.md §4.I "Composite keys").
type ColumnSpec struct {
	Col      uint16
	Type     tag.Type
	Nullable bool
}

// Params configures composite (and single-value) key composition: MaxLen
// bounds the output before the prefix+hash-tail truncation rule applies
// (0 means MaxKeyLen), and Reversed requests a "reversed" index whose
// bytes are consumed tail-to-head.
type Params struct {
	MaxLen   int
	Reversed bool
}

func (p Params) maxLen() int {
	if p.MaxLen <= 0 {
		return MaxKeyLen
	}
	return p.MaxLen
}

// BuildComposite concatenates the canonical per-field keys of columns, in
// the declared order, into one lexicographically-ordered byte key
// (spec.md §4.I "Composite keys"). A missing nullable column contributes
// its type's designated NIL representation; a missing non-nullable column
// fails with errs.ErrColumnMissing. If the concatenation exceeds
// params.maxLen(), the whole result is replaced by (prefix) ‖ (64-bit hash
// of the full concatenation), per the same truncation rule single
// variable-length values use.
func BuildComposite(src FieldSource, columns []ColumnSpec, params Params) ([]byte, error) {
	var out []byte
	for _, c := range columns {
		f, ok := src.First(c.Col, int32(c.Type))
		if !ok {
			if !c.Nullable {
				return nil, errs.ErrColumnMissing
			}
			nb, err := nilBytes(c.Type)
			if err != nil {
				return nil, err
			}
			out = append(out, nb...)
			continue
		}

		enc, err := encodeField(out, f, c.Type, params.maxLen())
		if err != nil {
			return nil, err
		}
		out = enc
	}

	out = truncate(out, params.maxLen())
	if params.Reversed {
		out = Reverse(out)
	}
	return out, nil
}

// BuildSingle composes a canonical key from one field, applying the same
// truncation and reversal rules as BuildComposite.
func BuildSingle(f record.Field, typ tag.Type, params Params) ([]byte, error) {
	out, err := encodeField(nil, f, typ, params.maxLen())
	if err != nil {
		return nil, err
	}
	out = truncate(out, params.maxLen())
	if params.Reversed {
		out = Reverse(out)
	}
	return out, nil
}

func truncate(out []byte, maxLen int) []byte {
	if len(out) <= maxLen {
		return out
	}
	h := EncodeUint64(nil, hash.IDBytes(out))
	return append(append([]byte{}, out[:maxLen-hashTailLen]...), h...)
}

func encodeField(dst []byte, f record.Field, typ tag.Type, maxLen int) ([]byte, error) {
	switch typ {
	case tag.Null:
		return dst, nil
	case tag.Uint16:
		v, err := f.Uint16()
		if err != nil {
			return nil, err
		}
		return EncodeUint16(dst, v), nil
	case tag.Int32:
		v, err := f.Int32()
		if err != nil {
			return nil, err
		}
		return EncodeInt32(dst, v), nil
	case tag.Uint32:
		v, err := f.Uint32()
		if err != nil {
			return nil, err
		}
		return EncodeUint32(dst, v), nil
	case tag.Float32:
		v, err := f.Float32()
		if err != nil {
			return nil, err
		}
		return EncodeFloat32(dst, v), nil
	case tag.Int64:
		v, err := f.Int64()
		if err != nil {
			return nil, err
		}
		return EncodeInt64(dst, v), nil
	case tag.Uint64:
		v, err := f.Uint64()
		if err != nil {
			return nil, err
		}
		return EncodeUint64(dst, v), nil
	case tag.Float64:
		v, err := f.Float64()
		if err != nil {
			return nil, err
		}
		return EncodeFloat64(dst, v), nil
	case tag.Datetime:
		v, err := f.DatetimeRaw()
		if err != nil {
			return nil, err
		}
		return EncodeUint64(dst, v), nil
	case tag.Fixed96, tag.Fixed128, tag.Fixed160, tag.Fixed256:
		v, err := f.Fixed()
		if err != nil {
			return nil, err
		}
		return EncodeFixed(dst, v), nil
	case tag.CString:
		v, err := f.CString()
		if err != nil {
			return nil, err
		}
		return EncodeVariable(dst, []byte(v), maxLen), nil
	case tag.Opaque:
		v, err := f.Opaque()
		if err != nil {
			return nil, err
		}
		return EncodeVariable(dst, v, maxLen), nil
	default:
		return nil, errs.ErrInvalid
	}
}

// nilBytes returns the designated NIL representation for typ: all-zero
// bytes of the type's normal encoded width for fixed types (which is the
// minimum possible encoded value for every type this codec supports, so a
// NIL sorts before every real value of that column), or an empty byte
// string for variable-length types (consistent with "shorter sorts less
// on an equal prefix"). This resolves spec.md §4.I's "type-specific NIL
// representation" without guessing at a magic sentinel distinct from real
// data, at the cost of NIL being indistinguishable from an explicit
// all-zero/empty value of the same column — acceptable here since that
// value already sorts first among reals, so no real value is displaced.
func nilBytes(typ tag.Type) ([]byte, error) {
	switch typ {
	case tag.Null, tag.CString, tag.Opaque:
		return nil, nil
	case tag.Uint16:
		return make([]byte, 2), nil
	case tag.Int32, tag.Uint32, tag.Float32:
		return make([]byte, 4), nil
	case tag.Int64, tag.Uint64, tag.Float64, tag.Datetime:
		return make([]byte, 8), nil
	case tag.Fixed96, tag.Fixed128, tag.Fixed160, tag.Fixed256:
		n, _ := typ.FixedBytes()
		return make([]byte, n), nil
	default:
		return nil, errs.ErrInvalid
	}
}
