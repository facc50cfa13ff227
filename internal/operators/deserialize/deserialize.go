// Package deserialize adapts a row.Row's untyped EntryFields columns into a
// caller-supplied Go struct, one column per exported struct field in
// declaration order.
package deserialize

import (
	"reflect"

	"github.com/google/uuid"
	"github.com/iamNilotpal/pyrite/internal/storage/field"
	"github.com/iamNilotpal/pyrite/internal/storage/row"
	"github.com/iamNilotpal/pyrite/pkg/errors"
)

// Operator is the minimal upstream contract Deserializing needs.
type Operator interface {
	Next() (row.Row, bool, error)
}

// Deserializing[T] wraps an Operator and decodes each pulled row into a
// fresh *T, walking the row's columns left-to-right onto T's exported
// fields in declaration order.
type Deserializing[T any] struct {
	upstream Operator
}

func New[T any](upstream Operator) *Deserializing[T] {
	return &Deserializing[T]{upstream: upstream}
}

// Next pulls the next row and decodes it into a *T, or returns ok=false on
// upstream exhaustion.
func (d *Deserializing[T]) Next() (*T, bool, error) {
	r, ok, err := d.upstream.Next()
	if err != nil || !ok {
		return nil, ok, err
	}

	var out T
	if err := Decode(r, &out); err != nil {
		return nil, false, err
	}
	return &out, true, nil
}

// Decode maps r's columns onto dst's exported struct fields in declaration
// order, column i -> field i. It errors with a QueryError if r has fewer
// columns than dst has exported fields, or if a column's Field variant
// cannot be assigned to its target field's Go type (I32 is accepted where
// an int64 field is requested, widening in place). Excess columns are
// ignored.
func Decode(r row.Row, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return errors.NewQueryError(nil, errors.ErrorCodeQueryUnsupportedTarget, "deserialize target must be a pointer to a struct").
			WithRowID(r.ID.String())
	}

	structVal := rv.Elem()
	structType := structVal.Type()

	col := 0
	for i := 0; i < structType.NumField(); i++ {
		sf := structType.Field(i)
		if !sf.IsExported() {
			continue
		}

		if col >= len(r.Fields) {
			return errors.NewShortRowError(r.ID.String(), len(r.Fields), countExported(structType))
		}

		if err := assign(structVal.Field(i), sf, r.Fields[col], r.ID.String(), col); err != nil {
			return err
		}
		col++
	}

	return nil
}

func countExported(t reflect.Type) int {
	n := 0
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).IsExported() {
			n++
		}
	}
	return n
}

func assign(target reflect.Value, sf reflect.StructField, f field.Field, rowID string, col int) error {
	switch target.Kind() {
	case reflect.Bool:
		v, ok := f.AsBool()
		if !ok {
			return typeMismatch(rowID, sf.Name, col, f, "bool")
		}
		target.SetBool(v)

	case reflect.Int32:
		v, ok := f.AsI32()
		if !ok {
			return typeMismatch(rowID, sf.Name, col, f, "int32")
		}
		target.SetInt(int64(v))

	case reflect.Int64, reflect.Int:
		if v, ok := f.AsI64(); ok {
			target.SetInt(v)
			return nil
		}
		// I32 is accepted where an I64-shaped target is requested, widened.
		if v, ok := f.AsI32(); ok {
			target.SetInt(int64(v))
			return nil
		}
		return typeMismatch(rowID, sf.Name, col, f, "int64")

	case reflect.Float64:
		v, ok := f.AsDecimal()
		if !ok {
			return typeMismatch(rowID, sf.Name, col, f, "float64")
		}
		target.SetFloat(v)

	case reflect.String:
		v, ok := f.AsString()
		if !ok {
			return typeMismatch(rowID, sf.Name, col, f, "string")
		}
		target.SetString(v)

	case reflect.Array:
		if target.Type() == reflect.TypeOf(uuid.UUID{}) {
			v, ok := f.AsUuid()
			if !ok {
				return typeMismatch(rowID, sf.Name, col, f, "uuid.UUID")
			}
			target.Set(reflect.ValueOf(v))
			return nil
		}
		return typeMismatch(rowID, sf.Name, col, f, target.Type().String())

	case reflect.Slice:
		if target.Type().Elem().Kind() == reflect.Uint8 {
			v, ok := f.AsBytes()
			if !ok {
				return typeMismatch(rowID, sf.Name, col, f, "[]byte")
			}
			cp := make([]byte, len(v))
			copy(cp, v)
			target.SetBytes(cp)
			return nil
		}
		return typeMismatch(rowID, sf.Name, col, f, target.Type().String())

	default:
		return typeMismatch(rowID, sf.Name, col, f, target.Type().String())
	}

	return nil
}

func typeMismatch(rowID, fieldName string, col int, f field.Field, want string) error {
	return errors.NewColumnTypeMismatchError(rowID, fieldName, col, kindName(f.Kind()), want)
}

func kindName(k field.Kind) string {
	switch k {
	case field.KindBool:
		return "bool"
	case field.KindI32:
		return "i32"
	case field.KindI64:
		return "i64"
	case field.KindDecimal:
		return "decimal"
	case field.KindUuid:
		return "uuid"
	case field.KindBytes:
		return "bytes"
	case field.KindString:
		return "string"
	default:
		return "unknown"
	}
}
