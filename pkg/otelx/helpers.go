package otelx

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// RecordSpanError marks span failed with err, using desc for the status
// description when provided.
func RecordSpanError(span trace.Span, err error, desc string) {
	if span == nil || err == nil {
		return
	}
	if desc == "" {
		desc = err.Error()
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, desc)
}

// SetSpanAttrs converts attrs to span attributes. Scalars and scalar
// slices keep their native attribute type; everything else is rendered
// as a string.
func SetSpanAttrs(span trace.Span, attrs map[string]any) {
	if span == nil || len(attrs) == 0 {
		return
	}

	kvs := make([]attribute.KeyValue, 0, len(attrs))
	for key, value := range attrs {
		kvs = append(kvs, toAttribute(key, value))
	}

	span.SetAttributes(kvs...)
}

func toAttribute(key string, value any) attribute.KeyValue {
	value, isNil := indirect(value)
	if isNil {
		return attribute.String(key, "<nil>")
	}

	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case bool:
		return attribute.Bool(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	case []bool:
		return attribute.BoolSlice(key, v)
	case []int:
		return attribute.IntSlice(key, v)
	case []int64:
		return attribute.Int64Slice(key, v)
	case []float64:
		return attribute.Float64Slice(key, v)
	case []byte:
		return attribute.String(key, string(v))
	case time.Time:
		return attribute.String(key, v.Format(time.RFC3339Nano))
	case error:
		return attribute.String(key, v.Error())
	case fmt.Stringer:
		return attribute.String(key, v.String())
	}

	return reflectAttribute(key, reflect.ValueOf(value))
}

// indirect dereferences pointers and interfaces until a concrete value
// is reached, reporting whether a nil was encountered along the way.
func indirect(value any) (any, bool) {
	if value == nil {
		return nil, true
	}
	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, true
		}
		v = v.Elem()
	}

	return v.Interface(), false
}

// reflectAttribute covers named types that miss the type switch above.
func reflectAttribute(key string, v reflect.Value) attribute.KeyValue {
	switch v.Kind() {
	case reflect.String:
		return attribute.String(key, v.String())
	case reflect.Bool:
		return attribute.Bool(key, v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return attribute.Int64(key, v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return attribute.Int64(key, int64(v.Uint()))
	case reflect.Float32, reflect.Float64:
		return attribute.Float64(key, v.Float())
	case reflect.Array:
		// A 16-byte array is treated as a uuid; account IDs travel in
		// that shape.
		if v.Len() == 16 && v.Type().Elem().Kind() == reflect.Uint8 {
			var raw [16]byte
			for i := range raw {
				raw[i] = byte(v.Index(i).Uint())
			}
			if id, err := uuid.FromBytes(raw[:]); err == nil {
				return attribute.String(key, id.String())
			}
		}

		return attribute.String(key, fmt.Sprintf("%v", v.Interface()))
	case reflect.Struct:
		return attribute.String(key, fmt.Sprintf("%+v", v.Interface()))
	default:
		return attribute.String(key, fmt.Sprintf("<unsupported type: %s>", v.Type()))
	}
}
