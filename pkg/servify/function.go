package servify

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/muir/reflectutils"
)

// ErrArgumentShape marks a payload whose keys or values do not fit the
// function's parameter list.
var ErrArgumentShape = errors.New("argument shape mismatch")

// Param is one named parameter. Optional parameters receive nil when the
// payload does not carry them.
type Param struct {
	Name     string
	Optional bool
}

// Function is a callable with an explicit ordered parameter list. Call
// receives arguments positionally, in Params order.
type Function struct {
	Params []Param
	Call   func(ctx context.Context, args []any) (any, error)
}

// Names returns parameter names in order.
func (f Function) Names() []string {
	out := make([]string, len(f.Params))
	for i, p := range f.Params {
		out[i] = p.Name
	}
	return out
}

func (f Function) check() error {
	if f.Call == nil {
		return errors.New("servify: function has no Call")
	}
	seen := make(map[string]struct{}, len(f.Params))
	for i, p := range f.Params {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("servify: parameter %d has no name", i)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("servify: duplicate parameter %q", p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

// bind maps payload keys onto positional arguments.
func (f Function) bind(payload map[string]any) ([]any, error) {
	args := make([]any, len(f.Params))
	used := 0
	for i, p := range f.Params {
		v, ok := payload[p.Name]
		if !ok && !p.Optional {
			return nil, fmt.Errorf("%w: missing argument %q", ErrArgumentShape, p.Name)
		}
		if ok {
			used++
		}
		args[i] = v
	}
	if used != len(payload) {
		known := make(map[string]struct{}, len(f.Params))
		for _, p := range f.Params {
			known[p.Name] = struct{}{}
		}
		var extra []string
		for k := range payload {
			if _, ok := known[k]; !ok {
				extra = append(extra, k)
			}
		}
		sort.Strings(extra)
		return nil, fmt.Errorf("%w: unexpected arguments %q", ErrArgumentShape, extra)
	}
	return args, nil
}

var (
	ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errType = reflect.TypeOf((*error)(nil)).Elem()
)

// FromFunc adapts any Go func. fn may take a leading context.Context; names
// must name every other parameter in order. Results may be (), (R), (error)
// or (R, error). Pointer, slice, map and interface parameters are optional.
func FromFunc(fn any, names ...string) (Function, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return Function{}, fmt.Errorf("servify: %T is not a func", fn)
	}
	t := v.Type()
	if t.IsVariadic() {
		return Function{}, fmt.Errorf("servify: variadic %s is not supported", reflectutils.TypeName(t))
	}
	first := 0
	if t.NumIn() > 0 && t.In(0) == ctxType {
		first = 1
	}
	if n := t.NumIn() - first; n != len(names) {
		return Function{}, fmt.Errorf("servify: %s takes %d arguments, %d names given", reflectutils.TypeName(t), n, len(names))
	}
	switch {
	case t.NumOut() <= 1:
	case t.NumOut() == 2 && t.Out(1) == errType:
	default:
		return Function{}, fmt.Errorf("servify: %s must return (R), (error) or (R, error)", reflectutils.TypeName(t))
	}

	params := make([]Param, len(names))
	for i, n := range names {
		params[i] = Param{Name: n, Optional: nillable(t.In(first + i))}
	}
	f := Function{
		Params: params,
		Call: func(ctx context.Context, args []any) (any, error) {
			in := make([]reflect.Value, 0, t.NumIn())
			if first == 1 {
				in = append(in, reflect.ValueOf(&ctx).Elem())
			}
			for i, a := range args {
				rv, err := convert(a, t.In(first+i))
				if err != nil {
					return nil, fmt.Errorf("%w: argument %q: %v", ErrArgumentShape, names[i], err)
				}
				in = append(in, rv)
			}
			return results(t, v.Call(in))
		},
	}
	if err := f.check(); err != nil {
		return Function{}, err
	}
	return f, nil
}

// MustFromFunc is FromFunc for package-level registration.
func MustFromFunc(fn any, names ...string) Function {
	f, err := FromFunc(fn, names...)
	if err != nil {
		panic(err)
	}
	return f
}

func results(t reflect.Type, out []reflect.Value) (any, error) {
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if t.Out(0) == errType {
			if e, _ := out[0].Interface().(error); e != nil {
				return nil, e
			}
			return nil, nil
		}
		return out[0].Interface(), nil
	default:
		if e, _ := out[1].Interface().(error); e != nil {
			return nil, e
		}
		return out[0].Interface(), nil
	}
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return true
	}
	return false
}

// convert turns a decoded JSON value into a value of type t. Numbers convert
// between Go numeric kinds as long as no precision or range is lost.
func convert(a any, t reflect.Type) (reflect.Value, error) {
	if a == nil {
		if nillable(t) {
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("no value for %s", reflectutils.TypeName(t))
	}
	v := reflect.ValueOf(a)
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	if t.Kind() == reflect.Ptr {
		inner, err := convert(a, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(inner)
		return p, nil
	}
	if out, ok := numeric(v, t); ok {
		return out, nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %s as %s", reflectutils.TypeName(v.Type()), reflectutils.TypeName(t))
}

func numeric(v reflect.Value, t reflect.Type) (reflect.Value, bool) {
	switch {
	case isInt(v.Kind()) && isInt(t.Kind()):
		if reflect.Zero(t).OverflowInt(v.Int()) {
			return reflect.Value{}, false
		}
		return v.Convert(t), true
	case isInt(v.Kind()) && isUint(t.Kind()):
		x := v.Int()
		if x < 0 || reflect.Zero(t).OverflowUint(uint64(x)) {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(uint64(x)).Convert(t), true
	case isInt(v.Kind()) && isFloat(t.Kind()):
		return v.Convert(t), true
	case isFloat(v.Kind()) && isFloat(t.Kind()):
		return v.Convert(t), true
	case isFloat(v.Kind()) && isInt(t.Kind()):
		f := v.Float()
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 || reflect.Zero(t).OverflowInt(int64(f)) {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(int64(f)).Convert(t), true
	}
	return reflect.Value{}, false
}

func isInt(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUint(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}
