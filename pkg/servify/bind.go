package servify

import (
	"context"
	"fmt"
	"reflect"
)

// Bind0 wraps a typed func that takes no arguments.
func Bind0[R any](fn func(context.Context) (R, error)) Function {
	return Function{
		Call: func(ctx context.Context, _ []any) (any, error) {
			return fn(ctx)
		},
	}
}

// Bind1 wraps a typed one-argument func without going through FromFunc's
// signature inspection. A pointer, slice, map or interface A is optional.
func Bind1[A, R any](a string, fn func(context.Context, A) (R, error)) Function {
	return Function{
		Params: []Param{param[A](a)},
		Call: func(ctx context.Context, args []any) (any, error) {
			x, err := arg[A](a, args[0])
			if err != nil {
				return nil, err
			}
			return fn(ctx, x)
		},
	}
}

// Bind2 is Bind1 for two arguments, named a and b in order.
func Bind2[A, B, R any](a, b string, fn func(context.Context, A, B) (R, error)) Function {
	return Function{
		Params: []Param{param[A](a), param[B](b)},
		Call: func(ctx context.Context, args []any) (any, error) {
			x, err := arg[A](a, args[0])
			if err != nil {
				return nil, err
			}
			y, err := arg[B](b, args[1])
			if err != nil {
				return nil, err
			}
			return fn(ctx, x, y)
		},
	}
}

// Bind3 is Bind1 for three arguments.
func Bind3[A, B, C, R any](a, b, c string, fn func(context.Context, A, B, C) (R, error)) Function {
	return Function{
		Params: []Param{param[A](a), param[B](b), param[C](c)},
		Call: func(ctx context.Context, args []any) (any, error) {
			x, err := arg[A](a, args[0])
			if err != nil {
				return nil, err
			}
			y, err := arg[B](b, args[1])
			if err != nil {
				return nil, err
			}
			z, err := arg[C](c, args[2])
			if err != nil {
				return nil, err
			}
			return fn(ctx, x, y, z)
		},
	}
}

func typeOf[T any]() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

func param[T any](name string) Param {
	return Param{Name: name, Optional: nillable(typeOf[T]())}
}

func arg[T any](name string, v any) (T, error) {
	var zero T
	rv, err := convert(v, typeOf[T]())
	if err != nil {
		return zero, fmt.Errorf("%w: argument %q: %v", ErrArgumentShape, name, err)
	}
	// comma-ok: a nil interface value asserts to the zero T
	out, _ := rv.Interface().(T)
	return out, nil
}
