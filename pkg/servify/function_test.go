package servify

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFuncSignatures(t *testing.T) {
	ctx := context.Background()

	f, err := FromFunc(func(a, b int64) int64 { return a + b }, "a", "b")
	require.NoError(t, err)
	out, err := f.Call(ctx, []any{int64(1), int64(2)})
	require.NoError(t, err)
	assert.Equal(t, int64(3), out)

	f, err = FromFunc(func(ctx context.Context, s string) (string, error) { return s + "!", nil }, "s")
	require.NoError(t, err)
	assert.Equal(t, []string{"s"}, f.Names())
	out, err = f.Call(ctx, []any{"hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi!", out)

	boom := errors.New("boom")
	f, err = FromFunc(func(int64) error { return boom }, "x")
	require.NoError(t, err)
	_, err = f.Call(ctx, []any{int64(1)})
	assert.ErrorIs(t, err, boom)

	f, err = FromFunc(func() {})
	require.NoError(t, err)
	out, err = f.Call(ctx, nil)
	assert.NoError(t, err)
	assert.Nil(t, out)
}

func TestFromFuncRejects(t *testing.T) {
	cases := map[string]struct {
		fn    any
		names []string
	}{
		"not a func":     {42, nil},
		"nil func":       {(func())(nil), nil},
		"variadic":       {func(a ...int) {}, []string{"a"}},
		"too few names":  {func(a, b int) {}, []string{"a"}},
		"too many names": {func(a int) {}, []string{"a", "b"}},
		"bad results":    {func() (int, int) { return 0, 0 }, nil},
		"three results":  {func() (int, int, error) { return 0, 0, nil }, nil},
		"duplicate":      {func(a, b int) {}, []string{"a", "a"}},
		"empty name":     {func(a int) {}, []string{""}},
	}
	for name, tc := range cases {
		_, err := FromFunc(tc.fn, tc.names...)
		assert.Error(t, err, name)
	}
	assert.Panics(t, func() { MustFromFunc(42) })
}

func TestFromFuncOptionalParams(t *testing.T) {
	f := MustFromFunc(func(a int64, b *int64, c []any, d map[string]any, e any) int { return 0 }, "a", "b", "c", "d", "e")
	assert.Equal(t, []Param{
		{Name: "a"},
		{Name: "b", Optional: true},
		{Name: "c", Optional: true},
		{Name: "d", Optional: true},
		{Name: "e", Optional: true},
	}, f.Params)
}

func TestConvert(t *testing.T) {
	var (
		i   int
		i8  int8
		u   uint
		f32 float32
		f64 float64
		ps  *string
		pi  *int
		s   string
	)
	ok := []struct {
		in   any
		to   any
		want any
	}{
		{int64(5), i, 5},
		{int64(-5), i8, int8(-5)},
		{int64(5), u, uint(5)},
		{int64(5), f64, 5.0},
		{2.5, f32, float32(2.5)},
		{30.0, i, 30},
		{"x", s, "x"},
		{nil, ps, (*string)(nil)},
	}
	for _, tc := range ok {
		v, err := convert(tc.in, reflect.TypeOf(tc.to))
		require.NoError(t, err, "%#v -> %T", tc.in, tc.to)
		assert.Equal(t, tc.want, v.Interface())
	}

	v, err := convert(int64(7), reflect.TypeOf(pi))
	require.NoError(t, err)
	assert.Equal(t, 7, *(v.Interface().(*int)))

	bad := []struct {
		in any
		to any
	}{
		{int64(300), i8},
		{int64(-1), u},
		{30.5, i},
		{"x", i},
		{int64(1), s},
		{nil, i},
		{[]any{1}, s},
	}
	for _, tc := range bad {
		_, err := convert(tc.in, reflect.TypeOf(tc.to))
		assert.Error(t, err, "%#v -> %T", tc.in, tc.to)
	}
}

func TestBind(t *testing.T) {
	ctx := context.Background()

	f0 := Bind0(func(context.Context) (string, error) { return "zero", nil })
	out, err := f0.Call(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "zero", out)

	f3 := Bind3("a", "b", "c", func(_ context.Context, a int, b float64, c *string) (string, error) {
		if c == nil {
			return "nil", nil
		}
		return *c, nil
	})
	assert.Equal(t, []Param{{Name: "a"}, {Name: "b"}, {Name: "c", Optional: true}}, f3.Params)
	out, err = f3.Call(ctx, []any{int64(1), int64(2), nil})
	require.NoError(t, err)
	assert.Equal(t, "nil", out)
	out, err = f3.Call(ctx, []any{int64(1), 2.0, "c"})
	require.NoError(t, err)
	assert.Equal(t, "c", out)

	_, err = f3.Call(ctx, []any{"one", 2.0, nil})
	assert.ErrorIs(t, err, ErrArgumentShape)

	f1 := Bind1("v", func(_ context.Context, v any) (any, error) { return v, nil })
	out, err = f1.Call(ctx, []any{nil})
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestBindPayload(t *testing.T) {
	f := Function{
		Params: []Param{{Name: "a"}, {Name: "b", Optional: true}},
		Call:   func(context.Context, []any) (any, error) { return nil, nil },
	}

	args, err := f.bind(map[string]any{"a": 1, "b": 2})
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2}, args)

	args, err = f.bind(map[string]any{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, []any{1, nil}, args)

	_, err = f.bind(map[string]any{"b": 2})
	assert.ErrorIs(t, err, ErrArgumentShape)

	_, err = f.bind(map[string]any{"a": 1, "z": 0, "y": 0})
	require.ErrorIs(t, err, ErrArgumentShape)
	assert.Contains(t, err.Error(), `["y" "z"]`)
}

func TestRecoverHelpers(t *testing.T) {
	assert.Nil(t, RecoverInterface(errors.New("x")))
	assert.Equal(t, "", RecoverStack(errors.New("x")))

	h := &Handler{fn: MustFromFunc(func() int { panic(7) })}
	_, err := h.invoke(context.Background(), map[string]any{})
	require.Error(t, err)
	assert.Equal(t, 7, RecoverInterface(err))
	assert.NotEmpty(t, RecoverStack(err))
	assert.Equal(t, "panic: 7", errors.Unwrap(err).Error())
}
