// pkg/servify/handler.go
package servify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/joeydtaylor/servifier/pkg/codec"
	"github.com/joeydtaylor/servifier/pkg/credential"
	"github.com/joeydtaylor/servifier/pkg/envelope"
	"github.com/joeydtaylor/servifier/pkg/validation"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Message classes. Callers only ever see these, never a failure's detail.
const (
	MsgCannotParse = "cannot parse body"
	MsgEmptyBody   = "empty body"
	MsgAuthFailed  = "authentication failed"
	MsgInvalidArgs = "invalid arguments"
	MsgInternal    = "internal failure"
)

// Handler runs the request pipeline for one Handle. It holds no per-request
// state and is safe for concurrent use.
type Handler struct {
	name      string
	path      string
	fn        Function
	validator *validation.Schema
	secret    *string
	timeout   time.Duration

	log *zap.Logger
	obs Observer
}

type Option func(*Handler)

func WithLogger(l *zap.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(h *Handler) {
		if o != nil {
			h.obs = o
		}
	}
}

// Servify checks a registration and builds its handler.
func Servify(h Handle, opts ...Option) (*Handler, error) {
	if err := h.check(); err != nil {
		return nil, err
	}
	hd := &Handler{
		name:      HandleName(h.Path),
		path:      h.Path,
		fn:        h.Func,
		validator: h.Validator,
		timeout:   h.Timeout,
		log:       zap.NewNop(),
		obs:       nopObserver{},
	}
	if h.AuthSecret != nil {
		s := *h.AuthSecret
		hd.secret = &s
	}
	for _, o := range opts {
		o(hd)
	}
	hd.log = hd.log.With(zap.String("handle", hd.name), zap.String("path", hd.path))
	return hd, nil
}

func (h *Handler) Name() string                  { return h.name }
func (h *Handler) Path() string                  { return h.path }
func (h *Handler) Authenticated() bool           { return h.secret != nil }
func (h *Handler) Validator() *validation.Schema { return h.validator }
func (h *Handler) Params() []Param               { return append([]Param(nil), h.fn.Params...) }

// Serve runs the pipeline over a raw body and returns the encoded envelope
// with its status.
func (h *Handler) Serve(ctx context.Context, body []byte) ([]byte, int) {
	start := time.Now()
	resp, stage := h.run(ctx, body)
	out, err := resp.Encode(codec.JSONStrict)
	if err != nil {
		h.log.Error("result encode failed", zap.Error(err))
		stage = Invoking
		resp = envelope.Error(MsgInternal, http.StatusInternalServerError)
		out, _ = resp.Encode(codec.JSONStrict)
	}
	h.obs.Observe(h.name, stage, resp.Status, time.Since(start))
	return out, resp.Status
}

// ServeHTTP reads a JSON body and writes the envelope. A non-JSON content
// type is served as an unparseable body.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body []byte
	if codec.IsJSON(r.Header.Get("Content-Type")) && r.Body != nil {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			h.log.Info("body read failed", zap.Error(err))
		} else {
			body = b
		}
	}
	out, status := h.Serve(r.Context(), body)
	envelope.WriteRaw(w, out, status)
}

func (h *Handler) run(ctx context.Context, body []byte) (envelope.Response, Stage) {
	payload, err := codec.DecodeObject(body)
	if err != nil {
		h.log.Info("cannot parse body", zap.Error(err))
		return envelope.Error(MsgCannotParse, http.StatusBadRequest), ParsingBody
	}
	if len(payload) == 0 {
		h.log.Info("empty body")
		return envelope.Error(MsgEmptyBody, http.StatusBadRequest), ParsingBody
	}

	if !credential.Check(payload, h.secret, h.log) {
		h.log.Info("authentication failed")
		return envelope.Error(MsgAuthFailed, http.StatusForbidden), Authenticating
	}
	if h.secret != nil {
		credential.Strip(payload)
	}

	if h.validator != nil {
		if err := h.validator.Validate(payload); err != nil {
			h.log.Info("invalid arguments", zap.Error(err))
			return envelope.Error(MsgInvalidArgs, http.StatusUnprocessableEntity), Validating
		}
	}

	result, err := h.invoke(ctx, payload)
	if err != nil {
		fields := []zap.Field{zap.String("invocationId", uuid.NewString()), zap.Error(err)}
		if stack := RecoverStack(err); stack != "" {
			fields = append(fields, zap.String("stack", stack))
		}
		h.log.Error("invocation failed", fields...)
		return envelope.Error(MsgInternal, http.StatusInternalServerError), Invoking
	}
	return envelope.OK(result), Responding
}

func (h *Handler) invoke(ctx context.Context, payload map[string]any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.WithStack(panicError{
				msg:   fmt.Sprint(r),
				r:     r,
				stack: string(debug.Stack()),
			})
		}
	}()
	args, err := h.fn.bind(payload)
	if err != nil {
		return nil, err
	}
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	return h.fn.Call(ctx, args)
}
