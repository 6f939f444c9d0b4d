// Package envelope builds the two JSON shapes every response takes:
//
//	{"result": <value>, "status": 200}
//	{"error": "<Label>: <message>", "status": <code>}
package envelope

import (
	"fmt"
	"net/http"

	"github.com/joeydtaylor/servifier/pkg/codec"
)

var labels = map[int]string{
	http.StatusBadRequest:          "Bad Request",
	http.StatusUnauthorized:        "Unauthorized",
	http.StatusForbidden:           "Forbidden",
	http.StatusNotFound:            "Not Found",
	http.StatusMethodNotAllowed:    "Method Not Allowed",
	http.StatusUnprocessableEntity: "Invalid Request",
	http.StatusInternalServerError: "Internal Server Error",
}

// Label returns the human-readable label of a known error status. Asking for
// an unknown code is a programming error and panics.
func Label(code int) string {
	l, ok := labels[code]
	if !ok {
		panic(fmt.Sprintf("envelope: no label for status %d", code))
	}
	return l
}

type success struct {
	Result any `json:"result"`
	Status int `json:"status"`
}

type failure struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// Response is a built envelope and the HTTP status it travels with.
type Response struct {
	Status int
	body   any
}

func OK(result any) Response {
	return Response{Status: http.StatusOK, body: success{Result: result, Status: http.StatusOK}}
}

func Error(msg string, code int) Response {
	return Response{
		Status: code,
		body:   failure{Error: Label(code) + ": " + msg, Status: code},
	}
}

// Body exposes the envelope value for encoders other than Encode.
func (r Response) Body() any { return r.body }

func (r Response) Encode(c codec.Codec) ([]byte, error) {
	return c.Marshal(r.body)
}

// Write encodes r as JSON. A result that cannot be encoded is replaced by a
// 500 envelope.
func Write(w http.ResponseWriter, r Response) {
	out, err := r.Encode(codec.JSONStrict)
	if err != nil {
		r = Error("internal failure", http.StatusInternalServerError)
		out, _ = r.Encode(codec.JSONStrict)
	}
	WriteRaw(w, out, r.Status)
}

// WriteRaw writes an already-encoded envelope.
func WriteRaw(w http.ResponseWriter, payload []byte, status int) {
	w.Header().Set("Content-Type", codec.JSONStrict.ContentType())
	w.WriteHeader(status)
	if len(payload) > 0 {
		_, _ = w.Write(payload)
		return
	}
	_, _ = w.Write([]byte(`{}`))
}
