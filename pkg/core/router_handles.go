package core

import (
	"net/http"

	"github.com/joeydtaylor/servifier/pkg/envelope"
)

type fieldInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

type handleInfo struct {
	Name          string      `json:"name"`
	Path          string      `json:"path"`
	Authenticated bool        `json:"authenticated"`
	Params        []string    `json:"params"`
	Fields        []fieldInfo `json:"fields,omitempty"`
}

// listHandles serves the operator view of the table. Secrets never leave it.
func listHandles(t *Table) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		hs := t.Handlers()
		out := make([]handleInfo, 0, len(hs))
		for _, h := range hs {
			info := handleInfo{
				Name:          h.Name(),
				Path:          h.Path(),
				Authenticated: h.Authenticated(),
				Params:        []string{},
			}
			for _, p := range h.Params() {
				info.Params = append(info.Params, p.Name)
			}
			if v := h.Validator(); v != nil {
				for _, f := range v.Fields() {
					info.Fields = append(info.Fields, fieldInfo{
						Name:     f.Name,
						Type:     string(f.Field.Kind()),
						Required: f.Field.Required(),
					})
				}
			}
			out = append(out, info)
		}
		envelope.Write(w, envelope.OK(out))
	}
}
