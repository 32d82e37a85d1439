package handlers

import (
	"bytes"
	"context"
	"html/template"
	"net/http"

	"github.com/ardanlabs/powledger/foundation/web"
)

type index struct {
	page []byte
}

// newIndex renders the index page once since its content never changes.
func newIndex(build string, nodeURL string) (*index, error) {
	tmpl, err := template.ParseFS(assets, "assets/views/index.html")
	if err != nil {
		return nil, err
	}

	data := struct {
		Build   string
		NodeURL string
	}{
		Build:   build,
		NodeURL: nodeURL,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}

	return &index{page: buf.Bytes()}, nil
}

func (ig *index) handler(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	web.SetStatusCode(ctx, http.StatusOK)

	_, err := w.Write(ig.page)
	return err
}
