package mid

import (
	"context"
	"net/http"

	"github.com/ardanlabs/powledger/foundation/web"
)

// Methods and headers used by the wallet and the viewer against the
// ledger api.
const (
	corsMethods = "GET, POST, OPTIONS"
	corsHeaders = "Accept, Content-Type"
	corsMaxAge  = "86400"
)

// Cors sets the response headers needed for the browser based viewer to
// call the ledger api from another origin.
func Cors(origin string) web.Middleware {

	// This is the actual middleware function to be executed.
	m := func(handler web.Handler) web.Handler {

		// Create the handler that will be attached in the middleware chain.
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			hdr := w.Header()
			hdr.Set("Access-Control-Allow-Origin", origin)
			hdr.Set("Access-Control-Allow-Methods", corsMethods)
			hdr.Set("Access-Control-Allow-Headers", corsHeaders)
			hdr.Set("Access-Control-Max-Age", corsMaxAge)

			// Responses vary by origin once the origin is fixed.
			if origin != "*" {
				hdr.Add("Vary", "Origin")
			}

			// Call the next handler.
			return handler(ctx, w, r)
		}

		return h
	}

	return m
}
