package mid_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ardanlabs/powledger/business/web/mid"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestCors(t *testing.T) {
	type table struct {
		origin string
		vary   string
	}

	tt := []table{
		{origin: "*", vary: ""},
		{origin: "http://localhost:3080", vary: "Origin"},
	}

	t.Log("Given the need to let the viewer call the ledger api.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen the allowed origin is %q.", testID, tst.origin)
				{
					var called bool
					next := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
						called = true
						return nil
					}

					w := httptest.NewRecorder()
					r := httptest.NewRequest(http.MethodOptions, "/v1/tx/submit", nil)
					if err := mid.Cors(tst.origin)(next)(context.Background(), w, r); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould run the handler: %v", failed, testID, err)
					}
					if !called {
						t.Fatalf("\t%s\tTest %d:\tShould call the next handler.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould call the next handler.", success, testID)

					hdr := w.Header()
					if hdr.Get("Access-Control-Allow-Origin") != tst.origin {
						t.Fatalf("\t%s\tTest %d:\tShould allow the origin, got %q.", failed, testID, hdr.Get("Access-Control-Allow-Origin"))
					}
					if hdr.Get("Access-Control-Allow-Methods") != "GET, POST, OPTIONS" {
						t.Fatalf("\t%s\tTest %d:\tShould allow the api methods, got %q.", failed, testID, hdr.Get("Access-Control-Allow-Methods"))
					}
					if hdr.Get("Access-Control-Allow-Headers") != "Accept, Content-Type" {
						t.Fatalf("\t%s\tTest %d:\tShould allow the json headers, got %q.", failed, testID, hdr.Get("Access-Control-Allow-Headers"))
					}
					t.Logf("\t%s\tTest %d:\tShould set the cors headers.", success, testID)

					if hdr.Get("Vary") != tst.vary {
						t.Fatalf("\t%s\tTest %d:\tShould set Vary to %q, got %q.", failed, testID, tst.vary, hdr.Get("Vary"))
					}
					t.Logf("\t%s\tTest %d:\tShould set the Vary header.", success, testID)
				}
			}

			t.Run(tst.origin, f)
		}
	}
}
