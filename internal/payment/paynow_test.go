package payment

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGateway(baseURL string) *paynowGateway {
	return &paynowGateway{
		integrationID:  "1234",
		integrationKey: "test-integration-key",
		returnURL:      "https://shop.example/return",
		resultURL:      "https://shop.example/api/orders/paynow/callback",
		baseURL:        baseURL,
		httpClient:     &http.Client{Timeout: 5 * time.Second},
	}
}

// signedResponse builds an url-encoded body whose hash covers the values
// in the order given, the way Paynow signs its responses.
func signedResponse(g *paynowGateway, pairs ...formPair) string {
	var hashInput, body strings.Builder
	for _, p := range pairs {
		hashInput.WriteString(p.value)
		body.WriteString(url.QueryEscape(p.key))
		body.WriteString("=")
		body.WriteString(url.QueryEscape(p.value))
		body.WriteString("&")
	}
	body.WriteString("hash=")
	body.WriteString(g.hash(hashInput.String()))
	return body.String()
}

func TestPaynowGateway_CreatePayment(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		var g *paynowGateway

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/initiatetransaction", r.URL.Path)
			assert.NoError(t, r.ParseForm())

			assert.Equal(t, "1234", r.Form.Get("id"))
			assert.Equal(t, "order-ref-1", r.Form.Get("reference"))
			assert.Equal(t, "20.00", r.Form.Get("amount"))
			assert.Equal(t, "buyer@example.com", r.Form.Get("authemail"))
			assert.Equal(t, "Message", r.Form.Get("status"))

			// The request hash covers the field values in submission order.
			want := g.hash(
				r.Form.Get("id") + r.Form.Get("reference") + r.Form.Get("amount") +
					r.Form.Get("additionalinfo") + r.Form.Get("returnurl") +
					r.Form.Get("resulturl") + r.Form.Get("authemail") + r.Form.Get("status"))
			assert.Equal(t, want, r.Form.Get("hash"))

			fmt.Fprint(w, signedResponse(g,
				formPair{"status", "Ok"},
				formPair{"browserurl", "https://paynow.example/pay/abc"},
				formPair{"pollurl", "https://paynow.example/poll/abc"},
			))
		}))
		defer srv.Close()

		g = testGateway(srv.URL)

		resp, err := g.CreatePayment(ctx, "order-ref-1", "buyer@example.com", "WyZar Order", 20)
		require.NoError(t, err)
		assert.Equal(t, "https://paynow.example/pay/abc", resp.RedirectURL)
		assert.Equal(t, "https://paynow.example/poll/abc", resp.PollURL)
	})

	t.Run("ErrorStatus", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "status=Error&error="+url.QueryEscape("Invalid integration id"))
		}))
		defer srv.Close()

		g := testGateway(srv.URL)

		_, err := g.CreatePayment(ctx, "ref", "a@b.c", "desc", 5)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid integration id")
	})

	t.Run("TamperedResponseHash", func(t *testing.T) {
		var g *paynowGateway
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body := signedResponse(g,
				formPair{"status", "Ok"},
				formPair{"browserurl", "https://paynow.example/pay/abc"},
				formPair{"pollurl", "https://paynow.example/poll/abc"},
			)
			fmt.Fprint(w, strings.Replace(body, "abc", "evil", 1))
		}))
		defer srv.Close()

		g = testGateway(srv.URL)

		_, err := g.CreatePayment(ctx, "ref", "a@b.c", "desc", 5)
		assert.EqualError(t, err, "invalid integrity hash")
	})

	t.Run("HTTPError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		g := testGateway(srv.URL)

		_, err := g.CreatePayment(ctx, "ref", "a@b.c", "desc", 5)
		assert.EqualError(t, err, "paynow error: http 502")
	})
}

func TestPaynowGateway_VerifyCallback(t *testing.T) {
	g := testGateway("")

	t.Run("ValidHash", func(t *testing.T) {
		body := signedResponse(g,
			formPair{"reference", "order-1"},
			formPair{"paynowreference", "PN-100"},
			formPair{"amount", "20.00"},
			formPair{"status", "Paid"},
		)

		assert.NoError(t, g.VerifyCallback([]byte(body)))
	})

	t.Run("TamperedField", func(t *testing.T) {
		body := signedResponse(g,
			formPair{"reference", "order-1"},
			formPair{"amount", "20.00"},
			formPair{"status", "Paid"},
		)
		tampered := strings.Replace(body, "20.00", "0.01", 1)

		assert.EqualError(t, g.VerifyCallback([]byte(tampered)), "invalid integrity hash")
	})

	t.Run("MissingHash", func(t *testing.T) {
		assert.EqualError(t, g.VerifyCallback([]byte("reference=order-1&status=Paid")),
			"missing integrity hash")
	})

	t.Run("EmptyKeySkipsVerificationInDev", func(t *testing.T) {
		dev := testGateway("")
		dev.integrationKey = ""

		assert.NoError(t, dev.VerifyCallback([]byte("anything=goes")))
	})

	t.Run("EmptyKeyFailsInProduction", func(t *testing.T) {
		prod := testGateway("")
		prod.integrationKey = ""
		prod.appEnv = "production"

		assert.EqualError(t, prod.VerifyCallback([]byte("anything=goes")),
			"paynow integration key not configured")
	})
}

func TestParseCallback(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		raw := "reference=order-1&paynowreference=PN-100&amount=20.00&status=Paid&pollurl=" +
			url.QueryEscape("https://paynow.example/poll/abc") + "&hash=ABC"

		p, err := ParseCallback([]byte(raw))
		require.NoError(t, err)
		assert.Equal(t, "order-1", p.Reference)
		assert.Equal(t, "PN-100", p.PaynowReference)
		assert.Equal(t, 20.0, p.Amount)
		assert.Equal(t, "Paid", p.Status)
		assert.Equal(t, "https://paynow.example/poll/abc", p.PollURL)
	})

	t.Run("MissingReference", func(t *testing.T) {
		_, err := ParseCallback([]byte("status=Paid"))
		assert.Error(t, err)
	})

	t.Run("MissingStatus", func(t *testing.T) {
		_, err := ParseCallback([]byte("reference=order-1"))
		assert.Error(t, err)
	})

	t.Run("BadAmount", func(t *testing.T) {
		_, err := ParseCallback([]byte("reference=order-1&status=Paid&amount=abc"))
		assert.Error(t, err)
	})
}

func TestIsSuccessStatus(t *testing.T) {
	assert.True(t, IsSuccessStatus(StatusPaid))
	assert.True(t, IsSuccessStatus(StatusAwaitingDelivery))
	assert.True(t, IsSuccessStatus(StatusDelivered))
	assert.False(t, IsSuccessStatus(StatusCancelled))
	assert.False(t, IsSuccessStatus(StatusFailed))
	assert.False(t, IsSuccessStatus(""))
	assert.False(t, IsSuccessStatus("paid"))
}
