package render

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andy/beatbooks/internal/config"
	"github.com/andy/beatbooks/internal/domain"
)

func sampleInvoice() *domain.Invoice {
	due := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)
	invoice := domain.NewInvoice("INV-2026-004", 1, &due, 10.0)
	invoice.ClientName = "Lil Test"
	invoice.ClientEmail = "lil@test.example"
	invoice.Notes = "Thanks for your business"
	invoice.Items = []*domain.InvoiceItem{
		domain.NewInvoiceItem(1, "MP3 Lease", 2, 25.00, nil),
		domain.NewInvoiceItem(1, "Full Mix & Master", 1, 150.00, nil),
	}
	invoice.CalculateTotals()
	return invoice
}

func TestBuildInvoiceHTML(t *testing.T) {
	business := config.BusinessConfig{Name: "Night Shift Beats", Email: "beats@example.com"}
	html, err := BuildInvoiceHTML(sampleInvoice(), business)
	if err != nil {
		t.Fatalf("BuildInvoiceHTML failed: %v", err)
	}

	for _, want := range []string{
		"INV-2026-004",
		"Lil Test",
		"Night Shift Beats",
		"MP3 Lease",
		"$200.00", // subtotal
		"$20.00",  // tax at 10%
		"$220.00", // total
		"Thanks for your business",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected HTML to contain %q", want)
		}
	}
}

func TestBuildInvoiceHTMLEscapesMarkup(t *testing.T) {
	invoice := sampleInvoice()
	invoice.ClientName = "<script>alert(1)</script>"

	html, err := BuildInvoiceHTML(invoice, config.BusinessConfig{})
	if err != nil {
		t.Fatalf("BuildInvoiceHTML failed: %v", err)
	}
	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Error("expected client name escaped")
	}
}

func TestRenderInvoiceDisabled(t *testing.T) {
	r := NewRenderer(config.RendererConfig{}, config.BusinessConfig{}, t.TempDir())

	if r.Enabled() {
		t.Error("expected renderer disabled without a URL")
	}
	_, err := r.RenderInvoice(context.Background(), sampleInvoice())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestRenderInvoiceUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	r := NewRenderer(config.RendererConfig{GotenbergURL: server.URL}, config.BusinessConfig{}, t.TempDir())
	_, err := r.RenderInvoice(context.Background(), sampleInvoice())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable on server failure, got %v", err)
	}
}

func TestRenderInvoice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forms/chromium/convert/html" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("%PDF-1.7 fake"))
	}))
	defer server.Close()

	r := NewRenderer(config.RendererConfig{GotenbergURL: server.URL}, config.BusinessConfig{}, t.TempDir())
	pdf, err := r.RenderInvoice(context.Background(), sampleInvoice())
	if err != nil {
		t.Fatalf("RenderInvoice failed: %v", err)
	}
	if !strings.HasPrefix(string(pdf), "%PDF") {
		t.Errorf("unexpected payload %q", pdf)
	}
}
