package render

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/andy/beatbooks/internal/config"
	"github.com/andy/beatbooks/internal/domain"
)

// ErrUnavailable is returned when no renderer is configured or the
// Gotenberg service cannot be reached. Rendering failures never block
// bookkeeping operations; callers surface this and move on.
var ErrUnavailable = errors.New("renderer unavailable")

// Renderer turns invoices into PDF documents via Gotenberg.
type Renderer struct {
	client    *GotenbergClient
	business  config.BusinessConfig
	outputDir string
	logger    zerolog.Logger
}

// NewRenderer builds a renderer. An empty Gotenberg URL produces a
// disabled renderer whose render calls return ErrUnavailable.
func NewRenderer(rendererCfg config.RendererConfig, business config.BusinessConfig, outputDir string) *Renderer {
	r := &Renderer{
		business:  business,
		outputDir: outputDir,
		logger:    log.With().Str("component", "render").Logger(),
	}
	if rendererCfg.GotenbergURL != "" {
		r.client = NewGotenbergClient(strings.TrimRight(rendererCfg.GotenbergURL, "/"))
	}
	return r
}

// Enabled reports whether a Gotenberg URL is configured.
func (r *Renderer) Enabled() bool {
	return r.client != nil
}

// RenderInvoice produces the PDF bytes for an invoice.
func (r *Renderer) RenderInvoice(ctx context.Context, invoice *domain.Invoice) ([]byte, error) {
	if r.client == nil {
		return nil, fmt.Errorf("%w: no gotenberg_url configured", ErrUnavailable)
	}

	html, err := BuildInvoiceHTML(invoice, r.business)
	if err != nil {
		return nil, err
	}

	pdf, err := r.client.RenderHTML(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return pdf, nil
}

// SaveInvoicePDF renders an invoice and writes it to the output
// directory, returning the written path.
func (r *Renderer) SaveInvoicePDF(ctx context.Context, invoice *domain.Invoice) (string, error) {
	pdf, err := r.RenderInvoice(ctx, invoice)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(r.outputDir, invoice.InvoiceNumber+".pdf")
	if err := os.WriteFile(path, pdf, 0644); err != nil {
		return "", err
	}

	r.logger.Info().Str("number", invoice.InvoiceNumber).Str("path", path).Msg("invoice rendered")
	return path, nil
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: Helvetica, Arial, sans-serif; color: #222; margin: 48px; }
h1 { font-size: 28px; letter-spacing: 2px; }
.meta { margin-bottom: 24px; }
.meta td { padding: 2px 16px 2px 0; }
table.items { width: 100%; border-collapse: collapse; margin-top: 24px; }
table.items th { text-align: left; border-bottom: 2px solid #222; padding: 6px 8px; }
table.items td { border-bottom: 1px solid #ddd; padding: 6px 8px; }
td.num, th.num { text-align: right; }
.totals { margin-top: 16px; width: 280px; margin-left: auto; }
.totals td { padding: 4px 8px; }
.totals .grand td { border-top: 2px solid #222; font-weight: bold; }
.notes { margin-top: 32px; font-size: 13px; color: #444; }
</style>
</head>
<body>
<h1>INVOICE</h1>
<table class="meta">
<tr><td>Invoice #</td><td>{{.Invoice.InvoiceNumber}}</td></tr>
<tr><td>Date</td><td>{{.Invoice.CreatedDate.Format "January 2, 2006"}}</td></tr>
{{if .Invoice.DueDate}}<tr><td>Due</td><td>{{.Invoice.DueDate.Format "January 2, 2006"}}</td></tr>{{end}}
<tr><td>Status</td><td>{{.Invoice.Status}}</td></tr>
</table>

<table class="meta">
<tr><th align="left">From</th><th align="left">Bill To</th></tr>
<tr><td>{{.Business.Name}}</td><td>{{.Invoice.ClientName}}</td></tr>
<tr><td>{{.Business.Email}}</td><td>{{.Invoice.ClientEmail}}</td></tr>
{{if .Business.Website}}<tr><td>{{.Business.Website}}</td><td></td></tr>{{end}}
</table>

<table class="items">
<tr><th>Description</th><th class="num">Qty</th><th class="num">Unit Price</th><th class="num">Amount</th></tr>
{{range .Invoice.Items}}
<tr><td>{{.Description}}</td><td class="num">{{.Quantity}}</td><td class="num">{{money .UnitPrice}}</td><td class="num">{{money .Total}}</td></tr>
{{end}}
</table>

<table class="totals">
<tr><td>Subtotal</td><td class="num">{{money .Invoice.Subtotal}}</td></tr>
{{if gt .Invoice.TaxRate 0.0}}<tr><td>Tax ({{printf "%.2f" .Invoice.TaxRate}}%)</td><td class="num">{{money .Invoice.TaxAmount}}</td></tr>{{end}}
<tr class="grand"><td>Total</td><td class="num">{{money .Invoice.Total}}</td></tr>
</table>

{{if .Invoice.Notes}}<div class="notes"><strong>Notes</strong><br>{{.Invoice.Notes}}</div>{{end}}
{{if .Invoice.Terms}}<div class="notes"><strong>Terms</strong><br>{{.Invoice.Terms}}</div>{{end}}
<div class="notes">Generated {{.Now.Format "2006-01-02"}}</div>
</body>
</html>`

var invoiceTmpl = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("$%.2f", v) },
}).Parse(invoiceTemplate))

// BuildInvoiceHTML renders the invoice document markup handed to the
// PDF engine.
func BuildInvoiceHTML(invoice *domain.Invoice, business config.BusinessConfig) (string, error) {
	var buf strings.Builder
	data := struct {
		Invoice  *domain.Invoice
		Business config.BusinessConfig
		Now      time.Time
	}{invoice, business, time.Now()}

	if err := invoiceTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
