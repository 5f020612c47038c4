package render

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/jwalitptl/studio-automations/internal/model"
)

const previewLength = 100

var colorPattern = regexp.MustCompile(`^(#[0-9A-Fa-f]{3,8}|[A-Za-z]{3,20})$`)

// Output is a rendered message in both representations.
type Output struct {
	HTML string
	Text string
}

// Renderer turns template blocks into HTML and plain text.
type Renderer struct {
	format *Formatter
}

func NewRenderer(format *Formatter) *Renderer {
	return &Renderer{format: format}
}

func (r *Renderer) Formatter() *Formatter {
	return r.format
}

// RenderBlocks renders blocks in order. It never fails: blocks with missing
// or unknown content are dropped, and an empty result is replaced by a
// default message naming the client and the project.
func (r *Renderer) RenderBlocks(blocks model.Blocks, c *Context) Output {
	if c == nil {
		c = &Context{}
	}

	var htmlOut, textOut strings.Builder
	for _, block := range blocks {
		switch content := block.Content.(type) {
		case model.TextBlock:
			r.renderText(&htmlOut, &textOut, content, c)
		case model.HeaderBlock:
			r.renderHeader(&htmlOut, &textOut, content, c)
		case model.ImageBlock:
			r.renderImage(&htmlOut, content, c)
		case model.CTABlock:
			r.renderCTA(&htmlOut, &textOut, content, c)
		case model.SessionBlock:
			r.renderSession(&htmlOut, &textOut, content, c)
		case model.FooterBlock:
			r.renderFooter(&htmlOut, &textOut, content, c)
		case model.UnknownBlock, nil:
		}
	}

	if strings.TrimSpace(htmlOut.String()) == "" {
		return r.fallback(c)
	}
	return Output{
		HTML: htmlOut.String(),
		Text: strings.TrimSpace(textOut.String()),
	}
}

func (r *Renderer) renderText(h, t *strings.Builder, b model.TextBlock, c *Context) {
	content := r.Substitute(b.Content, c)
	if strings.TrimSpace(content) == "" {
		return
	}
	fmt.Fprintf(h, `<p style="margin:0 0 16px;text-align:%s;color:%s;font-size:15px;line-height:1.6;">%s</p>`,
		alignment(b.Alignment), color(b.Color, "#333333"), multiline(content))
	h.WriteString("\n")
	t.WriteString(content)
	t.WriteString("\n\n")
}

func (r *Renderer) renderHeader(h, t *strings.Builder, b model.HeaderBlock, c *Context) {
	title := strings.TrimSpace(r.Substitute(b.Title, c))
	logo := ""
	if b.ShowLogo {
		logo = strings.TrimSpace(r.Substitute(b.LogoURL, c))
		if logo == "" {
			logo = strings.TrimSpace(c.Settings.LogoURL)
		}
	}
	if title == "" && logo == "" {
		return
	}

	fg := color(b.TextColor, "#ffffff")
	fmt.Fprintf(h, `<div style="background-color:%s;color:%s;text-align:%s;padding:24px;border-radius:6px;margin:0 0 24px;">`,
		color(b.BackgroundColor, "#1f2937"), fg, alignment(b.Alignment))
	if logo != "" {
		fmt.Fprintf(h, `<img src="%s" alt="%s" style="max-height:64px;margin:0 0 12px;display:inline-block;">`,
			html.EscapeString(logo), html.EscapeString(c.Settings.BusinessName))
	}
	if title != "" {
		fmt.Fprintf(h, `<h1 style="margin:0;font-size:24px;color:%s;">%s</h1>`, fg, html.EscapeString(title))
		fmt.Fprintf(t, "--- %s ---\n\n", title)
	}
	h.WriteString("</div>\n")
}

func (r *Renderer) renderImage(h *strings.Builder, b model.ImageBlock, c *Context) {
	src := strings.TrimSpace(r.Substitute(b.URL, c))
	if src == "" {
		return
	}
	width := "max-width:100%;"
	if b.FullWidth {
		width = "width:100%;"
	}
	fmt.Fprintf(h, `<div style="text-align:center;margin:0 0 16px;"><img src="%s" alt="%s" style="%sheight:auto;display:block;margin:0 auto;border:0;"></div>`,
		html.EscapeString(src), html.EscapeString(r.Substitute(b.Alt, c)), width)
	h.WriteString("\n")
}

func (r *Renderer) renderCTA(h, t *strings.Builder, b model.CTABlock, c *Context) {
	label := strings.TrimSpace(r.Substitute(b.Text, c))
	href := strings.TrimSpace(r.Substitute(b.URL, c))
	if label == "" || href == "" {
		return
	}
	fmt.Fprintf(h, `<div style="text-align:center;margin:24px 0;"><a href="%s" style="background-color:%s;color:%s;padding:12px 28px;border-radius:4px;text-decoration:none;font-weight:bold;display:inline-block;">%s</a></div>`,
		html.EscapeString(href), color(b.BackgroundColor, "#2563eb"), color(b.TextColor, "#ffffff"), html.EscapeString(label))
	h.WriteString("\n")
	fmt.Fprintf(t, "[%s]: %s\n\n", label, href)
}

type sessionRow struct {
	label string
	value string
}

func (r *Renderer) renderSession(h, t *strings.Builder, b model.SessionBlock, c *Context) {
	p := c.Project
	if p == nil {
		return
	}

	var rows []sessionRow
	if b.ShowTitle && strings.TrimSpace(p.Title) != "" {
		rows = append(rows, sessionRow{"Session", p.Title})
	}
	if b.ShowDate && p.StartDate != nil {
		rows = append(rows, sessionRow{"Date", r.format.Date(*p.StartDate)})
	}
	if b.ShowTime && p.StartDate != nil {
		rows = append(rows, sessionRow{"Time", r.format.Time(*p.StartDate)})
	}
	if b.ShowLocation {
		if loc := p.Location(); loc != "" {
			rows = append(rows, sessionRow{"Location", loc})
		}
	}
	if b.ShowPrice && p.Price != nil {
		rows = append(rows, sessionRow{"Price", r.format.Money(*p.Price)})
	}
	if b.ShowNotes && strings.TrimSpace(p.Notes) != "" {
		rows = append(rows, sessionRow{"Notes", p.Notes})
	}
	if len(rows) == 0 {
		return
	}

	h.WriteString(`<table role="presentation" width="100%" cellpadding="0" cellspacing="0" style="border-collapse:collapse;background-color:#f9fafb;border:1px solid #e5e7eb;border-radius:6px;margin:0 0 16px;">`)
	parts := make([]string, 0, len(rows))
	for _, row := range rows {
		fmt.Fprintf(h, `<tr><td style="padding:8px 12px;font-weight:bold;color:#374151;width:30%%;">%s</td><td style="padding:8px 12px;color:#111827;">%s</td></tr>`,
			row.label, multiline(row.value))
		parts = append(parts, row.label+": "+row.value)
	}
	h.WriteString("</table>\n")
	t.WriteString(strings.Join(parts, " | "))
	t.WriteString("\n\n")
}

func (r *Renderer) renderFooter(h, t *strings.Builder, b model.FooterBlock, c *Context) {
	text := strings.TrimSpace(r.Substitute(b.Text, c))
	if text == "" {
		return
	}
	fmt.Fprintf(h, `<div style="border-top:1px solid #e5e7eb;margin-top:24px;padding-top:16px;font-size:12px;color:#6b7280;text-align:center;">%s</div>`,
		multiline(text))
	h.WriteString("\n")
	t.WriteString("---\n")
	t.WriteString(text)
	t.WriteString("\n")
}

func (r *Renderer) fallback(c *Context) Output {
	greeting := "Hello"
	if name := strings.TrimSpace(clientName(r, c)); name != "" {
		greeting += " " + name
	}
	title := strings.TrimSpace(projectField(c, func(p *model.Project) string { return p.Title }))

	text := fmt.Sprintf("%s, this is a message about your project \"%s\".", greeting, title)
	return Output{
		HTML: fmt.Sprintf(`<p style="margin:0 0 16px;font-size:15px;line-height:1.6;color:#333333;">%s</p>`, html.EscapeString(text)),
		Text: text,
	}
}

// Preview returns the first characters of a plain-text message, as stored on
// the execution ledger.
func Preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength])
}

func alignment(a string) string {
	switch strings.ToLower(a) {
	case "center", "right", "justify":
		return strings.ToLower(a)
	default:
		return "left"
	}
}

func color(value, fallback string) string {
	value = strings.TrimSpace(value)
	if colorPattern.MatchString(value) {
		return value
	}
	return fallback
}

func multiline(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\n", "<br>")
}
