package notifier

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"github.com/ethan33456/price-bot/internal/models"
)

// Email sends deal alerts over SMTP as a multipart/alternative message with
// plain-text and HTML bodies.
type Email struct {
	From     string
	To       string
	Password string
	Host     string
	Port     int
}

// Notify builds and sends one email covering the whole batch.
func (e *Email) Notify(_ context.Context, deals []models.Product) error {
	if e.From == "" || e.To == "" || e.Password == "" {
		return fmt.Errorf("email credentials not configured")
	}

	msg, err := e.buildMessage(deals)
	if err != nil {
		return fmt.Errorf("build email: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", e.Host, e.Port)
	auth := smtp.PlainAuth("", e.From, e.Password, e.Host)
	if err := smtp.SendMail(addr, auth, e.From, []string{e.To}, msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

func (e *Email) buildMessage(deals []models.Product) ([]byte, error) {
	var buf bytes.Buffer
	alt := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", e.From)
	fmt.Fprintf(&buf, "To: %s\r\n", e.To)
	fmt.Fprintf(&buf, "Subject: %d Best Buy deep discount(s) found!\r\n", len(deals))
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", alt.Boundary())

	textPart, err := alt.CreatePart(textproto.MIMEHeader{"Content-Type": {`text/plain; charset="utf-8"`}})
	if err != nil {
		return nil, err
	}
	fmt.Fprint(textPart, plainBody(deals))

	htmlPart, err := alt.CreatePart(textproto.MIMEHeader{"Content-Type": {`text/html; charset="utf-8"`}})
	if err != nil {
		return nil, err
	}
	if err := htmlTmpl.Execute(htmlPart, htmlData(deals)); err != nil {
		return nil, err
	}

	if err := alt.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func plainBody(deals []models.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d deep discount(s) on Best Buy!\n\n", len(deals))
	fmt.Fprintf(&b, "Time: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	for i, d := range deals {
		fmt.Fprintf(&b, "Deal #%d:\n", i+1)
		fmt.Fprintf(&b, "Product: %s\n", d.Name)
		fmt.Fprintf(&b, "Current Price: $%.2f\n", d.CurrentPrice)
		fmt.Fprintf(&b, "Retail Price: $%.2f\n", d.RetailPrice)
		fmt.Fprintf(&b, "Discount: %.1f%%\n", d.DiscountPercent)
		fmt.Fprintf(&b, "You Save: $%.2f\n", d.RetailPrice-d.CurrentPrice)
		fmt.Fprintf(&b, "Link: %s\n\n", d.URL)
	}
	return b.String()
}

type emailView struct {
	Count int
	Time  string
	Deals []dealView
}

type dealView struct {
	Index    int
	Name     string
	Current  string
	Retail   string
	Discount string
	Savings  string
	URL      string
}

func htmlData(deals []models.Product) emailView {
	view := emailView{
		Count: len(deals),
		Time:  time.Now().Format("2006-01-02 15:04:05"),
	}
	for i, d := range deals {
		view.Deals = append(view.Deals, dealView{
			Index:    i + 1,
			Name:     d.Name,
			Current:  fmt.Sprintf("$%.2f", d.CurrentPrice),
			Retail:   fmt.Sprintf("$%.2f", d.RetailPrice),
			Discount: fmt.Sprintf("%.1f%% OFF", d.DiscountPercent),
			Savings:  fmt.Sprintf("$%.2f", d.RetailPrice-d.CurrentPrice),
			URL:      d.URL,
		})
	}
	return view
}

var htmlTmpl = template.Must(template.New("email").Parse(`<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto;">
    <div style="background-color: #0046be; color: white; padding: 20px; text-align: center;">
      <h1>Best Buy Deals Alert!</h1>
      <p>Found {{.Count}} deep discount(s)</p>
      <p style="font-size: 14px;">{{.Time}}</p>
    </div>
{{- range .Deals}}
    <div style="background-color: #f5f5f5; margin: 20px 0; padding: 15px; border-left: 4px solid #0046be;">
      <div style="font-weight: bold; color: #0046be;">Deal #{{.Index}}: {{.Name}}</div>
      <div style="margin: 10px 0;">
        <span style="font-size: 24px; font-weight: bold; color: #c5281c;">{{.Current}}</span>
        <span style="text-decoration: line-through; color: #666;"> was {{.Retail}}</span>
      </div>
      <div style="margin: 10px 0;">
        <span style="background-color: #c5281c; color: white; padding: 5px 10px;">{{.Discount}}</span>
        <span style="color: #008a00; font-weight: bold;"> You save {{.Savings}}!</span>
      </div>
      <a href="{{.URL}}" style="display: inline-block; background-color: #0046be; color: white; padding: 10px 20px; text-decoration: none;">View Deal on Best Buy</a>
    </div>
{{- end}}
    <div style="text-align: center; color: #666; font-size: 12px;">
      <p>Automated notification from the price bot. Deals may expire quickly.</p>
    </div>
  </div>
</body>
</html>
`))
