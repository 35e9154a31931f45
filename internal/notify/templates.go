package notify

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strings"
	"time"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	"github.com/bluestar-trading/erp_backend/internal/utils"
	"github.com/google/uuid"
)

const defaultPlaceOfSupply = "West Bengal"

// VoucherView is what voucher messages render. Party may be nil; ItemNames maps
// item IDs to display names and falls back to the ID.
type VoucherView struct {
	Voucher   domain.Voucher
	Party     *domain.Party
	ItemNames map[string]string
	CreatedBy string
}

func (v VoucherView) partyName() string {
	if v.Party == nil {
		return "Unknown"
	}
	return v.Party.Name
}

func (v VoucherView) itemName(itemID string) string {
	if name, ok := v.ItemNames[itemID]; ok && name != "" {
		return name
	}
	return "Item #" + itemID
}

// DraftNotification is the in-app broadcast sent when a draft voucher is created.
func DraftNotification(v VoucherView, now time.Time) Message {
	link := "/vouchers/" + v.Voucher.VoucherID
	n := domain.Notification{
		NotificationID: uuid.NewString(),
		Title:          "New Draft Voucher",
		Message:        fmt.Sprintf("New %s draft %s created by %s", v.Voucher.VoucherType, v.Voucher.VoucherNumber, v.CreatedBy),
		Type:           domain.NotificationVoucherDraft,
		Link:           &link,
		CreatedAt:      now,
	}
	return Message{Channel: ChannelInApp, Notification: &n}
}

// DraftAlert is the Telegram message asking admins to approve or cancel a draft.
func DraftAlert(v VoucherView, chatIDs []string) Message {
	vch := v.Voucher
	gstin := "N/A"
	if v.Party != nil && v.Party.GSTIN != nil && *v.Party.GSTIN != "" {
		gstin = *v.Party.GSTIN
	}
	supply := defaultPlaceOfSupply
	if vch.PlaceOfSupply != nil && *vch.PlaceOfSupply != "" {
		supply = *vch.PlaceOfSupply
	}

	var b strings.Builder
	b.WriteString("🏢 <b>BLUE STAR</b>\n<i>Trading &amp; Transport</i>\n\n")
	fmt.Fprintf(&b, "📦 <b>%s #%s</b>\n", strings.ToUpper(string(vch.VoucherType)), html.EscapeString(vch.VoucherNumber))
	b.WriteString("━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(&b, "👤 <b>BILLED TO:</b>\n<b>%s</b>\nGSTIN: <code>%s</code>\n\n", html.EscapeString(v.partyName()), html.EscapeString(gstin))
	fmt.Fprintf(&b, "📅 <b>DATE:</b> %s\n", vch.VoucherDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "📍 <b>SUPPLY:</b> %s\n", html.EscapeString(supply))
	fmt.Fprintf(&b, "🚦 <b>STATUS:</b> <code>%s</code>\n", strings.ToUpper(string(vch.Status)))
	b.WriteString("━━━━━━━━━━━━━━━\n\n")

	if len(vch.Items) > 0 {
		b.WriteString("<b>📄 ITEMS SUMMARY</b>\n<code>")
		fmt.Fprintf(&b, "%-15s %4s %10s\n", "Item", "Qty", "Amount")
		b.WriteString(strings.Repeat("─", 31) + "\n")
		for _, line := range vch.Items {
			name := []rune(v.itemName(line.ItemID))
			if len(name) > 15 {
				name = name[:15]
			}
			fmt.Fprintf(&b, "%-15s %4s %10s\n", html.EscapeString(string(name)), line.Quantity.String(), line.Amount.StringFixed(2))
		}
		b.WriteString("</code>➖➖➖➖➖➖➖➖➖➖➖➖\n")
	}

	b.WriteString("💸 <b>FINANCIALS</b>\n")
	fmt.Fprintf(&b, "Subtotal: %s\n", utils.FormatINR(vch.TotalAmount))
	fmt.Fprintf(&b, "Tax (GST): %s\n", utils.FormatINR(vch.TaxAmount))
	fmt.Fprintf(&b, "<b>Grand Total: %s</b>\n\n", utils.FormatINR(vch.GrandTotal))
	fmt.Fprintf(&b, "✍️ <i>Created by %s</i>\n", html.EscapeString(v.CreatedBy))
	b.WriteString("➖➖➖➖➖➖➖➖➖➖➖➖\n⚠️ <b>Action Required:</b>")

	return Message{
		Channel: ChannelTelegram,
		To:      chatIDs,
		Body:    b.String(),
		Buttons: [][]Button{{
			{Text: "✅ Approve & Issue", CallbackData: "approve_doc:" + vch.VoucherID},
			{Text: "❌ Cancel", CallbackData: "reject_doc:" + vch.VoucherID},
		}},
	}
}

type emailTheme struct {
	Label  string
	Accent string
	Light  string
}

func themeFor(t domain.VoucherType) emailTheme {
	switch t {
	case domain.VoucherInvoice:
		return emailTheme{"Tax Invoice", "#2563eb", "#eff6ff"}
	case domain.VoucherChallan:
		return emailTheme{"Delivery Challan", "#d97706", "#fffbeb"}
	case domain.VoucherQuotation:
		return emailTheme{"Quotation / Estimate", "#059669", "#ecfdf5"}
	default:
		return emailTheme{"Purchase Bill", "#475569", "#f8fafc"}
	}
}

type emailLine struct {
	Name     string
	Quantity string
	Rate     string
	Tax      string
	Amount   string
}

type emailData struct {
	Theme      emailTheme
	PartyName  string
	GSTIN      string
	Number     string
	Date       string
	Type       string
	Status     string
	Lines      []emailLine
	Subtotal   string
	Tax        string
	GrandTotal string
}

var voucherEmailTmpl = template.Must(template.New("voucher").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: -apple-system, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; background-color: #f8fafc; color: #0f172a; margin: 0; padding: 20px;">
<div style="max-width: 800px; margin: 0 auto;">
  <p style="font-size: 16px;">Dear <strong>{{.PartyName}}</strong>,</p>
  <p style="font-size: 14px; color: #475569;">Please find the details of your {{.Theme.Label}} below.</p>
  <div style="background-color: #ffffff; padding: 48px; border-top: 6px solid {{.Theme.Accent}};">
    <h1 style="margin: 0; font-size: 28px; letter-spacing: 2px;">BLUE STAR</h1>
    <p style="margin: 0 0 24px; color: #64748b;">Trading &amp; Transport</p>
    <div style="background-color: {{.Theme.Light}}; padding: 24px; margin-bottom: 32px;">
      <table style="width: 100%;">
        <tr><td><strong>{{.Theme.Label}}</strong></td><td style="text-align: right;">No. <strong>{{.Number}}</strong></td></tr>
        <tr><td>Date: {{.Date}}</td><td style="text-align: right;">Type: {{.Type}}</td></tr>
        <tr><td>GSTIN: {{.GSTIN}}</td><td style="text-align: right;">Status: <strong>{{.Status}}</strong></td></tr>
      </table>
    </div>
    <table style="width: 100%; border-collapse: collapse;">
      <thead>
        <tr style="background-color: {{.Theme.Accent}}; color: #ffffff;">
          <th style="padding: 12px 16px; text-align: left;">Item</th>
          <th style="padding: 12px 16px; text-align: center;">Qty</th>
          <th style="padding: 12px 16px; text-align: right;">Rate</th>
          <th style="padding: 12px 16px; text-align: right;">Tax</th>
          <th style="padding: 12px 16px; text-align: right;">Amount</th>
        </tr>
      </thead>
      <tbody>
      {{- range .Lines}}
        <tr style="border-bottom: 1px solid #f1f5f9;">
          <td style="padding: 12px 16px; font-weight: bold;">{{.Name}}</td>
          <td style="padding: 12px 16px; text-align: center;">{{.Quantity}}</td>
          <td style="padding: 12px 16px; text-align: right;">{{.Rate}}</td>
          <td style="padding: 12px 16px; text-align: right;">{{.Tax}}</td>
          <td style="padding: 12px 16px; text-align: right; font-weight: bold;">{{.Amount}}</td>
        </tr>
      {{- end}}
      </tbody>
    </table>
    <table style="width: 300px; margin: 24px 0 0 auto;">
      <tr><td>Subtotal</td><td style="text-align: right;">{{.Subtotal}}</td></tr>
      <tr><td>Tax (GST)</td><td style="text-align: right;">{{.Tax}}</td></tr>
      <tr><td><strong>Grand Total</strong></td><td style="text-align: right;"><strong>{{.GrandTotal}}</strong></td></tr>
    </table>
  </div>
  <p style="font-size: 12px; color: #94a3b8; text-align: center;">This is a system generated document from BlueStar Trading. Please contact us for any discrepancy.</p>
</div>
</body>
</html>`))

// VoucherEmail renders the customer email sent when a voucher is issued.
// It returns false when the party has no email address.
func VoucherEmail(v VoucherView) (Message, bool, error) {
	if !v.Party.HasEmail() {
		return Message{}, false, nil
	}
	vch := v.Voucher
	gstin := "N/A"
	if v.Party.GSTIN != nil && *v.Party.GSTIN != "" {
		gstin = *v.Party.GSTIN
	}

	data := emailData{
		Theme:      themeFor(vch.VoucherType),
		PartyName:  v.Party.Name,
		GSTIN:      gstin,
		Number:     vch.VoucherNumber,
		Date:       vch.VoucherDate.Format("02 Jan 2006"),
		Type:       strings.ToUpper(string(vch.VoucherType)),
		Status:     "ISSUED",
		Subtotal:   utils.FormatINR(vch.TotalAmount),
		Tax:        utils.FormatINR(vch.TaxAmount),
		GrandTotal: utils.FormatINR(vch.GrandTotal),
	}
	for _, line := range vch.Items {
		data.Lines = append(data.Lines, emailLine{
			Name:     v.itemName(line.ItemID),
			Quantity: line.Quantity.String(),
			Rate:     utils.FormatINR(line.Rate),
			Tax:      utils.FormatINR(domain.LineTax(line.Amount, line.TaxRate)),
			Amount:   utils.FormatINR(line.Amount),
		})
	}

	var body bytes.Buffer
	if err := voucherEmailTmpl.Execute(&body, data); err != nil {
		return Message{}, false, fmt.Errorf("render voucher email: %w", err)
	}
	return Message{
		Channel: ChannelEmail,
		To:      []string{*v.Party.Email},
		Subject: fmt.Sprintf("Trade Voucher: %s #%s - BlueStar Trading", strings.ToUpper(string(vch.VoucherType)), vch.VoucherNumber),
		Body:    body.String(),
	}, true, nil
}
