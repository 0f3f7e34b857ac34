package docs

import (
	"abs/src/models"
	"abs/src/types"
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"html/template"
	"log"
	"os"
	"strings"
	"time"

	"github.com/yeqown/go-qrcode"
)

// SecurityCode is the short verification code printed on every document.
// Derived from the booking id so regeneration always yields the same code.
func SecurityCode(bookingId string) string {
	sum := sha256.Sum256([]byte(bookingId))
	return strings.ToUpper(hex.EncodeToString(sum[:]))[:6]
}

func qrDataURI(bookingId string) template.URL {
	payload := fmt.Sprintf("%s|%s", bookingId, SecurityCode(bookingId))
	if host := os.Getenv("APP_HOST"); host != "" {
		payload = fmt.Sprintf("%s/verify/%s?code=%s", strings.TrimSuffix(host, "/"), bookingId, SecurityCode(bookingId))
	}
	qrc, err := qrcode.New(payload)
	if err != nil {
		log.Printf("Error generating QR for Booking %s: %s\n", bookingId, err.Error())
		return ""
	}
	var buf bytes.Buffer
	if err := qrc.SaveTo(&buf); err != nil {
		log.Printf("Error encoding QR for Booking %s: %s\n", bookingId, err.Error())
		return ""
	}
	return template.URL("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()))
}

func documentTitle(kind types.DocumentKind) string {
	switch kind {
	case types.DOC_RECEIPT:
		return "Payment Receipt"
	case types.DOC_CONTACT:
		return "Organizer Contact Sheet"
	default:
		return "Booking Confirmation"
	}
}

type documentData struct {
	Kind         types.DocumentKind
	Title        string
	Booking      *models.Booking
	Artist       *models.Artist
	Notes        *EventNotes
	SecurityCode string
	QR           template.URL
	AmountText   string
	GeneratedAt  string
}

var documentTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: Helvetica, Arial, sans-serif; color: #1a1a1a; margin: 40px; }
h1 { font-size: 22px; border-bottom: 2px solid #1a1a1a; padding-bottom: 8px; }
table { border-collapse: collapse; margin-top: 16px; }
td { padding: 4px 16px 4px 0; vertical-align: top; }
td.k { color: #555; }
.code { font-family: monospace; font-size: 18px; letter-spacing: 3px; }
.qr { margin-top: 24px; }
.foot { margin-top: 32px; font-size: 11px; color: #777; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<table>
<tr><td class="k">Booking</td><td>{{.Booking.ID}}</td></tr>
<tr><td class="k">Artist</td><td>{{.Artist.StageName}}{{if .Artist.City}} ({{.Artist.City}}){{end}}</td></tr>
<tr><td class="k">Event date</td><td>{{.Booking.EventDate}}{{if .Booking.EventTime}} at {{.Booking.EventTime}}{{end}}</td></tr>
{{if .Booking.Venue}}<tr><td class="k">Venue</td><td>{{.Booking.Venue}}</td></tr>{{end}}
{{if eq .Kind "receipt"}}
<tr><td class="k">Amount</td><td>{{.AmountText}}</td></tr>
{{if .Booking.RazorpayOrderID}}<tr><td class="k">Order</td><td>{{.Booking.RazorpayOrderID}}</td></tr>{{end}}
{{if .Booking.RazorpayPaymentID}}<tr><td class="k">Payment</td><td>{{.Booking.RazorpayPaymentID}}</td></tr>{{end}}
{{end}}
{{if eq .Kind "contact_sheet"}}
<tr><td class="k">Organizer</td><td>{{.Booking.ContactName}}</td></tr>
{{if .Booking.ContactEmail}}<tr><td class="k">Email</td><td>{{.Booking.ContactEmail}}</td></tr>{{end}}
{{if .Booking.ContactPhone}}<tr><td class="k">Phone</td><td>{{.Booking.ContactPhone}}</td></tr>{{end}}
{{if .Notes.Audience}}<tr><td class="k">Audience</td><td>{{.Notes.Audience}}</td></tr>{{end}}
{{if .Notes.Rider}}<tr><td class="k">Rider</td><td>{{.Notes.Rider}}</td></tr>{{end}}
{{if .Notes.Travel}}<tr><td class="k">Travel</td><td>{{.Notes.Travel}}</td></tr>{{end}}
{{range $k, $v := .Notes.Extra}}<tr><td class="k">{{$k}}</td><td>{{$v}}</td></tr>{{end}}
{{end}}
<tr><td class="k">Verification code</td><td class="code">{{.SecurityCode}}</td></tr>
</table>
{{if .QR}}<div class="qr"><img src="{{.QR}}" width="140" height="140"></div>{{end}}
<div class="foot">Generated {{.GeneratedAt}}</div>
</body>
</html>`))

func buildDocumentData(kind types.DocumentKind, booking *models.Booking) *documentData {
	artist := booking.Artist
	if artist == nil {
		artist = &models.Artist{}
	}
	return &documentData{
		Kind:         kind,
		Title:        documentTitle(kind),
		Booking:      booking,
		Artist:       artist,
		Notes:        ParseEventNotes(booking.Notes),
		SecurityCode: SecurityCode(booking.ID.String()),
		QR:           qrDataURI(booking.ID.String()),
		AmountText:   fmt.Sprintf("%d.00 %s", booking.AmountRupees, booking.Currency),
		GeneratedAt:  time.Now().UTC().Format(time.RFC1123),
	}
}

func RenderHTML(kind types.DocumentKind, booking *models.Booking) (string, error) {
	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, buildDocumentData(kind, booking)); err != nil {
		return "", err
	}
	return buf.String(), nil
}
