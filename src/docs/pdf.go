package docs

import (
	"abs/src/models"
	"abs/src/types"
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/go-pdf/fpdf"
)

// htmlToPDF prints the rendered document through headless Chrome. The temp
// file dance is needed because PrintToPDF operates on a navigated page.
func htmlToPDF(html string) ([]byte, error) {
	tmp, err := os.CreateTemp("", "abs-doc-*.html")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(html); err != nil {
		tmp.Close()
		return nil, err
	}
	tmp.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	cctx, ccancel := chromedp.NewContext(ctx)
	defer ccancel()

	var buf []byte
	err = chromedp.Run(cctx,
		chromedp.Navigate("file://"+tmp.Name()),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// fallbackPDF builds a plain document straight from booking data. No browser
// involved, so this path works on any host the API runs on.
func fallbackPDF(kind types.DocumentKind, booking *models.Booking) ([]byte, error) {
	data := buildDocumentData(kind, booking)
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, data.Title)
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 11)
	row := func(k, v string) {
		if v == "" {
			return
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(45, 7, k)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 7, v, "", "L", false)
	}
	row("Booking", booking.ID.String())
	row("Artist", data.Artist.StageName)
	when := booking.EventDate
	if booking.EventTime != "" {
		when += " at " + booking.EventTime
	}
	row("Event date", when)
	row("Venue", booking.Venue)
	switch kind {
	case types.DOC_RECEIPT:
		row("Amount", data.AmountText)
		if booking.RazorpayOrderID != nil {
			row("Order", *booking.RazorpayOrderID)
		}
		if booking.RazorpayPaymentID != nil {
			row("Payment", *booking.RazorpayPaymentID)
		}
	case types.DOC_CONTACT:
		row("Organizer", booking.ContactName)
		row("Email", booking.ContactEmail)
		row("Phone", booking.ContactPhone)
		row("Audience", data.Notes.Audience)
		row("Rider", data.Notes.Rider)
		row("Travel", data.Notes.Travel)
		for k, v := range data.Notes.Extra {
			row(k, v)
		}
	}
	row("Verification code", data.SecurityCode)
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s", data.GeneratedAt))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderPDF produces the document bytes, preferring the Chrome renderer and
// degrading to the plain layout when Chrome is unavailable or times out.
func RenderPDF(kind types.DocumentKind, booking *models.Booking) ([]byte, error) {
	html, err := RenderHTML(kind, booking)
	if err == nil {
		if pdfBytes, err := htmlToPDF(html); err == nil {
			return pdfBytes, nil
		} else {
			log.Printf("[docs] chrome render failed for Booking %s (%s), using fallback: %s\n", booking.ID, kind, err.Error())
		}
	} else {
		log.Printf("[docs] template failed for Booking %s (%s), using fallback: %s\n", booking.ID, kind, err.Error())
	}
	return fallbackPDF(kind, booking)
}
