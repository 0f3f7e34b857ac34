package notify

import (
	"abs/src/db"
	"abs/src/docs"
	"abs/src/lib"
	awslib "abs/src/lib/aws"
	"abs/src/models"
	"abs/src/types"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// test seams, swapped out by the suite
var (
	sendMail     = lib.SendMail
	sendSES      = sesSend
	sendWhatsApp = lib.SendWhatsAppMessage
	sendSMS      = awslib.SNSPublishSMS
)

func sesSend(input *lib.SendMailInput) error {
	return awslib.SESSendMessage(&input.From, &sestypes.Destination{
		ToAddresses: input.To,
	}, &sestypes.Message{
		Subject: &sestypes.Content{Data: &input.Subject},
		Body:    &sestypes.Body{Text: &sestypes.Content{Data: &input.Body}},
	})
}

// deliverEmail routes through SES when selected; attachments always take the
// SMTP path since the simple SES send cannot carry them.
func deliverEmail(input *lib.SendMailInput) error {
	if os.Getenv("MAIL_PROVIDER") == "ses" && len(input.Attachments) == 0 {
		return sendSES(input)
	}
	return sendMail(input)
}

// MessagingEnabled gates all outbound messaging. Unset means enabled;
// environments without provider credentials set MESSAGING_ENABLED=false.
func MessagingEnabled() bool {
	switch os.Getenv("MESSAGING_ENABLED") {
	case "false", "0", "no":
		return false
	}
	return true
}

// Attempt records one delivery try. Every party/channel pair gets an entry
// whether it succeeded, failed, or had nowhere to go.
type Attempt struct {
	Party   string              `json:"party"`
	Channel types.NotifyChannel `json:"channel"`
	OK      bool                `json:"ok"`
	Error   string              `json:"error,omitempty"`
	At      time.Time           `json:"at"`
}

type recipient struct {
	party string
	name  string
	email string
	phone string
}

func recipients(booking *models.Booking) []recipient {
	out := []recipient{{
		party: "organizer",
		name:  booking.ContactName,
		email: booking.ContactEmail,
		phone: booking.ContactPhone,
	}}
	artist := recipient{party: "artist"}
	if booking.Artist != nil {
		artist.name = booking.Artist.StageName
		if booking.Artist.User != nil {
			artist.email = booking.Artist.User.Email
			artist.phone = booking.Artist.User.Phone
		}
	}
	return append(out, artist)
}

func artistName(booking *models.Booking) string {
	if booking.Artist == nil {
		return "the artist"
	}
	return booking.Artist.StageName
}

func shortMessage(booking *models.Booking, r recipient) string {
	if r.party == "artist" {
		return fmt.Sprintf("New confirmed booking %s on %s. Your contact sheet is ready.", booking.ID, booking.EventDate)
	}
	return fmt.Sprintf("Your booking %s with %s on %s is confirmed. Verification code %s. Your documents are in your email.",
		booking.ID, artistName(booking), booking.EventDate, docs.SecurityCode(booking.ID.String()))
}

func emailFor(booking *models.Booking, r recipient, artifacts map[types.DocumentKind]*docs.Artifact) *lib.SendMailInput {
	from := os.Getenv("MAIL_FROM")
	if from == "" {
		from = "bookings@localhost"
	}
	input := &lib.SendMailInput{
		From:     from,
		FromName: "Artist Bookings",
		To:       []string{r.email},
		Subject:  fmt.Sprintf("Booking confirmed: %s on %s", artistName(booking), booking.EventDate),
		Body:     shortMessage(booking, r),
	}
	kinds := []types.DocumentKind{types.DOC_CONFIRMATION, types.DOC_RECEIPT}
	if r.party == "artist" {
		input.Subject = fmt.Sprintf("New booking on %s", booking.EventDate)
		kinds = []types.DocumentKind{types.DOC_CONTACT}
	}
	for _, kind := range kinds {
		a, ok := artifacts[kind]
		if !ok {
			continue
		}
		// durable refs travel as links, everything else as an attachment
		if a.Durable {
			input.Body += fmt.Sprintf("\n%s: %s", kind, a.Ref)
			continue
		}
		if len(a.Data) > 0 {
			input.Attachments = append(input.Attachments, lib.MailAttachment{
				Name:    fmt.Sprintf("%s.pdf", kind),
				Content: a.Data,
			})
		}
	}
	return input
}

func attemptChannel(booking *models.Booking, r recipient, channel types.NotifyChannel, artifacts map[types.DocumentKind]*docs.Artifact) Attempt {
	attempt := Attempt{Party: r.party, Channel: channel, At: time.Now().UTC()}
	defer func() {
		// a panicking provider SDK must not take the fan-out down with it
		if rec := recover(); rec != nil {
			attempt.OK = false
			attempt.Error = fmt.Sprintf("panic: %v", rec)
		}
	}()
	var err error
	switch channel {
	case types.CHANNEL_EMAIL:
		if r.email == "" {
			attempt.Error = "no email address"
			return attempt
		}
		err = deliverEmail(emailFor(booking, r, artifacts))
	case types.CHANNEL_WHATSAPP:
		if r.phone == "" {
			attempt.Error = "no phone number"
			return attempt
		}
		err = sendWhatsApp(r.phone, shortMessage(booking, r))
	case types.CHANNEL_SMS:
		if r.phone == "" {
			attempt.Error = "no phone number"
			return attempt
		}
		err = sendSMS(r.phone, shortMessage(booking, r))
	}
	if err != nil {
		attempt.Error = err.Error()
		return attempt
	}
	attempt.OK = true
	return attempt
}

var channels = []types.NotifyChannel{types.CHANNEL_EMAIL, types.CHANNEL_WHATSAPP, types.CHANNEL_SMS}

// Dispatch fans the confirmation out to both parties over every channel and
// waits for all attempts to settle. Failures are recorded, never raised; the
// outcome lands in the booking's notification log.
func Dispatch(booking *models.Booking, artifacts map[types.DocumentKind]*docs.Artifact) []Attempt {
	active := channels
	if !MessagingEnabled() {
		// the toggle silences whatsapp and sms, email still goes out
		log.Printf("[notify] messaging disabled, email only for Booking %s\n", booking.ID)
		active = []types.NotifyChannel{types.CHANNEL_EMAIL}
	}
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		attempts []Attempt
	)
	for _, r := range recipients(booking) {
		for _, channel := range active {
			wg.Add(1)
			go func(r recipient, channel types.NotifyChannel) {
				defer wg.Done()
				attempt := attemptChannel(booking, r, channel, artifacts)
				if !attempt.OK {
					log.Printf("[notify] %s/%s failed for Booking %s: %s\n", attempt.Party, attempt.Channel, booking.ID, attempt.Error)
				}
				mu.Lock()
				attempts = append(attempts, attempt)
				mu.Unlock()
			}(r, channel)
		}
	}
	wg.Wait()

	entries := make([]any, 0, len(attempts))
	for _, a := range attempts {
		entries = append(entries, map[string]any{
			"party":   a.Party,
			"channel": string(a.Channel),
			"ok":      a.OK,
			"error":   a.Error,
			"at":      a.At.Format(time.RFC3339),
		})
	}
	logEntry := types.JSONB{"attempts": entries, "dispatched_at": time.Now().UTC().Format(time.RFC3339)}
	if err := db.GetDb().
		Model(&models.Booking{}).
		Where("id = ?", booking.ID).
		Update("notification_log", &logEntry).
		Error; err != nil {
		log.Printf("[notify] could not record log for Booking %s: %s\n", booking.ID, err.Error())
	}
	booking.NotificationLog = &logEntry
	return attempts
}
