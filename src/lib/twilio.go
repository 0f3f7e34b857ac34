package lib

import (
	"fmt"
	"log"
	"os"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

var twilioClient *twilio.RestClient

func GetTwilioClient() *twilio.RestClient {
	if twilioClient != nil {
		return twilioClient
	}
	c := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: os.Getenv("TWILIO_ACCOUNT_SID"),
		Password: os.Getenv("TWILIO_AUTH_TOKEN"),
	})
	twilioClient = c
	return c
}

// NewTwilioClient Replace twilio instance with custom client implementation
func NewTwilioClient(c *twilio.RestClient) {
	twilioClient = c
}

func SendWhatsAppMessage(to string, body string) error {
	c := GetTwilioClient()
	from := os.Getenv("TWILIO_WHATSAPP_FROM")
	params := &openapi.CreateMessageParams{}
	params.SetTo(fmt.Sprintf("whatsapp:%s", to))
	params.SetFrom(fmt.Sprintf("whatsapp:%s", from))
	params.SetBody(body)
	resp, err := c.Api.CreateMessage(params)
	if err != nil {
		log.Printf("Error sending WhatsApp message to %s: %s\n", to, err.Error())
		return err
	}
	if resp.Sid != nil {
		log.Printf("Sent WhatsApp message: %s\n", *resp.Sid)
	}
	return nil
}
