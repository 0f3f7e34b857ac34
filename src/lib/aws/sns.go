package aws

import (
	"context"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

func GetSNSClient() *sns.Client {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Printf("Error loading default config: %s\n", err.Error())
		return nil
	}
	return sns.NewFromConfig(cfg)
}

// SNSPublishSMS sends a transactional text message directly to a phone number.
func SNSPublishSMS(phone string, message string) error {
	client := GetSNSClient()
	out, err := client.Publish(context.Background(), &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message:     aws.String(message),
	})
	if err != nil {
		log.Printf("Error publishing SMS to %s: %s\n", phone, err.Error())
		return err
	}
	log.Printf("Published SMS with id: %s\n", *out.MessageId)
	return nil
}
