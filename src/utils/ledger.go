package utils

import (
	"abs/src/lib"
	"abs/src/types"
	"encoding/json"
	"log"
	"os"
)

// PublishLedgerEvent mirrors payment ledger activity to the ops queue,
// best-effort: Kafka for local development, SQS elsewhere. Failures are
// logged and never propagated into the payment flow.
func PublishLedgerEvent(payload types.JSONB) {
	queue := os.Getenv("LEDGER_EVENTS_QUEUE")
	if queue == "" {
		queue = "PaymentLedgerEvents"
	}
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		if err := lib.KafkaProduceMessage("PaymentLedgerProducer", queue, payload); err != nil {
			log.Printf("Error sending ledger event to topic %s: %s\n", queue, err.Error())
		}
		return
	}
	body, err := json.Marshal(&payload)
	if err != nil {
		log.Printf("Error encoding ledger event: %s\n", err.Error())
		return
	}
	if err := lib.SQSProduceMessage(queue, string(body)); err != nil {
		log.Printf("Error sending ledger event to queue %s: %s\n", queue, err.Error())
	}
}
