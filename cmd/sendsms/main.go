// Command sendsms sends one SMS and polls its delivery status until it
// reaches a terminal state. Transient failures are retried with backoff.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	twilio "twilio-go"
	"twilio-go/retry"
)

func main() {
	_ = godotenv.Load()

	from := flag.String("from", os.Getenv("FROM"), "sending phone number (E.164)")
	to := flag.String("to", os.Getenv("TO"), "receiving phone number (E.164)")
	body := flag.String("body", "Hello, World!", "message body")
	callback := flag.String("status-callback", "", "URL to receive delivery-status webhooks")
	wait := flag.Duration("wait", 60*time.Second, "how long to poll for a terminal delivery status")
	flag.Parse()

	accountSID := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	if accountSID == "" || authToken == "" {
		fatalf("TWILIO_ACCOUNT_SID and TWILIO_AUTH_TOKEN must be set")
	}
	if *from == "" || *to == "" {
		fatalf("-from and -to are required (or FROM/TO environment variables)")
	}

	client := twilio.NewClient(accountSID, authToken)

	ctx, cancel := context.WithTimeout(context.Background(), *wait)
	defer cancel()

	outbound := twilio.NewOutboundMessage(*from, *to, *body)
	outbound.StatusCallback = *callback

	retryCfg := retry.DefaultConfig()
	retryCfg.RetryableErrors = twilio.IsRetryable

	var sent *twilio.Message
	err := retry.Do(ctx, retryCfg, func() error {
		var err error
		sent, err = client.SendMessage(ctx, outbound)
		return err
	})
	if err != nil {
		fatalf("sending message: %v", err)
	}

	fmt.Printf("sent message %s\n", sent.Sid)

	for {
		select {
		case <-ctx.Done():
			fmt.Println("gave up waiting for a terminal status")
			return
		case <-time.After(2 * time.Second):
		}

		msg, err := client.GetMessage(ctx, sent.Sid)
		if err != nil {
			if twilio.IsRetryable(err) {
				continue
			}
			fatalf("fetching message status: %v", err)
		}

		if msg.Status == nil {
			continue
		}

		fmt.Printf("status: %s\n", *msg.Status)
		if msg.Status.Terminal() {
			return
		}
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
