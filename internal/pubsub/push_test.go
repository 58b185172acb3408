package pubsub_test

import (
	"encoding/base64"
	"fmt"
	"testing"

	"dubflow/internal/pubsub"
)

func TestDecodePush(t *testing.T) {
	payload := `{"worksheet_url":"https://docs.google.com/spreadsheets/d/1AbC/edit"}`
	body := fmt.Sprintf(
		`{"message":{"data":%q,"messageId":"m-17"},"subscription":"projects/p/subscriptions/s"}`,
		base64.StdEncoding.EncodeToString([]byte(payload)),
	)

	envelope, err := pubsub.DecodePush([]byte(body))
	if err != nil {
		t.Fatalf("DecodePush returned error: %v", err)
	}
	if string(envelope.Message.Data) != payload {
		t.Fatalf("data not decoded: %q", envelope.Message.Data)
	}
	if envelope.Message.MessageID != "m-17" {
		t.Fatalf("unexpected message id %q", envelope.Message.MessageID)
	}
}

func TestDecodePushRejectsEmptyData(t *testing.T) {
	for _, body := range []string{"not-json", `{}`, `{"message":{"data":""}}`} {
		if _, err := pubsub.DecodePush([]byte(body)); err == nil {
			t.Fatalf("expected error for %q", body)
		}
	}
}
