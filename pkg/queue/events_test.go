package queue

import (
	"context"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
)

// capturePublisher 记录发布的主题与消息，供断言使用.
type capturePublisher struct {
	topic string
	msgs  []*message.Message
}

func (p *capturePublisher) Publish(_ context.Context, topic string, msgs ...*message.Message) error {
	p.topic = topic
	p.msgs = append(p.msgs, msgs...)

	return nil
}

func TestPublishIntegrityResultTopicSelection(t *testing.T) {
	ctx := context.Background()

	matched := &capturePublisher{}
	if err := PublishIntegrityResult(ctx, matched, IntegrityCheckPayload{
		Version: VersionRef{ArtifactID: "a-1", VersionID: "v-1"},
		Matched: true,
	}); err != nil {
		t.Fatalf("PublishIntegrityResult: %v", err)
	}

	if matched.topic != TopicIntegrityVerified {
		t.Fatalf("matched result should go to %s, got %s", TopicIntegrityVerified, matched.topic)
	}

	tampered := &capturePublisher{}
	if err := PublishIntegrityResult(ctx, tampered, IntegrityCheckPayload{
		Version: VersionRef{ArtifactID: "a-1", VersionID: "v-1"},
		Matched: false,
	}); err != nil {
		t.Fatalf("PublishIntegrityResult: %v", err)
	}

	if tampered.topic != TopicIntegrityTampered {
		t.Fatalf("mismatch result should go to %s, got %s", TopicIntegrityTampered, tampered.topic)
	}
}

func TestParseIntegrityResultRoundTrip(t *testing.T) {
	pub := &capturePublisher{}

	payload := IntegrityCheckPayload{
		Version:         VersionRef{ArtifactID: "a-1", VersionID: "v-1", Signature: "strixun:hmac-sha256:abcd"},
		Matched:         false,
		SubmittedDigest: "strixun:hmac-sha256:ef01",
	}

	if err := PublishIntegrityResult(context.Background(), pub, payload, WithProducer("modvault"), WithTraceID("trace-1")); err != nil {
		t.Fatalf("PublishIntegrityResult: %v", err)
	}

	if len(pub.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(pub.msgs))
	}

	msg := pub.msgs[0]
	if msg.UUID == "" {
		t.Fatal("message should carry a ULID id")
	}

	if got := msg.Metadata.Get("producer"); got != "modvault" {
		t.Fatalf("unexpected producer metadata %q", got)
	}

	env, err := ParseIntegrityResult(msg)
	if err != nil {
		t.Fatalf("ParseIntegrityResult: %v", err)
	}

	if env.Header.Topic != TopicIntegrityTampered || env.Header.TraceID != "trace-1" {
		t.Fatalf("unexpected header %+v", env.Header)
	}

	if env.Payload != payload {
		t.Fatalf("payload round trip mismatch: %+v", env.Payload)
	}
}
