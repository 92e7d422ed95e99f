package queue

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
)

// -------------------------- 基于业务封装 events --------------------------

// Publisher 事件发布端，由 mq.Client 实现.
type Publisher interface {
	Publish(ctx context.Context, topic string, msgs ...*message.Message) error
}

// PublishVersionStored 发布 mv.version.stored 事件.
// 在版本 blob 与元数据都写入成功后调用，通知下游（索引、统计、审计）.
func PublishVersionStored(ctx context.Context, pub Publisher, payload VersionStoredPayload, opts ...func(*EventHeader)) error {
	return publish(ctx, pub, TopicVersionStored, payload, opts...)
}

// PublishVersionDeleted 发布 mv.version.deleted 事件.
func PublishVersionDeleted(ctx context.Context, pub Publisher, payload VersionDeletedPayload, opts ...func(*EventHeader)) error {
	return publish(ctx, pub, TopicVersionDeleted, payload, opts...)
}

// PublishVersionAccessed 发布 mv.version.accessed 事件（下载统计）.
func PublishVersionAccessed(ctx context.Context, pub Publisher, payload VersionAccessedPayload, opts ...func(*EventHeader)) error {
	return publish(ctx, pub, TopicVersionAccessed, payload, opts...)
}

// PublishIntegrityResult 依据比对结果发布 verified 或 tampered 事件.
func PublishIntegrityResult(ctx context.Context, pub Publisher, payload IntegrityCheckPayload, opts ...func(*EventHeader)) error {
	topic := TopicIntegrityVerified
	if !payload.Matched {
		topic = TopicIntegrityTampered
	}

	return publish(ctx, pub, topic, payload, opts...)
}

// PublishArtifactDeleted 发布 mv.artifact.deleted 事件.
func PublishArtifactDeleted(ctx context.Context, pub Publisher, payload ArtifactDeletedPayload, opts ...func(*EventHeader)) error {
	return publish(ctx, pub, TopicArtifactDeleted, payload, opts...)
}

// ParseIntegrityResult 将 watermill 消息解析为强类型 Envelope.
func ParseIntegrityResult(msg *message.Message) (Message[IntegrityCheckPayload], error) {
	return ParseWatermillMessage[IntegrityCheckPayload](msg)
}

func publish[T any](ctx context.Context, pub Publisher, topic string, payload T, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(topic, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(ctx, topic, msg)
}
