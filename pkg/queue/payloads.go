package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
// 建议在发布消息时填充 TraceID、OccurredAt、Producer 等，便于追踪链路与审计.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 分布式追踪/关联 ID，可来自中间件或业务生成.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC，RFC3339）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本，便于向后兼容演进.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
// T 即不同主题对应的负载结构体.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// VersionRef 标识一个制品版本及其存储位置.
// 负载只携带定位信息与公开摘要；绝不包含明文内容或服务端密钥.
type VersionRef struct {
	ArtifactID string `json:"artifact_id"`
	VersionID  string `json:"version_id"`
	TenantID   string `json:"tenant_id,omitempty"`
	StorageKey string `json:"storage_key,omitempty"`
	// Signature 规范签名串 namespace:algorithm:hex，公开信息
	Signature string `json:"signature,omitempty"`
	ByteSize  int64  `json:"byte_size,omitempty"`
	FileName  string `json:"file_name,omitempty"`
}

// VersionStoredPayload 新版本已签名并持久化.
type VersionStoredPayload struct {
	Version VersionRef `json:"version"`
	// DisplayVersion 上传方声明的语义版本串
	DisplayVersion string `json:"display_version,omitempty"`
	// Format 落库信封格式标签
	Format string `json:"format,omitempty"`
}

// VersionDeletedPayload 版本被删除. BlobDeleted=false 表示对象删除失败、
// 元数据仍按约定继续删除（尽力而为清理）.
type VersionDeletedPayload struct {
	Version     VersionRef `json:"version"`
	BlobDeleted bool       `json:"blob_deleted"`
}

// VersionAccessedPayload 版本被下载.
type VersionAccessedPayload struct {
	Version       VersionRef `json:"version"`
	Authenticated bool       `json:"authenticated"`
}

// IntegrityCheckPayload 自检结果（verified 与 tampered 共用）.
type IntegrityCheckPayload struct {
	Version VersionRef `json:"version"`
	Matched bool       `json:"matched"`
	// SubmittedDigest 客户端提交字节的重新计算摘要（规范串）
	SubmittedDigest string `json:"submitted_digest,omitempty"`
}

// ArtifactDeletedPayload 制品级联删除完成.
type ArtifactDeletedPayload struct {
	ArtifactID      string `json:"artifact_id"`
	TenantID        string `json:"tenant_id,omitempty"`
	VersionsDeleted int    `json:"versions_deleted"`
	BlobFailures    int    `json:"blob_failures"`
}
