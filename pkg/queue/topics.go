// Package queue 定义消息主题常量与通配模式，供发布/订阅使用.
package queue

// 主题命名规范：mv.<域>.<动作>，尽量稳定且向后兼容.
// 域：artifact(制品)、version(版本)、integrity(完整性).
const (
	// 版本生命周期.
	TopicVersionStored  = "mv.version.stored"  // 新版本已签名并落库（blob+元数据）
	TopicVersionDeleted = "mv.version.deleted" // 版本删除（blob 先删，元数据随后）

	// 访问统计.
	TopicVersionAccessed = "mv.version.accessed" // 版本被下载（用于热点统计）

	// 完整性自检结果.
	TopicIntegrityVerified = "mv.integrity.verified" // 自检通过，摘要匹配
	TopicIntegrityTampered = "mv.integrity.tampered" // 自检失败，疑似篡改

	// 制品生命周期.
	TopicArtifactDeleted = "mv.artifact.deleted" // 制品级联删除完成
)

// 通配模式，供订阅端使用.
const (
	PatternVersionAll   = "mv.version.>"
	PatternIntegrityAll = "mv.integrity.>"
)
