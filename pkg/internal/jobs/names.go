package jobs

// 任务名称常量，便于统一管理与引用.
const (
	JobBlobOrphanSweep   = "blob.orphan_sweep"
	JobBadgeCacheRefresh = "badge.cache_refresh"
)

// Cron 表达式常量（可选，但推荐一并集中管理）.
const (
	CronBlobOrphanSweep   = "20 3 * * *"
	CronBadgeCacheRefresh = "0 */6 * * *"
)
