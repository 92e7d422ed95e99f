package repository

import (
	"path"
	"strings"
)

// Scope 元数据分区：全局分区或单个租户分区.
// 键构造集中在本文件，其他包不得自行拼接元数据键或 blob 键.
type Scope string

// ScopeGlobal 全局/公共分区.
const ScopeGlobal Scope = "global"

// TenantScope 构造租户分区.
func TenantScope(tenantID string) Scope {
	if tenantID == "" {
		return ScopeGlobal
	}

	return Scope("tenant/" + tenantID)
}

// IsGlobal 报告该分区是否为全局分区.
func (s Scope) IsGlobal() bool {
	return s == ScopeGlobal
}

// TenantID 从租户分区取回租户 ID，全局分区返回空串.
func (s Scope) TenantID() string {
	if s.IsGlobal() {
		return ""
	}

	return strings.TrimPrefix(string(s), "tenant/")
}

// artifactKey 制品元数据键: {scope}/artifact/{id}.
func artifactKey(scope Scope, artifactID string) string {
	return string(scope) + "/artifact/" + artifactID
}

// versionKey 版本元数据键: {scope}/version/{id}.
func versionKey(scope Scope, versionID string) string {
	return string(scope) + "/version/" + versionID
}

// slugKey 别名索引键: {scope}/slug/{slug}.
func slugKey(scope Scope, slug string) string {
	return string(scope) + "/slug/" + slug
}

// tenantPrefix 租户扫描回退用的键前缀，列出所有 tenant/ 分区下的制品键.
const tenantPrefix = "tenant/"

// artifactSuffix 用于从扫描到的键中过滤出制品键.
const artifactSuffix = "/artifact/"

// BlobKey 对象存储键: {tenantId|global}/artifacts/{artifactId}/{versionId}{ext}.
// ext 含点号（如 ".jar"），可为空.
func BlobKey(scope Scope, artifactID, versionID, ext string) string {
	part := "global"
	if !scope.IsGlobal() {
		part = scope.TenantID()
	}

	return path.Join(part, "artifacts", artifactID, versionID) + ext
}
