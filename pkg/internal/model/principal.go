package model

// Principal 由上游认证代理断言的调用方身份. 核心不签发令牌，
// 只消费身份头与原始 Bearer 令牌（后者仅用于密钥派生）.
type Principal struct {
	ID       string
	TenantID string // 空串表示无租户（全局分区）
	Admin    bool
	// BearerToken 原始令牌，解密存储密文的唯一密钥来源；不得写入日志
	BearerToken string
}

// Anonymous 报告请求是否未认证.
func (p *Principal) Anonymous() bool {
	return p == nil || p.ID == ""
}

// HasToken 报告请求是否携带可用于密钥派生的令牌.
func (p *Principal) HasToken() bool {
	return p != nil && p.BearerToken != ""
}

// CanAdminister 报告主体是否具有管理员能力.
func (p *Principal) CanAdminister() bool {
	return p != nil && p.Admin
}
