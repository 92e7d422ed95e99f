package types

// ValidateResponse 完整性自检结果. 绝不包含服务端密钥或存储密文.
type ValidateResponse struct {
	Validated       bool   `json:"validated"`
	SubmittedDigest string `json:"submittedDigest"`
	ExpectedDigest  string `json:"expectedDigest"`
}

// HealthResponse 健康检查响应.
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// ErrorResponse 统一错误响应体.
type ErrorResponse struct {
	Error string `json:"error"`
}
