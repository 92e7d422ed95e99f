package rule

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// 域内自定义规则标签.
const (
	TagSlug   = "slug"
	TagDigest = "digest"
)

var (
	slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	// digest 形如 strixun:hmac-sha256:<hex> 或 strixun:sha256:<hex>.
	digestRe = regexp.MustCompile(`^[a-z0-9-]+:(?:hmac-sha256|sha256):[0-9a-fA-F]{64}$`)
)

// RegisterDomainRules 注册制品域的自定义校验规则，应在应用启动时调用一次.
func RegisterDomainRules() error {
	if err := RegisterValidation(TagSlug, validateSlug); err != nil {
		return err
	}

	return RegisterValidation(TagDigest, validateDigest)
}

// validateSlug 校验 URL 友好的短标识：小写字母数字段，短横线分隔.
func validateSlug(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	return len(s) <= 64 && slugRe.MatchString(s)
}

// validateDigest 校验签名字符串格式，不做真实性比对.
func validateDigest(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	return digestRe.MatchString(s)
}
