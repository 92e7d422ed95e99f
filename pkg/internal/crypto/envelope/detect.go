package envelope

import "github.com/strixun/modvault/pkg/internal/model"

// Hints 来自存储元数据的格式提示. Encrypted=false 是识别信封前明文 blob
// 的唯一途径，内容嗅探无法区分明文与未知格式.
type Hints struct {
	Encrypted   bool
	ContentType string
	FormatTag   string // 对象元数据记录的格式标签，可缺失
}

// Detect 依据内容与元数据提示判定格式. 明确的元数据标签优先，
// 其次判别字节，最后内容形状；文件名永不参与.
func Detect(data []byte, hints Hints) model.EncryptionFormat {
	if !hints.Encrypted {
		return model.EncryptionPlain
	}

	if f := byTag(hints.FormatTag); f != "" {
		return f
	}

	if len(data) == 0 {
		return model.EncryptionPlain
	}

	switch data[0] {
	case tagBinaryV5:
		return model.EncryptionBinaryV5
	case tagBinaryV4:
		return model.EncryptionBinaryV4
	case '{':
		return model.EncryptionLegacyJSON
	default:
		return model.EncryptionPlain
	}
}

func byTag(tag string) model.EncryptionFormat {
	switch model.EncryptionFormat(tag) {
	case model.EncryptionPlain, model.EncryptionLegacyJSON,
		model.EncryptionBinaryV4, model.EncryptionBinaryV5:
		return model.EncryptionFormat(tag)
	default:
		return ""
	}
}
