package util

// MonthFormat 月度统计的月份标签
const MonthFormat = "2006-01"

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 题目附件允许的 MIME 类型（前缀或完整类型）
var AllowedAttachmentTypes = []string{
	"image/",
	"text/plain",
	"application/pdf",
	"application/zip",
	"application/x-gzip",
}

// MaxAttachmentSize 单个附件上限 20MB
const MaxAttachmentSize = 20 << 20
