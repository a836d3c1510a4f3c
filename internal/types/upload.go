package types

import "encoding/json"

// ProgressFunc 上传进度回调（步骤名, 累计百分比）
// 百分比由各步骤的锚点线性映射得到，保留一位小数
type ProgressFunc func(step string, percent float64)

// BatchTask 批量上传任务
// json 子命令的输入为 BatchTask 数组，metadata 结构与 youtube.Metadata 一致
type BatchTask struct {
	File     string          `json:"file"`
	Metadata json.RawMessage `json:"metadata"`
}
