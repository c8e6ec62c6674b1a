// Package tokenizer 提供统一的 Token 计数实现，
// 支持 tiktoken 精确计数与 CJK 估算器，用于对话转写的 Token 统计。
package tokenizer
