// Package agent 提供会话 Agent 与多 Agent 管理能力。
//
// Agent 保存人设（名称、系统提示词、模型参数）并维护一份只追加的内存转写；
// 每次 Chat 都是对 LLM Provider 的一次阻塞调用。Manager 维护 ID 到 Agent
// 的映射，并以固定轮次的 Round-Robin 方式驱动多 Agent 对话：上一个 Agent
// 的输出作为下一个 Agent 的输入。
package agent
