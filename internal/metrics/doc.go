/*
包 metrics 提供基于 Prometheus 的指标采集能力，覆盖
LLM 请求与圆桌会话两个维度。

# 概述

本包通过 Collector 统一注册和记录 Prometheus 指标，使用 promauto
自动注册机制，避免手动管理 Registry。所有指标按 namespace 隔离，
支持多维度 label 分组，便于 Grafana 等工具进行可视化与告警。

# 核心类型

  - Collector：指标收集器，持有 Counter 与 Histogram 指标，
    同时实现 llm.MetricsCollector 与 agent.Recorder 接口。

# 主要能力

  - LLM 指标：请求总数、请求耗时、Token 用量（prompt/completion），
    按 provider/model 分组，状态归类为 success/error。
  - 会话指标：每步发言计数与耗时（按 agent_id 分组）、
    会话总数、每场轮数与总耗时分布。
*/
package metrics
