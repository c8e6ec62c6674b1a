// Package personas 提供预定义的对话人设表。
//
// 每个 Persona 描述一个可直接用于 agent.Config 的角色：名称、描述、
// 系统提示词与温度偏好。预定义人设面向 Round-Robin 讨论场景：
// 头脑风暴者提出想法，批评者挑毛病，综合者收束结论。
package personas

import (
	"fmt"
	"sort"
	"sync"

	"github.com/BaSui01/roundtable/agent"
)

// PersonaType 人设类型
type PersonaType string

const (
	PersonaBrainstormer   PersonaType = "brainstormer"    // 头脑风暴者
	PersonaCritic         PersonaType = "critic"          // 批评者
	PersonaResearcher     PersonaType = "researcher"      // 研究者
	PersonaSummarizer     PersonaType = "summarizer"      // 综合者
	PersonaModerator      PersonaType = "moderator"       // 主持人
	PersonaDevilsAdvocate PersonaType = "devils_advocate" // 唱反调者
)

// Persona 人设定义
type Persona struct {
	Type         PersonaType `json:"type"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	SystemPrompt string      `json:"system_prompt"`
	Temperature  float32     `json:"temperature,omitempty"`
}

// AgentConfig 将人设转换为 agent.Config，ID 由调用方补充或自动生成。
func (p *Persona) AgentConfig(model string) agent.Config {
	return agent.Config{
		Name:         p.Name,
		Description:  p.Description,
		Model:        model,
		SystemPrompt: p.SystemPrompt,
		Temperature:  p.Temperature,
	}
}

// NewBrainstormerPersona 创建头脑风暴者人设
func NewBrainstormerPersona() *Persona {
	return &Persona{
		Type:         PersonaBrainstormer,
		Name:         "Brainstormer",
		Description:  "Generates many candidate ideas quickly without judging them.",
		SystemPrompt: "You are an enthusiastic brainstormer. Given a topic or a previous speaker's message, respond with fresh, concrete ideas that build on it. Quantity over polish; never criticize, only expand. Keep each idea to one or two sentences.",
		Temperature:  0.9,
	}
}

// NewCriticPersona 创建批评者人设
func NewCriticPersona() *Persona {
	return &Persona{
		Type:         PersonaCritic,
		Name:         "Critic",
		Description:  "Finds flaws, risks, and hidden assumptions in proposals.",
		SystemPrompt: "You are a rigorous critic. Examine the previous speaker's message for weak points: hidden assumptions, feasibility problems, missing evidence. Be specific and constructive; for every flaw you raise, say what would fix it.",
		Temperature:  0.3,
	}
}

// NewResearcherPersona 创建研究者人设
func NewResearcherPersona() *Persona {
	return &Persona{
		Type:         PersonaResearcher,
		Name:         "Researcher",
		Description:  "Grounds the discussion in facts, prior art, and references.",
		SystemPrompt: "You are a careful researcher. Relate the previous speaker's message to known facts, prior art, and established results. Point out what is already known, what is novel, and what would need verification. Cite the kind of source you would consult.",
		Temperature:  0.4,
	}
}

// NewSummarizerPersona 创建综合者人设
func NewSummarizerPersona() *Persona {
	return &Persona{
		Type:         PersonaSummarizer,
		Name:         "Summarizer",
		Description:  "Condenses the discussion into its strongest conclusions.",
		SystemPrompt: "You are a concise summarizer. Distill the previous speaker's message into its essential points, preserving disagreements rather than papering over them. End with the single strongest actionable conclusion so far.",
		Temperature:  0.2,
	}
}

// NewModeratorPersona 创建主持人人设
func NewModeratorPersona() *Persona {
	return &Persona{
		Type:         PersonaModerator,
		Name:         "Moderator",
		Description:  "Keeps the discussion on topic and moves it forward.",
		SystemPrompt: "You are a discussion moderator. Restate where the conversation stands, note which questions remain open, and pose the single most productive next question for the group.",
		Temperature:  0.3,
	}
}

// NewDevilsAdvocatePersona 创建唱反调者人设
func NewDevilsAdvocatePersona() *Persona {
	return &Persona{
		Type:         PersonaDevilsAdvocate,
		Name:         "Devil's Advocate",
		Description:  "Argues the opposite position to stress-test the consensus.",
		SystemPrompt: "You are a devil's advocate. Whatever position the previous speaker takes, construct the strongest honest argument for the opposite view. Do not strawman; steelman the contrary case.",
		Temperature:  0.7,
	}
}

// Registry 人设注册表
type Registry struct {
	mu       sync.RWMutex
	personas map[PersonaType]*Persona
}

// NewRegistry 创建空注册表。
func NewRegistry() *Registry {
	return &Registry{personas: make(map[PersonaType]*Persona)}
}

// NewDefaultRegistry 创建包含全部预定义人设的注册表。
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, p := range []*Persona{
		NewBrainstormerPersona(),
		NewCriticPersona(),
		NewResearcherPersona(),
		NewSummarizerPersona(),
		NewModeratorPersona(),
		NewDevilsAdvocatePersona(),
	} {
		// 预定义人设类型互不相同，注册不会失败
		_ = r.Register(p)
	}
	return r
}

// Register 注册人设定义。
func (r *Registry) Register(p *Persona) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.personas[p.Type]; exists {
		return fmt.Errorf("persona %s already registered", p.Type)
	}
	r.personas[p.Type] = p
	return nil
}

// Get 获取人设定义。
func (r *Registry) Get(t PersonaType) (*Persona, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.personas[t]
	return p, ok
}

// List 列出所有人设，按类型排序。
func (r *Registry) List() []*Persona {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Persona, 0, len(r.personas))
	for _, p := range r.personas {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}
