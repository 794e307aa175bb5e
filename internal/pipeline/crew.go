package pipeline

import (
	"github.com/ppiankov/groundcheck/internal/agent"
	"github.com/ppiankov/groundcheck/internal/llm"
	"go.uber.org/zap"
)

const (
	RoleResearch  = "Research Specialist"
	RoleWriter    = "Creative Writer"
	RoleEvaluator = "Evaluation Agent"
)

// ResearchCrew is the research → write → evaluate crew with handles on its tasks
type ResearchCrew struct {
	Crew     *agent.Crew
	Research *agent.Task
	Write    *agent.Task
	Evaluate *agent.Task
}

// NewResearchCrew wires the three agents and their tasks. search may be nil,
// in which case the research agent answers from the model alone.
func NewResearchCrew(provider llm.Provider, search agent.Tool, verbose bool, logger *zap.Logger) *ResearchCrew {
	var tools []agent.Tool
	if search != nil {
		tools = append(tools, search)
	}

	researcher := &agent.Agent{
		Role:      RoleResearch,
		Goal:      "Research interesting facts about the topic: {topic}",
		Backstory: "You are an expert at finding relevant and factual data. You make use of web search to find the latest and most relevant data on the given topic.",
		Tools:     tools,
		LLM:       provider,
		Verbose:   verbose,
	}
	writer := &agent.Agent{
		Role:      RoleWriter,
		Goal:      "Write a short blog summary using the research. Use the given facts and do not hallucinate any data.",
		Backstory: "You are skilled at writing engaging summaries based on provided content.",
		LLM:       provider,
		Verbose:   verbose,
	}
	evaluator := &agent.Agent{
		Role:      RoleEvaluator,
		Goal:      "Assess the writer's summary for hallucinations, factual accuracy and grounding.",
		Backstory: "You check the summary against the research and produce a short report with pass/fail flags and reasons.",
		LLM:       provider,
		Verbose:   verbose,
	}

	research := agent.NewTask(
		"Find 3-5 interesting and recent facts about {topic} as of year {year}.",
		"A bullet list of 3-5 facts",
		researcher,
	)
	research.ToolInput = "{topic} {year}"

	write := agent.NewTask(
		"Write a 100-word blog post summary about {topic} using the facts from the research.",
		"A blog post summary",
		writer,
		research,
	)

	evaluate := agent.NewTask(
		"Run evals on the writer's summary (detect hallucination, factual accuracy, groundedness).",
		"A structured eval report (flags, reasons, suggested fixes).",
		evaluator,
		research, write,
	)

	return &ResearchCrew{
		Crew: &agent.Crew{
			Agents:  []*agent.Agent{researcher, writer, evaluator},
			Tasks:   []*agent.Task{research, write, evaluate},
			Verbose: verbose,
			Logger:  logger,
		},
		Research: research,
		Write:    write,
		Evaluate: evaluate,
	}
}
