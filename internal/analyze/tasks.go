package analyze

// Group is the display row a task's result belongs to.
type Group string

const (
    GroupQuick Group = "quick"
    GroupFull  Group = "full"
)

// Task is one fixed question asked of the model about the article.
type Task struct {
    Key         string `json:"key"`
    Label       string `json:"label"`
    Instruction string `json:"instruction"`
    Group       Group  `json:"group"`
    // Column is the zero-based column within the group's three-column row.
    Column int `json:"column"`
}

var defaultTasks = []Task{
    {Key: "bias", Label: "🧭 Bias Assessment", Group: GroupQuick, Column: 0,
        Instruction: "Assess whether the article is biased or neutral."},
    {Key: "political_leaning", Label: "🏛️ Persuasion of Reporter", Group: GroupQuick, Column: 1,
        Instruction: "What political perspective does this article reflect: left, right, or center?"},
    {Key: "alternative_sources", Label: "🔗 Other Views", Group: GroupQuick, Column: 2,
        Instruction: "Suggest 2–3 credible alternative sources with links that cover the same story."},
    {Key: "summary", Label: "Summary", Group: GroupFull, Column: 0,
        Instruction: "Summarize the article using 3–4 concise bullet points with emojis."},
    {Key: "narrative", Label: "Narrative & Framing", Group: GroupFull, Column: 0,
        Instruction: "What is the main narrative or message in this article? What framing is used?"},
    {Key: "tone", Label: "Tone & Bias", Group: GroupFull, Column: 1,
        Instruction: "Analyze the tone and any ideological bias."},
    {Key: "missing_facts", Label: "Missing Facts", Group: GroupFull, Column: 1,
        Instruction: "What relevant facts or perspectives are missing or underrepresented?"},
    {Key: "alternative_viewpoints", Label: "Alternative Viewpoints", Group: GroupFull, Column: 2,
        Instruction: "Offer two other viewpoints that could be taken."},
    {Key: "misinterpretation_risk", Label: "Misinterpretation Risk", Group: GroupFull, Column: 2,
        Instruction: "How could the article be misinterpreted or weaponized?"},
}

// DefaultTasks returns a copy of the fixed catalog in declaration order.
func DefaultTasks() []Task {
    out := make([]Task, len(defaultTasks))
    copy(out, defaultTasks)
    return out
}
