package report

import (
    "fmt"
    "strings"

    "github.com/hyperifyio/newslens/internal/analyze"
    "github.com/hyperifyio/newslens/internal/pipeline"
)

// Section headings shared by every rendering.
const (
    QuickHeading   = "Quick Assessment"
    FullHeading    = "Full Article Analysis"
    SuccessNotice  = "Analysis complete. Scroll up to review."
    unavailableFmt = "_Analysis unavailable: %s_"
)

// Markdown renders a finished run as a single Markdown document. Results are
// emitted in catalog order under their group headings. A failed extraction
// renders only the failure message.
func Markdown(rep pipeline.Report) string {
    var sb strings.Builder
    title := strings.TrimSpace(rep.Article.Title)
    if title == "" {
        title = "News Article Analysis"
    }
    sb.WriteString("# ")
    sb.WriteString(title)
    sb.WriteString("\n\n")
    if rep.URL != "" {
        sb.WriteString(fmt.Sprintf("Source: [%s](%s)\n\n", rep.URL, rep.URL))
    }

    if rep.Article.Failed() {
        sb.WriteString("> ")
        sb.WriteString(rep.Article.Message())
        sb.WriteString("\n")
        return sb.String()
    }

    writeGroup(&sb, QuickHeading, rep.QuickAssessment())
    sb.WriteString("---\n\n")
    writeGroup(&sb, FullHeading, rep.FullAnalysis())
    sb.WriteString(SuccessNotice)
    sb.WriteString("\n")
    return sb.String()
}

func writeGroup(sb *strings.Builder, heading string, results []pipeline.Result) {
    sb.WriteString("## ")
    sb.WriteString(heading)
    sb.WriteString("\n\n")
    for _, res := range results {
        sb.WriteString("### ")
        sb.WriteString(res.Task.Label)
        sb.WriteString("\n\n")
        sb.WriteString(ResultText(res))
        sb.WriteString("\n\n")
    }
}

// ResultText is the display text for one slot: the model output, or an
// inline placeholder when that task failed.
func ResultText(res pipeline.Result) string {
    if res.Err != nil {
        return fmt.Sprintf(unavailableFmt, res.Err.Error())
    }
    return res.Text
}

// GroupTitle maps a task group to its section heading.
func GroupTitle(g analyze.Group) string {
    if g == analyze.GroupQuick {
        return QuickHeading
    }
    return FullHeading
}
