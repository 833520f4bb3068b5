package report

import (
    "github.com/hyperifyio/newslens/internal/analyze"
    "github.com/hyperifyio/newslens/internal/pipeline"
)

// SectionJSON is one task result in the JSON view.
type SectionJSON struct {
    Key    string        `json:"key"`
    Label  string        `json:"label"`
    Group  analyze.Group `json:"group"`
    Column int           `json:"column"`
    Text   string        `json:"text,omitempty"`
    Error  string        `json:"error,omitempty"`
}

// JSON is the wire form of a Report.
type JSON struct {
    URL        string        `json:"url"`
    Title      string        `json:"title,omitempty"`
    Status     int           `json:"status,omitempty"`
    Error      string        `json:"error,omitempty"`
    Sections   []SectionJSON `json:"sections"`
    DurationMS int64         `json:"duration_ms"`
    Message    string        `json:"message,omitempty"`
}

// ToJSON converts a Report into its wire form. Sections is never nil.
func ToJSON(rep pipeline.Report) JSON {
    out := JSON{
        URL:        rep.URL,
        Title:      rep.Article.Title,
        Status:     rep.Article.Status,
        Sections:   make([]SectionJSON, 0, len(rep.Results)),
        DurationMS: rep.Duration.Milliseconds(),
    }
    if rep.Article.Failed() {
        out.Error = rep.Article.Message()
        return out
    }
    for _, res := range rep.Results {
        sec := SectionJSON{
            Key:    res.Task.Key,
            Label:  res.Task.Label,
            Group:  res.Task.Group,
            Column: res.Task.Column,
            Text:   res.Text,
        }
        if res.Err != nil {
            sec.Error = res.Err.Error()
        }
        out.Sections = append(out.Sections, sec)
    }
    out.Message = SuccessNotice
    return out
}
