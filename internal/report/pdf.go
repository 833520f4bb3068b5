package report

import (
    "bufio"
    "io"
    "regexp"
    "strings"

    "github.com/jung-kurt/gofpdf"
    "golang.org/x/text/encoding/charmap"
)

var linkRe = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`) // [text](url)

// WritePDF renders the Markdown produced by Markdown as a simple PDF. Headings
// get a larger bold font, links stay clickable, and text that the core fonts
// cannot represent is dropped.
func WritePDF(w io.Writer, markdown string) error {
    pdf := gofpdf.New("P", "mm", "A4", "")
    pdf.SetFont("Helvetica", "", 11)
    pdf.AddPage()

    scanner := bufio.NewScanner(strings.NewReader(markdown))
    scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
    for scanner.Scan() {
        s := strings.TrimSpace(scanner.Text())
        if s == "" {
            pdf.Ln(4)
            continue
        }
        if s == "---" {
            y := pdf.GetY() + 2
            pdf.Line(10, y, 200, y)
            pdf.Ln(6)
            continue
        }
        if strings.HasPrefix(s, "#") {
            i := 0
            for i < len(s) && s[i] == '#' { i++ }
            text := strings.TrimSpace(toWinAnsi(s[i:]))
            if text == "" { continue }
            size := 16.0
            switch i {
            case 2:
                size = 13.0
            case 3:
                size = 11.5
            }
            pdf.SetFont("Helvetica", "B", size)
            pdf.MultiCell(0, 7, text, "", "L", false)
            pdf.SetFont("Helvetica", "", 11)
            continue
        }
        s = strings.TrimPrefix(s, "> ")
        parts := linkRe.FindAllStringSubmatchIndex(s, -1)
        if len(parts) == 0 {
            pdf.MultiCell(0, 5, strings.TrimSpace(toWinAnsi(s)), "", "L", false)
            continue
        }
        pos := 0
        for _, m := range parts {
            if m[0] > pos {
                pdf.Write(5, toWinAnsi(s[pos:m[0]]))
            }
            pdf.WriteLinkString(5, toWinAnsi(s[m[2]:m[3]]), s[m[4]:m[5]])
            pos = m[1]
        }
        if pos < len(s) {
            pdf.Write(5, toWinAnsi(s[pos:]))
        }
        pdf.Ln(6)
    }
    if err := scanner.Err(); err != nil {
        return err
    }
    return pdf.Output(w)
}

// toWinAnsi re-encodes s for the PDF core fonts, which expect cp1252 bytes.
// Runes outside the code page (emoji, variation selectors) are dropped.
// Surrounding spaces are kept so inline segments around links join up.
func toWinAnsi(s string) string {
    var b strings.Builder
    b.Grow(len(s))
    for _, r := range s {
        if r < 0x80 {
            b.WriteByte(byte(r))
            continue
        }
        if c, ok := charmap.Windows1252.EncodeRune(r); ok {
            b.WriteByte(c)
        }
    }
    return b.String()
}
