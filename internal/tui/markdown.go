package tui

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"docdesk/internal/model"
)

var (
	mdRendererMu sync.Mutex
	// Cache renderers by wrap width + style. Creating a renderer with
	// WithAutoStyle can trigger terminal capability queries that may block
	// on some terminals; a fixed style + caching keeps the detail pane fast.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

func markdownStyle() string {
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	mdRendererMu.Lock()
	style := markdownStyle()
	key := style + ":" + strconv.Itoa(width)
	r := mdRenderers[key]
	mdRendererMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRendererMu.Lock()
		if existing := mdRenderers[key]; existing != nil {
			r = existing
		} else {
			mdRenderers[key] = rr
			r = rr
		}
		mdRendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// detailMarkdown builds the detail-pane document for one record.
func detailMarkdown(d model.DocumentRecord, organization string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", orDash(d.DocumentNo))
	if strings.TrimSpace(d.DocumentDescription) != "" {
		fmt.Fprintf(&b, "%s\n\n", d.DocumentDescription)
	}
	fmt.Fprintf(&b, "| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Ref No | %d |\n", d.RefSeqNo)
	fmt.Fprintf(&b, "| Uploader | %s |\n", orDash(d.UserName))
	fmt.Fprintf(&b, "| Channel Source | %s |\n", orDash(d.DisplayChannelSource(organization)))
	fmt.Fprintf(&b, "| Related To | %s |\n", orDash(d.RelatedTo))
	fmt.Fprintf(&b, "| Category | %s |\n", orDash(d.RelatedCategory))
	fmt.Fprintf(&b, "| Status | %s |\n", orDash(d.DocumentStatus))
	fmt.Fprintf(&b, "| Assigned To | %s |\n", orDash(d.AssignedUser))
	fmt.Fprintf(&b, "| Docs | %d |\n", d.NumberOfDocuments)
	if strings.TrimSpace(d.Remarks) != "" {
		fmt.Fprintf(&b, "\n## Remarks\n\n%s\n", d.Remarks)
	}
	if len(d.UploadedDocs) > 0 {
		b.WriteString("\n## Attachments\n\n")
		for _, a := range d.UploadedDocs {
			name := a.Name
			if a.Ext != "" {
				name += "." + strings.TrimPrefix(a.Ext, ".")
			}
			fmt.Fprintf(&b, "- %s", name)
			if a.UploadedAt != "" {
				fmt.Fprintf(&b, " (%s)", a.UploadedAt)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
