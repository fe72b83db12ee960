package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"docdesk/internal/model"
)

type uploadModalState struct {
	refSeqNo    int
	attachments []model.Attachment
	path        textinput.Model
}

func newUploadModalState() *uploadModalState {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = "/path/to/file"
	in.CharLimit = 512
	return &uploadModalState{path: in}
}

func (u *uploadModalState) load(doc model.DocumentRecord) {
	u.refSeqNo = doc.RefSeqNo
	u.attachments = doc.UploadedDocs
	u.path.SetValue("")
	u.path.Focus()
}

func (m appModel) updateUploadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	u := m.upload
	switch msg.String() {
	case "esc":
		m.modal = modalNone
		return m, nil
	case "enter":
		path := strings.TrimSpace(u.path.Value())
		if path == "" {
			return m, m.setNotice(noticeInfo, "Upload", "Enter a file path first.")
		}
		return m, m.uploadCmd(u.refSeqNo, path)
	}

	var cmd tea.Cmd
	u.path, cmd = u.path.Update(msg)
	return m, cmd
}

func (m appModel) renderUploadModal() string {
	u := m.upload
	lines := []string{}
	if len(u.attachments) == 0 {
		lines = append(lines, styleMuted().Render("No files attached yet."))
	} else {
		lines = append(lines, "Attached files:")
		for _, a := range u.attachments {
			name := a.Name
			if a.Ext != "" {
				name += "." + strings.TrimPrefix(a.Ext, ".")
			}
			lines = append(lines, "  • "+name)
		}
	}
	lines = append(lines, "")
	lines = append(lines, renderInputLine("File path", u.path.View(), true))
	lines = append(lines, "")
	lines = append(lines, styleMuted().Render("enter: upload   esc: cancel"))

	title := fmt.Sprintf("Upload to document #%d", u.refSeqNo)
	return renderModalBox(m.width, title, strings.Join(lines, "\n"))
}
