package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"docdesk/internal/model"
)

// Edit form field order. The record identity and uploader are fixed; only
// the descriptive metadata is editable.
const (
	editFieldDescription = iota
	editFieldRelatedTo
	editFieldCategory
	editFieldStatus
	editFieldAssignedTo
	editFieldRemarks
	editFieldCount
)

type editFormState struct {
	refSeqNo int
	doc      model.DocumentRecord
	inputs   [editFieldCount]textinput.Model
	focus    int
}

func newEditFormState() *editFormState {
	f := &editFormState{}
	for i := range f.inputs {
		in := textinput.New()
		in.CharLimit = 200
		in.Prompt = ""
		f.inputs[i] = in
	}
	return f
}

func editFieldLabel(i int) string {
	switch i {
	case editFieldDescription:
		return "Document Name"
	case editFieldRelatedTo:
		return "Related To"
	case editFieldCategory:
		return "Category"
	case editFieldStatus:
		return "Status"
	case editFieldAssignedTo:
		return "Assigned To"
	case editFieldRemarks:
		return "Remarks"
	default:
		return "?"
	}
}

// load seeds the form from the record being edited.
func (f *editFormState) load(doc model.DocumentRecord) {
	f.refSeqNo = doc.RefSeqNo
	f.doc = doc
	f.inputs[editFieldDescription].SetValue(doc.DocumentDescription)
	f.inputs[editFieldRelatedTo].SetValue(doc.RelatedTo)
	f.inputs[editFieldCategory].SetValue(doc.RelatedCategory)
	f.inputs[editFieldStatus].SetValue(doc.DocumentStatus)
	f.inputs[editFieldAssignedTo].SetValue(doc.AssignedUser)
	f.inputs[editFieldRemarks].SetValue(doc.Remarks)
	f.setFocus(0)
}

// apply copies the edited fields back onto the record for the save call.
func (f *editFormState) apply() model.DocumentRecord {
	doc := f.doc
	doc.DocumentDescription = strings.TrimSpace(f.inputs[editFieldDescription].Value())
	doc.RelatedTo = strings.TrimSpace(f.inputs[editFieldRelatedTo].Value())
	doc.RelatedCategory = strings.TrimSpace(f.inputs[editFieldCategory].Value())
	doc.DocumentStatus = strings.TrimSpace(f.inputs[editFieldStatus].Value())
	doc.AssignedUser = strings.TrimSpace(f.inputs[editFieldAssignedTo].Value())
	doc.Remarks = strings.TrimSpace(f.inputs[editFieldRemarks].Value())
	return doc
}

func (f *editFormState) setFocus(i int) {
	f.focus = ((i % editFieldCount) + editFieldCount) % editFieldCount
	for j := range f.inputs {
		if j == f.focus {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

func (m appModel) updateEditFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.editForm
	switch msg.String() {
	case "esc":
		m.modal = modalNone
		return m, nil
	case "tab", "down":
		f.setFocus(f.focus + 1)
		return m, textinput.Blink
	case "shift+tab", "up":
		f.setFocus(f.focus - 1)
		return m, textinput.Blink
	case "enter", "ctrl+s":
		return m, m.updateCmd(f.apply())
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return m, cmd
}

func (m appModel) renderEditForm() string {
	f := m.editForm
	lines := make([]string, 0, editFieldCount+2)
	for i := range f.inputs {
		lines = append(lines, renderInputLine(editFieldLabel(i), f.inputs[i].View(), i == f.focus))
	}
	lines = append(lines, "")
	lines = append(lines, styleMuted().Render("tab: next field   enter: save   esc: cancel"))

	title := fmt.Sprintf("Edit document #%d", f.refSeqNo)
	return renderModalBox(m.width, title, strings.Join(lines, "\n"))
}
