package model

import "strings"

// Document status values used by the DMS workflow. The server is the source
// of truth; anything outside this set (including blank) is treated as an
// open/editable document.
const (
	StatusVerified           = "VERIFIED"
	StatusAwaitingAcceptance = "AWAITING FOR USER ACCEPTANCE"
	StatusInProgress         = "IN PROGRESS"
	StatusCompleted          = "COMPLETED"
)

// Attachment is one uploaded file hanging off a document record.
type Attachment struct {
	RefSeqNo   int    `json:"REF_SEQ_NO"`
	SerialNo   int    `json:"SERIAL_NO"`
	Name       string `json:"DOC_NAME"`
	Ext        string `json:"DOC_EXT,omitempty"`
	UploadedAt string `json:"UPLOAD_TIME,omitempty"`
}

// DocumentRecord is one row of the document master list.
//
// JSON tags follow the DMS wire contract (upper-snake column names), except
// uploadedDocs/IsPrimaryDocument which the server emits as-is. RefSeqNo is
// the row identity: unique within a loaded collection, and the key used for
// deletion and re-rendering.
type DocumentRecord struct {
	RefSeqNo            int    `json:"REF_SEQ_NO"`
	DocumentNo          string `json:"DOCUMENT_NO"`
	DocumentDescription string `json:"DOCUMENT_DESCRIPTION"`
	UserName            string `json:"USER_NAME"`
	ChannelSource       string `json:"CHANNEL_SOURCE"`
	RelatedTo           string `json:"DOC_RELATED_TO"`
	RelatedCategory     string `json:"DOC_RELATED_CATEGORY"`
	DocumentStatus      string `json:"DOCUMENT_STATUS"`
	AssignedUser        string `json:"ASSIGNED_USER"`
	NumberOfDocuments   int    `json:"NO_OF_DOCUMENTS"`
	Remarks             string `json:"DOCUMENT_REMARKS,omitempty"`

	// Client-side normalizations, seeded on load.
	UploadedDocs      []Attachment `json:"uploadedDocs"`
	IsPrimaryDocument string       `json:"IsPrimaryDocument"`
}

// StatusUpper returns the workflow status normalized for comparison.
func (d DocumentRecord) StatusUpper() string {
	return strings.ToUpper(strings.TrimSpace(d.DocumentStatus))
}

// DisplayChannelSource falls back to the viewer's organization when the
// server left the channel source blank.
func (d DocumentRecord) DisplayChannelSource(organization string) string {
	if strings.TrimSpace(d.ChannelSource) == "" {
		return organization
	}
	return d.ChannelSource
}

// Session is the acting identity plus the endpoint it talks to.
type Session struct {
	ServerURL        string `json:"serverUrl"`
	CurrentUserLogin string `json:"currentUserLogin"`
	CurrentUserName  string `json:"currentUserName"`
	Organization     string `json:"organization,omitempty"`
	Token            string `json:"token,omitempty"`
}

// ListQuery is the fixed query contract for the master list fetch.
type ListQuery struct {
	WhereCondition  string `json:"WhereCondition"`
	Orderby         string `json:"Orderby"`
	IncludeEmpImage bool   `json:"IncludeEmpImage"`
}

// DefaultListQuery returns the query the table controller always issues:
// no filter predicate, newest first, image payloads excluded.
func DefaultListQuery() ListQuery {
	return ListQuery{
		WhereCondition:  "",
		Orderby:         "REF_SEQ_NO DESC",
		IncludeEmpImage: false,
	}
}

// DeleteRequest identifies the record to remove on the server.
type DeleteRequest struct {
	UserName string `json:"USER_NAME"`
	RefSeqNo int    `json:"REF_SEQ_NO"`
}
