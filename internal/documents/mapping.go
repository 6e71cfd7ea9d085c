package documents

import (
	"encoding/json"
	"net/url"

	"github.com/mrsingh86/freightdesk/pkg/query"
	"github.com/mrsingh86/freightdesk/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("thread_id", "ThreadID").
	Project("message_id", "MessageID").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("storage_key", "StorageKey").
	Project("document_type", "DocumentType").
	Project("direction", "Direction").
	Project("status", "Status").
	Project("sender_domain", "SenderDomain").
	Project("identifiers", "Identifiers").
	Project("supersedes_id", "SupersedesID").
	Project("received_at", "ReceivedAt").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "ReceivedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for document queries.
// Nil fields are ignored. Filename uses case-insensitive contains matching;
// the rest use exact matching.
type Filters struct {
	ThreadID     *string `json:"thread_id,omitempty"`
	Filename     *string `json:"filename,omitempty"`
	DocumentType *string `json:"document_type,omitempty"`
	Direction    *string `json:"direction,omitempty"`
	Status       *string `json:"status,omitempty"`
	SenderDomain *string `json:"sender_domain,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ThreadID", f.ThreadID).
		WhereContains("Filename", f.Filename).
		WhereEquals("DocumentType", f.DocumentType).
		WhereEquals("Direction", f.Direction).
		WhereEquals("Status", f.Status).
		WhereEquals("SenderDomain", f.SenderDomain)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if tid := values.Get("thread_id"); tid != "" {
		f.ThreadID = &tid
	}

	if fn := values.Get("filename"); fn != "" {
		f.Filename = &fn
	}

	if dt := values.Get("document_type"); dt != "" {
		f.DocumentType = &dt
	}

	if dir := values.Get("direction"); dir != "" {
		f.Direction = &dir
	}

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if sd := values.Get("sender_domain"); sd != "" {
		f.SenderDomain = &sd
	}

	return f
}

func scanDocument(s repository.Scanner) (Document, error) {
	var (
		d           Document
		identifiers []byte
	)

	err := s.Scan(
		&d.ID,
		&d.ThreadID,
		&d.MessageID,
		&d.Filename,
		&d.ContentType,
		&d.SizeBytes,
		&d.PageCount,
		&d.StorageKey,
		&d.DocumentType,
		&d.Direction,
		&d.Status,
		&d.SenderDomain,
		&identifiers,
		&d.SupersedesID,
		&d.ReceivedAt,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return d, err
	}

	if len(identifiers) > 0 {
		if err := json.Unmarshal(identifiers, &d.Identifiers); err != nil {
			return d, err
		}
	}

	return d, nil
}
