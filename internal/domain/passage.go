package domain

// Metadata tag keys shared between the ingestion and query pipelines.
const (
	TagFileName   = "file_name"
	TagPageNumber = "page_number"
	TagChatID     = "chat_id"
	TagUser       = "user"
	TagAI         = "ai"
	TagTimestamp  = "timestamp"
)

// Passage is one indexed unit of document text: a single PDF page after
// normalization.
type Passage struct {
	Content    string
	FileName   string
	PageNumber int // 1-based
}

// Turn is one conversation exchange. Timestamp is RFC 3339, assigned at
// write time by the history store.
type Turn struct {
	User      string `json:"user"`
	AI        string `json:"ai"`
	Timestamp string `json:"timestamp"`
}
