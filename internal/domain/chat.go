package domain

// ChatEntry is one immutable line of a room's history: either a text
// message or a file-share record, never both.
type ChatEntry struct {
	UserID    UserID `json:"user_id"`
	Username  string `json:"username"`
	Message   string `json:"message,omitempty"`
	FileID    string `json:"file_id,omitempty"`
	FileName  string `json:"file_name,omitempty"`
	Timestamp string `json:"timestamp"`
}

// IsFileShare reports whether the entry references a stored file
// instead of carrying a text body.
func (e ChatEntry) IsFileShare() bool {
	return e.FileID != ""
}
