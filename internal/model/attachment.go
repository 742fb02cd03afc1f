package model

// Attachment is a file attached to a todo item. Binary content lives on
// the server; the client only holds metadata. Attachments exist only for
// authenticated users.
type Attachment struct {
	ID          int      `json:"id"`
	TodoID      int      `json:"todoId"`
	FileName    string   `json:"fileName"`
	FileSize    int64    `json:"fileSize"`
	FileType    string   `json:"fileType,omitempty"`
	DownloadURL string   `json:"downloadURL,omitempty"`
	CreatedAt   DateTime `json:"createdAt,omitempty"`
}
