package dto

type CreateDepartmentRequest struct {
	Name           string   `json:"name" validate:"required"`
	Keywords       []string `json:"keywords"`
	CannedResponse string   `json:"canned_response" validate:"required"`
	KnowledgeBase  string   `json:"knowledge_base"`
	Recipient      string   `json:"recipient" validate:"omitempty,email"`
	Position       int      `json:"position"`
}

type UpdateDepartmentRequest struct {
	Name           string   `json:"name" validate:"required"`
	Keywords       []string `json:"keywords"`
	CannedResponse string   `json:"canned_response" validate:"required"`
	KnowledgeBase  string   `json:"knowledge_base"`
	Recipient      string   `json:"recipient" validate:"omitempty,email"`
	Position       int      `json:"position"`
}

type DepartmentResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Keywords       []string `json:"keywords"`
	CannedResponse string   `json:"canned_response"`
	KnowledgeBase  string   `json:"knowledge_base,omitempty"`
	Recipient      string   `json:"recipient"`
	Position       int      `json:"position"`
	CreatedAt      string   `json:"created_at"`
}

type TranscriptEntryResponse struct {
	Sender     string `json:"sender"`
	Message    string `json:"message"`
	Department string `json:"department"`
	Timestamp  string `json:"timestamp"`
}
