package dto

// ChatRequest is the inbound message event. The caller owns the session
// state and supplies current_department each turn; an empty value means
// GENERAL.
type ChatRequest struct {
	SessionID         string `json:"session_id" validate:"required"`
	Text              string `json:"text" validate:"required"`
	CurrentDepartment string `json:"current_department"`
}

type ChatResponse struct {
	Department string `json:"department"`
	BotMessage string `json:"bot_message"`
	Action     string `json:"action"`
}

type TransferRequest struct {
	SessionID        string `json:"session_id" validate:"required"`
	TargetDepartment string `json:"target_department" validate:"required"`
}
