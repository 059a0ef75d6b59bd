package types

// ExecuteRequest represents a bridge execution request
type ExecuteRequest struct {
	ToolID string                 `json:"tool_id" binding:"required"`
	Params map[string]interface{} `json:"params"`
}

// StreamMessage represents an inbound message on the UI stream
type StreamMessage struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
}
