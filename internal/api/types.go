package api

// AskRequest 是问答接口的请求体
type AskRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id"`
}

// AskResponse 是问答接口的响应体，只关心 answer 字段
type AskResponse struct {
	Answer *string `json:"answer"`
}
