package models

type ContentType string

const (
	ContentSummary      ContentType = "summary"
	ContentConversation ContentType = "conversation"
)
