package models

import "time"

// QueryRequest query by author, kind and tag
type QueryRequest struct {
	Relays   []string      `json:"relays" validate:"min=1,max=5,dive,relayurl"`
	Author   string        `json:"author"`
	Kind     int           `json:"kind" validate:"min=0"`
	TagName  string        `json:"tag_name" validate:"omitempty,tagname"`
	TagValue string        `json:"tag_value"`
	Limit    int           `json:"limit" validate:"gt=0"`
	Timeout  time.Duration `json:"timeout" validate:"gt=0"`
}

// SearchRequest full text search query
type SearchRequest struct {
	Relays  []string      `json:"relays" validate:"min=1,max=5,dive,relayurl"`
	Search  string        `json:"search" validate:"required"`
	Authors string        `json:"authors"`
	Since   string        `json:"since"`
	Until   string        `json:"until"`
	Limit   int           `json:"limit" validate:"gt=0"`
	Timeout time.Duration `json:"timeout" validate:"gt=0"`
}
