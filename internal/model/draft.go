package model

import "unicode/utf8"

// Draft is a composed short-form post ready for review.
type Draft struct {
	Content        string   `json:"content"`
	Item           NewsItem `json:"item"`
	Hashtags       []string `json:"hashtags,omitempty"`
	CharCount      int      `json:"char_count"`
	GenerationMode string   `json:"generation_mode"` // template | llm:openai | llm:anthropic | llm:gemini
}

// NewDraft builds a draft and fills in its character count.
func NewDraft(content string, item NewsItem, hashtags []string, mode string) Draft {
	return Draft{
		Content:        content,
		Item:           item,
		Hashtags:       hashtags,
		CharCount:      utf8.RuneCountInString(content),
		GenerationMode: mode,
	}
}

// Report is the complete result of one pipeline run.
type Report struct {
	Date              string
	Timestamp         string
	Drafts            []Draft
	OtherCandidates   []RankedItem
	Skipped           []SkipRecord
	TotalFetched      int
	DuplicatesRemoved int
}
