package api

import (
	"time"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type SearchResult struct {
	Title    string `json:"title"`
	Category string `json:"category,omitempty"`
	URL      string `json:"url,omitempty"`
	Path     string `json:"path,omitempty"`
	// Snippet is HTML: matched terms are wrapped in <mark>, everything else
	// is escaped.
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score"`
}

type SearchResponse struct {
	Query      string         `json:"query"`
	Results    []SearchResult `json:"results"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	Pages      int            `json:"pages"`
	Limit      int            `json:"limit"`
	MatchQuery string         `json:"match_query,omitempty"`
}

type CategoriesResponse struct {
	Error      string   `json:"error,omitempty"`
	Categories []string `json:"categories"`
}

type StatsResponse struct {
	Error          string     `json:"error,omitempty"`
	TotalDocuments int        `json:"total_documents"`
	SampleTitles   []string   `json:"sample_titles,omitempty"`
	DatabasePath   string     `json:"database_path,omitempty"`
	IndexedAt      *time.Time `json:"indexed_at,omitempty"`
	Reindexing     bool       `json:"reindexing"`
}

// Reindex job states reported by /reindex.
const (
	ReindexStatusStarted = "started"
	ReindexStatusRunning = "running"
)

type ReindexResponse struct {
	Folder  string `json:"folder"`
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

type AnalyzeResponse struct {
	Error          string          `json:"error,omitempty"`
	TotalDocuments int             `json:"total_documents"`
	Categories     []CategoryCount `json:"categories"`
	TopWords       []WordCount     `json:"top_words"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

type JobResponse struct {
	ID         string     `json:"id"`
	Folder     string     `json:"folder"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Documents  int        `json:"documents"`
	Error      string     `json:"error,omitempty"`
}

// EventsInit is the first message sent on /events.
type EventsInit struct {
	Type       string       `json:"type"`
	Reindexing bool         `json:"reindexing"`
	Current    *JobResponse `json:"current,omitempty"`
	Last       *JobResponse `json:"last,omitempty"`
}
