package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rubiojr/cari/pkg/indexer"
	"github.com/rubiojr/cari/pkg/search"
	"github.com/rubiojr/cari/pkg/storage"
	"github.com/rubiojr/cari/pkg/version"
)

// NotIndexedMessage is reported in the payload error field while the corpus
// has never been indexed.
const NotIndexedMessage = "Database not indexed"

// maxTopWords caps the top parameter of /analyze.
const maxTopWords = 100

func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	params := search.ParseSearchParams(r.URL.Query())

	if params.Query == "" {
		s.writeError(w, http.StatusBadRequest, "Missing query parameter", "Query parameter 'q' is required")
		return
	}

	results, err := s.service.Search(r.Context(), params)
	if err != nil {
		logger.Errorf("search %q failed: %v", params.Query, err)
		s.writeError(w, http.StatusInternalServerError, "Search failed", err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, NewSearchResponse(results))
}

// NewSearchResponse converts service results to the wire format.
func NewSearchResponse(results *search.SearchResults) SearchResponse {
	items := make([]SearchResult, len(results.Results))
	for i, res := range results.Results {
		items[i] = SearchResult{
			Title:    res.Title,
			Category: res.Category,
			URL:      res.URL,
			Path:     res.Path,
			Snippet:  res.Snippet,
			Score:    res.Score,
		}
	}
	return SearchResponse{
		Query:      results.Query,
		Results:    items,
		Total:      results.Total,
		Page:       results.Page,
		Pages:      results.Pages,
		Limit:      results.Limit,
		MatchQuery: results.MatchQuery,
	}
}

func (s *Server) HandleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.service.Categories(r.Context())
	if errors.Is(err, storage.ErrNotIndexed) {
		s.writeJSON(w, http.StatusOK, CategoriesResponse{Error: NotIndexedMessage, Categories: []string{}})
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to list categories", err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, CategoriesResponse{Categories: categories})
}

func (s *Server) HandleStats(w http.ResponseWriter, r *http.Request) {
	response := StatsResponse{Reindexing: s.reindexing()}

	stats, err := s.service.Stats(r.Context())
	if errors.Is(err, storage.ErrNotIndexed) {
		response.Error = NotIndexedMessage
		s.writeJSON(w, http.StatusOK, response)
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to get stats", err.Error())
		return
	}

	response.TotalDocuments = stats.TotalDocuments
	response.SampleTitles = stats.SampleTitles
	response.DatabasePath = stats.DatabasePath
	indexedAt := stats.IndexedAt
	response.IndexedAt = &indexedAt
	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) HandleReindex(w http.ResponseWriter, r *http.Request) {
	// The job outlives the request.
	job, err := s.reindexer.Start(context.WithoutCancel(r.Context()))
	switch {
	case errors.Is(err, indexer.ErrReindexRunning):
		s.writeJSON(w, http.StatusOK, ReindexResponse{
			Folder:  job.Folder,
			JobID:   job.ID,
			Status:  ReindexStatusRunning,
			Message: "Reindex already in progress",
		})
	case err != nil:
		s.writeError(w, http.StatusInternalServerError, "Failed to start reindex", err.Error())
	default:
		s.writeJSON(w, http.StatusAccepted, ReindexResponse{
			Folder:  job.Folder,
			JobID:   job.ID,
			Status:  ReindexStatusStarted,
			Message: fmt.Sprintf("Reindexing %s", job.Folder),
		})
	}
}

func (s *Server) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	top := search.DefaultTopWords
	if v := r.URL.Query().Get("top"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			top = min(parsed, maxTopWords)
		}
	}

	analysis, err := s.service.Analyze(r.Context(), top)
	if errors.Is(err, storage.ErrNotIndexed) {
		s.writeJSON(w, http.StatusOK, AnalyzeResponse{
			Error:      NotIndexedMessage,
			Categories: []CategoryCount{},
			TopWords:   []WordCount{},
		})
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Analysis failed", err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, NewAnalyzeResponse(analysis))
}

// NewAnalyzeResponse converts a corpus analysis to the wire format.
func NewAnalyzeResponse(analysis *search.Analysis) AnalyzeResponse {
	response := AnalyzeResponse{
		TotalDocuments: analysis.TotalDocuments,
		Categories:     make([]CategoryCount, len(analysis.Categories)),
		TopWords:       make([]WordCount, len(analysis.TopWords)),
	}
	for i, c := range analysis.Categories {
		response.Categories[i] = CategoryCount{Category: c.Category, Count: c.Count}
	}
	for i, word := range analysis.TopWords {
		response.TopWords[i] = WordCount{Word: word.Word, Count: word.Count}
	}
	return response
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version.APIVersion(),
	}

	s.writeJSON(w, http.StatusOK, health)
}

func (s *Server) reindexing() bool {
	return s.reindexer != nil && s.reindexer.Status().Current != nil
}

func jobResponse(job *indexer.Job) *JobResponse {
	if job == nil {
		return nil
	}
	resp := &JobResponse{
		ID:        job.ID,
		Folder:    job.Folder,
		StartedAt: job.StartedAt,
		Documents: job.Documents,
		Error:     job.Err,
	}
	if !job.Running() {
		finished := job.FinishedAt
		resp.FinishedAt = &finished
	}
	return resp
}
