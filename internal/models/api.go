package models

import "github.com/faiqfarooq/codebase-rag/internal/apperr"

// IngestRequest asks the server to ingest a local directory.
type IngestRequest struct {
	DirectoryPath string `json:"directory_path"`
}

// Validate ensures a directory path was provided.
func (r *IngestRequest) Validate() error {
	if r.DirectoryPath == "" {
		return apperr.InvalidInput("directory_path is required")
	}
	return nil
}

// IngestRepoRequest asks the server to clone and ingest a repository.
type IngestRepoRequest struct {
	RepoURL string `json:"repo_url"`
}

// Validate ensures a repository URL was provided.
func (r *IngestRepoRequest) Validate() error {
	if r.RepoURL == "" {
		return apperr.InvalidInput("repo_url is required")
	}
	return nil
}

// IngestResponse reports the outcome of an ingestion run.
type IngestResponse struct {
	Message        string `json:"message"`
	FilesProcessed int    `json:"files_processed"`
	ChunksCreated  int    `json:"chunks_created"`
}

// ChatRequest is a question about the ingested codebase. Model selects the
// generation backend; empty defaults to the primary profile.
type ChatRequest struct {
	Query string `json:"query"`
	Model string `json:"model,omitempty"`
}

// Validate ensures the query is non-empty.
func (r *ChatRequest) Validate() error {
	if r.Query == "" {
		return apperr.InvalidInput("query cannot be empty")
	}
	return nil
}

// ChatResponse carries the generated answer and the retrieved sources.
type ChatResponse struct {
	Response string   `json:"response"`
	Sources  []Source `json:"sources"`
}
