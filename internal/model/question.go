package model

// QuestionItem is one record produced by the extraction step. Its shape is
// owned by the extractor; only the "id" key is interpreted here.
type QuestionItem map[string]any

// QuestionItemIDKey is the attribute that uniquely identifies an item in the question bank.
const QuestionItemIDKey = "id"

// IngestRequest is the body of the ingestion endpoint.
type IngestRequest struct {
	File *string `json:"file" binding:"required"`
}

// IngestResult is returned after a document has been processed.
type IngestResult struct {
	Status    string `json:"status"`
	Questions int    `json:"questions"`
	Uploaded  int    `json:"uploaded"`
}
