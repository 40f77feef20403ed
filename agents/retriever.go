package agents

import "context"

// PolicyRetriever is the retrieval-augmentation collaborator. Query returns
// ranked policy passages with payer attribution as a prompt-ready block, or
// a defined no-results sentinel when the corpus has nothing relevant.
type PolicyRetriever interface {
	Query(ctx context.Context, query string, topK int, payer string) (string, error)
}
