package db

import (
	"github.com/SaiNageswarS/go-api-boot/odm"
)

const TextSearchIndexName = "policyChunkIndex"

var TextSearchPaths = []string{"text", "title", "payer"}

// PolicyChunkModel is one chunked passage of a payer policy document.
type PolicyChunkModel struct {
	ChunkID    string `json:"chunkId" bson:"_id"`
	Payer      string `json:"payer" bson:"payer"`           // e.g. "aetna_inpatient_2025"
	Title      string `json:"title" bson:"title"`           // policy document title
	Text       string `json:"text" bson:"text"`             // passage text, used for term search
	ChunkIndex int    `json:"chunkIndex" bson:"chunkIndex"` // position within the source document
}

func (m PolicyChunkModel) Id() string { return m.ChunkID }

func (m PolicyChunkModel) CollectionName() string { return "policy_chunks" }

// Indexes
func (m PolicyChunkModel) TermSearchIndexSpecs() []odm.TermSearchIndexSpec {
	return []odm.TermSearchIndexSpec{
		{
			Name:  "policyChunkIndex",
			Paths: []string{"text", "title", "payer"},
		},
	}
}
