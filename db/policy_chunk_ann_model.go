package db

import (
	"github.com/SaiNageswarS/go-api-boot/odm"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// EmbeddingDimensions matches the retrieval embedder's output size.
const EmbeddingDimensions = 1024

const (
	VectorIndexName = "policyEmbeddingIndex"
	VectorPath      = "embedding"
)

type PolicyChunkAnnModel struct {
	ChunkID   string      `json:"chunkId" bson:"_id"` // Unique
	Payer     string      `json:"payer" bson:"payer"` // Denormalized so vector search can pre-filter by payer
	Embedding bson.Vector `json:"-" bson:"embedding"` // Embedding vector for the chunk, not serialized in JSON
}

func (m PolicyChunkAnnModel) Id() string { return m.ChunkID }

func (m PolicyChunkAnnModel) CollectionName() string { return "policy_chunk_ann_index" }

// Indexes
func (m PolicyChunkAnnModel) VectorIndexSpecs() []odm.VectorIndexSpec {
	return []odm.VectorIndexSpec{
		{
			Name:          "policyEmbeddingIndex",
			Path:          "embedding",
			Type:          "vector",
			NumDimensions: EmbeddingDimensions,
			Similarity:    "cosine",
			Quantization:  "scalar",
		},
	}
}
