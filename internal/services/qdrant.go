package services

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"hireloop/resume-screener/internal/logger"
	"hireloop/resume-screener/internal/models"
)

const (
	indexChunkSize    = 1000
	indexChunkOverlap = 100
)

// CandidateIndex maintains a vector index of resume text for tenant-scoped
// similarity search. Indexing is best-effort: it never gates ingestion.
type CandidateIndex interface {
	InitCollection() error
	IndexResume(ctx context.Context, resume *models.Resume) error
	SearchSimilar(ctx context.Context, companyID, query string, limit int) ([]models.SearchHit, error)
	DeleteResume(ctx context.Context, resumeID uuid.UUID) error
}

type candidateIndex struct {
	client         *qdrant.Client
	gemini         GeminiService
	chunker        TextChunker
	collectionName string
	vectorSize     uint64
}

func NewCandidateIndex(urlStr, apiKey, collectionName string, gemini GeminiService) (CandidateIndex, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port by default.
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &candidateIndex{
		client:         client,
		gemini:         gemini,
		chunker:        NewTextChunker(),
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004 dimension
	}, nil
}

// InitCollection implements CandidateIndex.
func (c *candidateIndex) InitCollection() error {
	ctx := context.Background()

	exists, err := c.client.CollectionExists(ctx, c.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		return nil
	}

	err = c.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: c.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     c.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	logger.Info().Str("collection", c.collectionName).Msg("qdrant collection created")
	return nil
}

// IndexResume implements CandidateIndex. Long resumes are chunked and each
// chunk is stored as its own point carrying the resume linkage in payload.
func (c *candidateIndex) IndexResume(ctx context.Context, resume *models.Resume) error {
	if resume.ResumeText == "" {
		return nil
	}

	chunks := c.chunker.ChunkText(resume.ResumeText, indexChunkSize, indexChunkOverlap)

	var points []*qdrant.PointStruct
	for i, chunk := range chunks {
		embedding, err := c.gemini.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return fmt.Errorf("failed to embed resume chunk: %w", err)
		}

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(uuid.New().ID())),
			Vectors: qdrant.NewVectors(embedding...),
			Payload: qdrant.NewValueMap(map[string]interface{}{
				"resume_id":  resume.ID.String(),
				"company_id": resume.CompanyID,
				"chunk":      i,
			}),
		})
	}

	if len(points) == 0 {
		return nil
	}

	_, err := c.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: c.collectionName,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	return nil
}

// SearchSimilar implements CandidateIndex. Results are deduplicated per
// resume, keeping each resume's best chunk score.
func (c *candidateIndex) SearchSimilar(ctx context.Context, companyID, query string, limit int) ([]models.SearchHit, error) {
	embedding, err := c.gemini.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("company_id", companyID),
		},
	}

	// Over-fetch because several chunks may belong to one resume.
	points, err := c.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: c.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(limit * 4)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	best := make(map[string]float32)
	for _, point := range points {
		resumeID := ""
		if v, ok := point.Payload["resume_id"]; ok {
			if val, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
				resumeID = val.StringValue
			}
		}
		if resumeID == "" {
			continue
		}
		if score, ok := best[resumeID]; !ok || point.Score > score {
			best[resumeID] = point.Score
		}
	}

	hits := make([]models.SearchHit, 0, len(best))
	for id, score := range best {
		hits = append(hits, models.SearchHit{ResumeID: id, Score: score})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })

	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// DeleteResume implements CandidateIndex.
func (c *candidateIndex) DeleteResume(ctx context.Context, resumeID uuid.UUID) error {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("resume_id", resumeID.String()),
		},
	}

	_, err := c.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: c.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: filter,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete resume points: %w", err)
	}

	return nil
}
