package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"campus-kpi-tracker/internal/models"

	"github.com/meilisearch/meilisearch-go"
)

// ReadingDocument is the flattened reading stored in the index
type ReadingDocument struct {
	ID        uint    `json:"id"`
	Metric    string  `json:"metricKind"`
	Month     string  `json:"month"`
	MonthNum  int     `json:"monthNum"`
	Year      int     `json:"year"`
	Location  string  `json:"location"`
	Source    string  `json:"source"`
	Unit      string  `json:"unit"`
	Actual    float64 `json:"actual"`
	Target    float64 `json:"target"`
	Status    string  `json:"status"`
	CreatedAt int64   `json:"createdAt"`
}

// NewReadingDocument flattens r for indexing
func NewReadingDocument(r models.MetricReading) ReadingDocument {
	return ReadingDocument{
		ID:        r.ID,
		Metric:    string(r.Metric),
		Month:     r.Month,
		MonthNum:  models.MonthIndex(r.Month) + 1,
		Year:      r.Year,
		Location:  r.Location,
		Source:    r.Source,
		Unit:      r.Unit,
		Actual:    r.Actual,
		Target:    r.Target,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt.Unix(),
	}
}

type SearchClient struct {
	client *meilisearch.Client
	index  string
}

func NewSearchClient(host, apiKey, index string) *SearchClient {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})
	if index == "" {
		index = "readings"
	}

	return &SearchClient{
		client: client,
		index:  index,
	}
}

// InitIndex initializes the Meilisearch index
func (s *SearchClient) InitIndex() error {
	_, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        s.index,
		PrimaryKey: "id",
	})
	// Ignore error if index already exists
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		return err
	}

	_, err = s.client.Index(s.index).UpdateSearchableAttributes(&[]string{
		"location",
		"source",
		"metricKind",
		"month",
	})
	if err != nil {
		return err
	}

	_, err = s.client.Index(s.index).UpdateFilterableAttributes(&[]string{
		"metricKind",
		"year",
		"month",
		"location",
		"status",
	})
	if err != nil {
		return err
	}

	_, err = s.client.Index(s.index).UpdateSortableAttributes(&[]string{
		"year",
		"monthNum",
		"actual",
		"createdAt",
	})
	return err
}

// IndexReadings adds or replaces readings in the index
func (s *SearchClient) IndexReadings(ctx context.Context, rs ...models.MetricReading) error {
	if len(rs) == 0 {
		return nil
	}
	docs := make([]ReadingDocument, len(rs))
	for i, r := range rs {
		docs[i] = NewReadingDocument(r)
	}
	_, err := s.client.Index(s.index).AddDocuments(docs)
	return err
}

// RemoveReading deletes one document
func (s *SearchClient) RemoveReading(ctx context.Context, id uint) error {
	_, err := s.client.Index(s.index).DeleteDocument(strconv.FormatUint(uint64(id), 10))
	return err
}

// SearchResult represents search results with facets
type SearchResult struct {
	Hits           []ReadingDocument      `json:"hits"`
	TotalHits      int64                  `json:"totalHits"`
	Facets         map[string]interface{} `json:"facets,omitempty"`
	ProcessingTime int64                  `json:"processingTimeMs"`
}

// Search runs a full-text query narrowed by params
func (s *SearchClient) Search(ctx context.Context, params FilterParams) (*SearchResult, error) {
	req := &meilisearch.SearchRequest{
		Limit:  params.limit(),
		Offset: params.Offset,
		Facets: []string{"metricKind", "status"},
	}
	if filter := params.Filter(); filter != "" {
		req.Filter = filter
	}
	if params.SortBy != "" {
		req.Sort = []string{params.SortBy}
	}

	res, err := s.client.Index(s.index).Search(params.Query, req)
	if err != nil {
		return nil, fmt.Errorf("search readings: %w", err)
	}

	hits := make([]ReadingDocument, 0, len(res.Hits))
	for _, hit := range res.Hits {
		// Convert hit to JSON then to ReadingDocument
		raw, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		var doc ReadingDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		hits = append(hits, doc)
	}

	var facets map[string]interface{}
	if res.FacetDistribution != nil {
		facets, _ = res.FacetDistribution.(map[string]interface{})
	}

	return &SearchResult{
		Hits:           hits,
		TotalHits:      res.EstimatedTotalHits,
		Facets:         facets,
		ProcessingTime: res.ProcessingTimeMs,
	}, nil
}
