package indexer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/project-tktt/gradconnection-crawler/internal/domain"
)

// ElasticsearchIndexer indexes jobs to Elasticsearch
type ElasticsearchIndexer struct {
	client    *elasticsearch.Client
	indexName string
}

// NewElasticsearchIndexer creates a new Elasticsearch indexer
func NewElasticsearchIndexer(addresses []string, indexName string) (*ElasticsearchIndexer, error) {
	cfg := elasticsearch.Config{
		Addresses: addresses,
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create es client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("es info: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("es error: %s", res.Status())
	}

	return &ElasticsearchIndexer{
		client:    client,
		indexName: indexName,
	}, nil
}

// bulkBody renders the NDJSON payload of a bulk request
func bulkBody(indexName string, jobs []*domain.JobDetail) []byte {
	var buf bytes.Buffer

	for _, job := range jobs {
		docBytes, err := json.Marshal(job)
		if err != nil {
			log.Printf("[Elasticsearch] marshal job %s: %v", job.URL, err)
			continue
		}

		meta := map[string]any{
			"index": map[string]any{
				"_index": indexName,
				"_id":    DocumentID(job.URL),
			},
		}
		metaBytes, _ := json.Marshal(meta)
		buf.Write(metaBytes)
		buf.WriteByte('\n')
		buf.Write(docBytes)
		buf.WriteByte('\n')
	}

	return buf.Bytes()
}

// BulkIndex indexes multiple jobs at once. Per-document failures are logged.
func (i *ElasticsearchIndexer) BulkIndex(ctx context.Context, jobs []*domain.JobDetail) error {
	if len(jobs) == 0 {
		return nil
	}

	res, err := i.client.Bulk(bytes.NewReader(bulkBody(i.indexName, jobs)), i.client.Bulk.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("bulk request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("bulk error: %s", res.Status())
	}

	var bulkRes struct {
		Errors bool `json:"errors"`
		Items  []struct {
			Index struct {
				ID     string `json:"_id"`
				Status int    `json:"status"`
				Error  struct {
					Type   string `json:"type"`
					Reason string `json:"reason"`
				} `json:"error"`
			} `json:"index"`
		} `json:"items"`
	}

	if err := json.NewDecoder(res.Body).Decode(&bulkRes); err != nil {
		return fmt.Errorf("parse bulk response: %w", err)
	}

	if bulkRes.Errors {
		for _, item := range bulkRes.Items {
			if item.Index.Status >= 400 {
				log.Printf("[Elasticsearch] bulk index error for %s: %s - %s",
					item.Index.ID, item.Index.Error.Type, item.Index.Error.Reason)
			}
		}
	}

	return nil
}

// Close is a no-op; the HTTP transport has nothing to release
func (i *ElasticsearchIndexer) Close() error {
	return nil
}

const indexMapping = `{
	"settings": {
		"analysis": {
			"analyzer": {
				"folding_analyzer": {
					"type": "custom",
					"tokenizer": "standard",
					"filter": ["lowercase", "asciifolding"]
				}
			}
		}
	},
	"mappings": {
		"properties": {
			"url": {"type": "keyword"},
			"employer_title": {
				"type": "text",
				"analyzer": "folding_analyzer",
				"fields": {"keyword": {"type": "keyword"}}
			},
			"job_title": {
				"type": "text",
				"analyzer": "folding_analyzer",
				"fields": {"keyword": {"type": "keyword"}}
			},
			"job_description": {"type": "text", "analyzer": "folding_analyzer"},
			"ai_job_summary": {"type": "text", "analyzer": "folding_analyzer"},
			"job_type": {"type": "keyword"},
			"disciplines": {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
			"work_rights": {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
			"locations": {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
			"start_date": {"type": "keyword"},
			"end_date": {"type": "keyword"},
			"scraped_at": {"type": "date"}
		}
	}
}`

// EnsureIndex creates the index with its mapping if it doesn't exist
func (i *ElasticsearchIndexer) EnsureIndex(ctx context.Context) error {
	res, err := i.client.Indices.Exists([]string{i.indexName}, i.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	res.Body.Close()

	if res.StatusCode == 200 {
		return nil
	}

	res, err = i.client.Indices.Create(
		i.indexName,
		i.client.Indices.Create.WithBody(strings.NewReader(indexMapping)),
		i.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("create index error: %s", res.Status())
	}

	return nil
}
