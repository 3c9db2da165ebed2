package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-identity/internal/domain/repository"
	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
)

const (
	defaultSearchSize = 10
	maxSearchSize     = 50
	requestTimeout    = 3 * time.Second
)

// UserDocument is what the directory index stores per user.
type UserDocument struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// UserDirectory keeps a searchable copy of user identities in Elasticsearch.
// A nil client turns every call into a no-op so the API runs without a
// search cluster.
type UserDirectory struct {
	es     *elasticsearch.Client
	index  string
	logger *logrus.Logger
}

func NewUserDirectory(es *elasticsearch.Client, index string, logger *logrus.Logger) *UserDirectory {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &UserDirectory{es: es, index: index, logger: logger}
}

func (d *UserDirectory) enabled() bool { return d != nil && d.es != nil && d.index != "" }

const userIndexMapping = `{
  "mappings": {
    "properties": {
      "id":         {"type": "keyword"},
      "email":      {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "full_name":  {"type": "text"},
      "role":       {"type": "keyword"},
      "status":     {"type": "keyword"},
      "created_at": {"type": "date"}
    }
  }
}`

// EnsureIndex creates the directory index with its mapping on first start.
func (d *UserDirectory) EnsureIndex(ctx context.Context) error {
	if !d.enabled() {
		return nil
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	return helpers.ESEnsureIndex(c, d.es, d.index, userIndexMapping)
}

// Index writes or replaces the document for doc.ID.
func (d *UserDirectory) Index(ctx context.Context, doc UserDocument) error {
	if !d.enabled() {
		return nil
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: d.index, DocumentID: doc.ID, Body: bytes.NewReader(b), Refresh: "false"}
	return d.do(ctx, req, doc.ID, "index")
}

// SetStatus updates only the status field of an indexed user.
func (d *UserDirectory) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	if !d.enabled() {
		return nil
	}
	b, err := json.Marshal(map[string]any{"doc": map[string]any{"status": status}})
	if err != nil {
		return err
	}
	req := esapi.UpdateRequest{Index: d.index, DocumentID: id.String(), Body: bytes.NewReader(b)}
	return d.do(ctx, req, id.String(), "update")
}

func (d *UserDirectory) do(ctx context.Context, req esapi.Request, id, action string) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, d.es)
	if err != nil {
		d.logger.WithError(err).WithField("user_id", id).Warnf("es %s failed", action)
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		d.logger.WithField("status", res.Status()).WithField("user_id", id).Warnf("es %s response error", action)
		return fmt.Errorf("es %s %s: %s", action, id, res.Status())
	}
	return nil
}

// Search runs a multi_match over email and name and returns the matching
// users in relevance order.
func (d *UserDirectory) Search(ctx context.Context, q string, size int) ([]repository.UserProfile, error) {
	if !d.enabled() || strings.TrimSpace(q) == "" {
		return []repository.UserProfile{}, nil
	}
	b, err := json.Marshal(searchQuery(q, size))
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := d.es.Search(
		d.es.Search.WithContext(c),
		d.es.Search.WithIndex(d.index),
		d.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}
	return decodeHits(res.Body)
}

func clampSize(size int) int {
	if size <= 0 || size > maxSearchSize {
		return defaultSearchSize
	}
	return size
}

func searchQuery(q string, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  strings.TrimSpace(q),
				"fields": []string{"email^2", "full_name"},
			},
		},
		"size": clampSize(size),
	}
}

func decodeHits(r io.Reader) ([]repository.UserProfile, error) {
	var parsed struct {
		Hits struct {
			Hits []struct {
				Source UserDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(r).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]repository.UserProfile, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		id, err := uuid.Parse(h.Source.ID)
		if err != nil {
			continue
		}
		out = append(out, repository.UserProfile{
			ID:        id,
			Email:     h.Source.Email,
			FullName:  h.Source.FullName,
			Role:      h.Source.Role,
			Status:    h.Source.Status,
			CreatedAt: h.Source.CreatedAt,
		})
	}
	return out, nil
}
