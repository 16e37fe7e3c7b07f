package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/sp-website-api/internal/application"
	"github.com/oksasatya/sp-website-api/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// UserIndex keeps a searchable copy of user summaries in Elasticsearch.
type UserIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewUserIndex(es *elasticsearch.Client, index string) *UserIndex {
	return &UserIndex{es: es, index: index}
}

type userDoc struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (x *UserIndex) IndexUser(ctx context.Context, u *entity.User) error {
	b, err := json.Marshal(userDoc{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      x.index,
		DocumentID: strconv.FormatInt(u.ID, 10),
		Body:       bytes.NewReader(b),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return fmt.Errorf("es index user %d: %w", u.ID, err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index user %d: %s", u.ID, res.Status())
	}
	return nil
}

func (x *UserIndex) DeleteUser(ctx context.Context, id int64) error {
	req := esapi.DeleteRequest{Index: x.index, DocumentID: strconv.FormatInt(id, 10)}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return fmt.Errorf("es delete user %d: %w", id, err)
	}
	defer func() { _ = res.Body.Close() }()
	// already gone is fine
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es delete user %d: %s", id, res.Status())
	}
	return nil
}

// SearchUsers runs a multi_match over email and name, email boosted.
func (x *UserIndex) SearchUsers(ctx context.Context, q string, size int) ([]application.UserSummary, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "name"},
			},
		},
		"size": size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.es.Search(
		x.es.Search.WithContext(c),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, fmt.Errorf("es search users: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		// index not created yet
		if res.StatusCode == 404 {
			return []application.UserSummary{}, nil
		}
		return nil, fmt.Errorf("es search users: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source userDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("es search users: decode: %w", err)
	}

	out := make([]application.UserSummary, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, application.UserSummary{
			ID:    h.Source.ID,
			Email: h.Source.Email,
			Name:  h.Source.Name,
			Role:  h.Source.Role,
		})
	}
	return out, nil
}

var _ application.UserIndex = (*UserIndex)(nil)

const userMapping = `{
  "mappings": {
    "properties": {
      "id":         {"type": "long"},
      "email":      {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "name":       {"type": "text"},
      "role":       {"type": "keyword"},
      "created_at": {"type": "date"},
      "updated_at": {"type": "date"}
    }
  }
}`

// EnsureIndex creates the users index with its mapping when it does not exist yet.
func (x *UserIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.es.Indices.Exists([]string{x.index}, x.es.Indices.Exists.WithContext(c))
	if err != nil {
		return fmt.Errorf("es index exists: %w", err)
	}
	_ = res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	res, err = x.es.Indices.Create(x.index,
		x.es.Indices.Create.WithContext(c),
		x.es.Indices.Create.WithBody(strings.NewReader(userMapping)),
	)
	if err != nil {
		return fmt.Errorf("es create index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	// 400 resource_already_exists when another instance won the race
	if res.IsError() && res.StatusCode != 400 {
		return fmt.Errorf("es create index: %s", res.Status())
	}
	return nil
}
