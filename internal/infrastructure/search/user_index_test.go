package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/sp-website-api/internal/domain/entity"
)

type recorded struct {
	method, path, body string
}

func fakeES(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*elasticsearch.Client, *[]recorded) {
	t.Helper()
	var mu sync.Mutex
	reqs := []recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recorded{r.Method, r.URL.Path, string(b)})
		mu.Unlock()
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es, &reqs
}

func TestUserIndex_IndexAndDelete(t *testing.T) {
	es, reqs := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"result":"not_found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})
	x := NewUserIndex(es, "users")
	ctx := context.Background()

	require.NoError(t, x.IndexUser(ctx, &entity.User{ID: 7, Email: "a@x.com", Name: "A", Role: entity.RoleUser}))
	require.NoError(t, x.DeleteUser(ctx, 7), "missing documents are not an error")

	require.Len(t, *reqs, 2)
	put := (*reqs)[0]
	assert.Equal(t, "/users/_doc/7", put.path)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(put.body), &doc))
	assert.Equal(t, "a@x.com", doc["email"])
	assert.Equal(t, "user", doc["role"])
	assert.NotContains(t, put.body, "password")

	assert.Equal(t, http.MethodDelete, (*reqs)[1].method)
}

func TestUserIndex_Search(t *testing.T) {
	es, reqs := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hits":{"hits":[
			{"_id":"2","_source":{"id":2,"email":"b@x.com","name":"Bob","role":"admin"}}
		]}}`))
	})
	x := NewUserIndex(es, "users")

	hits, err := x.SearchUsers(context.Background(), "bob", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, int64(2), hits[0].ID)
	assert.Equal(t, "admin", hits[0].Role)

	last := (*reqs)[len(*reqs)-1]
	assert.True(t, strings.HasSuffix(last.path, "/users/_search"))
	assert.Contains(t, last.body, `"multi_match"`)
	assert.Contains(t, last.body, `"size":5`)
}

func TestUserIndex_SearchMissingIndex(t *testing.T) {
	es, _ := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"index_not_found_exception"}}`))
	})

	hits, err := NewUserIndex(es, "users").SearchUsers(context.Background(), "x", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestUserIndex_ServerError(t *testing.T) {
	es, _ := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{}`))
	})
	x := NewUserIndex(es, "users")

	assert.Error(t, x.IndexUser(context.Background(), &entity.User{ID: 1}))
}

func TestUserIndex_EnsureIndex(t *testing.T) {
	created := false
	es, reqs := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			if created {
				w.WriteHeader(http.StatusOK)
				return
			}
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			created = true
			_, _ = w.Write([]byte(`{"acknowledged":true}`))
		}
	})
	x := NewUserIndex(es, "users")

	require.NoError(t, x.EnsureIndex(context.Background()))
	require.NoError(t, x.EnsureIndex(context.Background()))

	puts := 0
	for _, r := range *reqs {
		if r.method == http.MethodPut {
			puts++
			assert.Contains(t, r.body, `"mappings"`)
		}
	}
	assert.Equal(t, 1, puts)
}
