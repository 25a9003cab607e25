package sparql

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsDoc = `{
	"head": {"vars": ["iri"]},
	"results": {"bindings": [
		{"iri": {"type": "uri", "value": "http://example.org/Thing"}}
	]}
}`

func TestHTTPClientExecute(t *testing.T) {
	var gotQuery, gotContentType, gotAccept string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotQuery = string(body)
		gotContentType = r.Header.Get("Content-Type")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", acceptResultsJSON)
		_, _ = w.Write([]byte(resultsDoc))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL)
	table, err := client.Execute(context.Background(), "SELECT ?iri WHERE { ?iri a ?o }")
	require.NoError(t, err)

	assert.Equal(t, "SELECT ?iri WHERE { ?iri a ?o }", gotQuery)
	assert.Equal(t, contentTypeQuery, gotContentType)
	assert.Equal(t, acceptResultsJSON, gotAccept)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "http://example.org/Thing", table.Rows[0]["iri"].Value)
}

func TestHTTPClientBasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "alice" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(resultsDoc))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, WithBasicAuth("alice", "secret"))
	_, err := client.Execute(context.Background(), "SELECT * WHERE {}")
	require.NoError(t, err)

	unauthed := NewHTTPClient(srv.URL)
	_, err = unauthed.Execute(context.Background(), "SELECT * WHERE {}")
	assert.Error(t, err)
}

func TestHTTPClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "malformed query", http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL)
	_, err := client.Execute(context.Background(), "SELEC bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "malformed query")
}
