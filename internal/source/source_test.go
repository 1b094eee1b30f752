package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadBatchJSONArray(t *testing.T) {
	path := writeFile(t, "records.json", `[
		{"id": "msg-1", "from": "a@b.com"},
		{"id": "msg-2", "from_address": {"email": "c@d.com"}},
		"not a record"
	]`)

	batch, err := ReadBatch(context.Background(), Source{Type: "json", URL: path})
	require.NoError(t, err)
	require.Len(t, batch, 3)

	id, _ := batch[0].Get("id").AsString()
	assert.Equal(t, "msg-1", id)

	// Malformed entries are kept for the validator to reject.
	_, isMap := batch[2].AsMap()
	assert.False(t, isMap)
}

func TestReadBatchSingleObject(t *testing.T) {
	path := writeFile(t, "one.json", `{"id": "msg-1", "from": "a@b.com"}`)

	batch, err := ReadBatch(context.Background(), Source{Type: "json", URL: path})
	require.NoError(t, err)
	require.Len(t, batch, 1)
}

func TestReadBatchCSV(t *testing.T) {
	path := writeFile(t, "records.csv", "id,from,size\nmsg-1,a@b.com,2048\nmsg-2,c@d.com,17.5\n")

	batch, err := ReadBatch(context.Background(), Source{Type: "csv", URL: path})
	require.NoError(t, err)
	require.Len(t, batch, 2)

	id, _ := batch[0].Get("id").AsString()
	assert.Equal(t, "msg-1", id)

	size, isNumber := batch[0].Get("size").AsNumber()
	assert.True(t, isNumber, "numeric CSV cells parse as numbers")
	assert.Equal(t, float64(2048), size)
}

func TestReadBatchAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": "msg-1", "from": "a@b.com"}]`))
	}))
	defer srv.Close()

	batch, err := ReadBatch(context.Background(), Source{Type: "api", URL: srv.URL})
	require.NoError(t, err)
	assert.Len(t, batch, 1)
}

func TestReadBatchAPIBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := ReadBatch(context.Background(), Source{Type: "api", URL: srv.URL})
	assert.Error(t, err)
}

func TestReadBatchUnknownType(t *testing.T) {
	_, err := ReadBatch(context.Background(), Source{Type: "xml", URL: "whatever"})
	assert.ErrorContains(t, err, "unknown source type")
}
