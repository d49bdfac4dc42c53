package handlers_test

import (
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zatekoja/aiclinimatch/internal/adapters/catalog"
)

func loadCatalog(t *testing.T) *catalog.JSONCatalog {
	t.Helper()
	c, err := catalog.LoadJSONCatalog(filepath.Join("..", "..", "..", "config", "specialists.json"))
	require.NoError(t, err)
	return c
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(dst))
}
