package source

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"go-sync-ingest/internal/model"
	"go-sync-ingest/pkg/utils"
)

// Source names where a batch of raw records comes from.
type Source struct {
	Type string `json:"type"` // csv, json, api
	URL  string `json:"url"`  // file path for csv/json, endpoint for api
}

// ReadBatch loads every record from the source into one ordered batch of
// loose values. Reading never validates: malformed records travel through to
// the validator, which reports defects as data.
func ReadBatch(ctx context.Context, src Source) ([]model.RawRecord, error) {
	switch strings.ToLower(src.Type) {
	case "csv":
		return readCSVFile(src.URL)
	case "json":
		return readJSONFile(src.URL)
	case "api":
		return fetchJSON(ctx, src.URL)
	default:
		return nil, fmt.Errorf("unknown source type: %s", src.Type)
	}
}

func readJSONFile(path string) ([]model.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open JSON file: %w", err)
	}
	defer f.Close()
	return decodeJSON(f)
}

func fetchJSON(ctx context.Context, url string) ([]model.RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to GET records: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return decodeJSON(resp.Body)
}

// decodeJSON accepts either an array of records or a single record object.
func decodeJSON(r io.Reader) ([]model.RawRecord, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON body: %w", err)
	}

	var batch []model.RawRecord
	if err := json.Unmarshal(body, &batch); err == nil {
		return batch, nil
	}

	var single model.RawRecord
	if err := json.Unmarshal(body, &single); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}
	return []model.RawRecord{single}, nil
}

// readCSVFile maps each CSV row to a loose mapping keyed by the header row.
// Cell values go through the loose-value parser, so numeric columns come out
// numeric.
func readCSVFile(path string) ([]model.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, h := range headers {
		h = strings.TrimSpace(h)
		headers[i] = strings.ReplaceAll(h, `"`, "")
	}

	var batch []model.RawRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return batch, nil
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %w", err)
		}

		fields := make(map[string]model.Value, len(headers))
		for i, h := range headers {
			if i < len(row) {
				fields[h] = utils.ParseValue(row[i])
			}
		}
		batch = append(batch, model.Map(fields))
	}
}
