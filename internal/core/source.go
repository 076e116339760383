package core

// source.go fetches resource records from the dashboard REST API or directly
// from Postgres. Both sources return plain Go values (string, float64, int64,
// bool, time.Time, nested maps) so the table engine never sees driver types.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"golang.org/x/time/rate"

	"github.com/JonMunkholm/dashview/internal/table"
)

// ErrUpstream wraps failures reported by a record source.
var ErrUpstream = errors.New("upstream request failed")

// maxResponseBytes caps how much of an API response is read.
const maxResponseBytes = 64 << 20

// Source loads every record of a resource.
type Source interface {
	Fetch(ctx context.Context, info ResourceInfo) ([]table.Record, error)
}

// APISource reads GET <base>/api/<endpoint>. The body may be a bare array or
// an object wrapping the array in "data", "items" or "results".
type APISource struct {
	baseURL *url.URL
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

// NewAPISource creates a source for the API at baseURL. Requests are paced to
// rps per second with the given burst.
func NewAPISource(baseURL, apiKey string, timeout time.Duration, rps float64, burst int) (*APISource, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid upstream base URL %q", baseURL)
	}
	return &APISource{
		baseURL: u,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}, nil
}

// Fetch implements Source.
func (s *APISource) Fetch(ctx context.Context, info ResourceInfo) ([]table.Record, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := s.baseURL.JoinPath("api", info.Endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", ErrUpstream, endpoint.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: GET %s: status %d: %s",
			ErrUpstream, endpoint.Path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	records, err := decodeRecords(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", ErrUpstream, endpoint.Path, err)
	}
	return records, nil
}

// envelopeKeys are the object fields searched for the record array, in order.
var envelopeKeys = []string{"data", "items", "results"}

// decodeRecords parses an API body into records.
func decodeRecords(r io.Reader) ([]table.Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var body any
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("invalid response body: %w", err)
	}

	var rows []any
	switch v := body.(type) {
	case []any:
		rows = v
	case map[string]any:
		for _, k := range envelopeKeys {
			if arr, ok := v[k].([]any); ok {
				rows = arr
				break
			}
		}
		if rows == nil {
			return nil, fmt.Errorf("invalid response body: no data, items or results array")
		}
	default:
		return nil, fmt.Errorf("invalid response body: expected array or object")
	}

	records := make([]table.Record, 0, len(rows))
	for _, row := range rows {
		m, ok := row.(map[string]any)
		if !ok {
			continue
		}
		records = append(records, table.Record(normalizeJSON(m).(map[string]any)))
	}
	return records, nil
}

// normalizeJSON converts json.Number to int64 when integral, else float64.
func normalizeJSON(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case map[string]any:
		for k, item := range val {
			val[k] = normalizeJSON(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = normalizeJSON(item)
		}
		return val
	default:
		return v
	}
}

// PGSource reads every row of a resource's table.
type PGSource struct {
	db DBTX
}

// NewPGSource creates a source over a pool or transaction.
func NewPGSource(db DBTX) *PGSource {
	return &PGSource{db: db}
}

// Fetch implements Source.
func (s *PGSource) Fetch(ctx context.Context, info ResourceInfo) ([]table.Record, error) {
	if info.Table == "" {
		return nil, fmt.Errorf("resource %s has no table", info.Key)
	}

	ident := pgx.Identifier(strings.Split(info.Table, "."))
	rows, err := s.db.Query(ctx, "SELECT * FROM "+ident.Sanitize())
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", info.Table, err)
	}

	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", info.Table, err)
	}

	records := make([]table.Record, len(maps))
	for i, m := range maps {
		for k, v := range m {
			m[k] = normalizePG(v)
		}
		records[i] = table.Record(m)
	}
	return records, nil
}

// normalizePG turns pgx driver values into plain Go values.
func normalizePG(v any) any {
	switch val := v.(type) {
	case pgtype.Numeric:
		if !val.Valid || val.NaN {
			return nil
		}
		if val.Exp == 0 && val.Int != nil && val.Int.IsInt64() {
			return val.Int.Int64()
		}
		f, err := val.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case [16]byte:
		return uuid.UUID(val).String()
	case pgtype.UUID:
		if !val.Valid {
			return nil
		}
		return uuid.UUID(val.Bytes).String()
	case pgtype.Interval:
		if !val.Valid {
			return nil
		}
		d := time.Duration(val.Microseconds)*time.Microsecond +
			time.Duration(val.Days)*24*time.Hour
		return d.String()
	case *big.Int:
		if val == nil {
			return nil
		}
		return val.String()
	case int32:
		return int64(val)
	case int16:
		return int64(val)
	case float32:
		return float64(val)
	case []byte:
		return string(val)
	case time.Time:
		return val
	case map[string]any:
		for k, item := range val {
			val[k] = normalizePG(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = normalizePG(item)
		}
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return v
	}
}
