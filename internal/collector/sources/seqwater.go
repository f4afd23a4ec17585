package sources

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const seqwaterURL = "https://www.data.qld.gov.au/datastore/dump/latest-dam-levels.csv"

// SeqwaterClient fetches published Queensland dam levels. Failures are
// expected; callers fall back to reference data.
type SeqwaterClient struct {
	url    string
	client *http.Client
	log    *zap.Logger
}

func NewSeqwaterClient(log *zap.Logger) *SeqwaterClient {
	return &SeqwaterClient{
		url:    seqwaterURL,
		client: &http.Client{Timeout: 15 * time.Second},
		log:    log.Named("collector.seqwater"),
	}
}

// Fetch downloads and parses the latest published dam levels.
func (c *SeqwaterClient) Fetch(ctx context.Context, now time.Time) ([]DamObservation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("seqwater responded %d", resp.StatusCode)
	}

	return parseSeqwaterCSV(resp.Body, now.UTC().Truncate(time.Minute))
}

func parseSeqwaterCSV(r io.Reader, ts time.Time) ([]DamObservation, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read seqwater header: %w", err)
	}
	cols := indexColumns(header)
	for _, required := range []string{"dam_name", "percent_full"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("seqwater csv missing %s column", required)
		}
	}

	var observations []DamObservation
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read seqwater row: %w", err)
		}

		name := field(record, cols, "dam_name")
		percent, perr := strconv.ParseFloat(field(record, cols, "percent_full"), 64)
		if name == "" || perr != nil {
			continue
		}
		volume, _ := strconv.ParseFloat(field(record, cols, "volume_ml"), 64)
		capacity, _ := strconv.ParseFloat(field(record, cols, "capacity_ml"), 64)

		observations = append(observations, DamObservation{
			Timestamp:          ts,
			DamName:            name,
			State:              "QLD",
			CapacityPercentage: clampPercent(percent),
			VolumeML:           volume,
			CapacityML:         capacity,
		})
	}
	return observations, nil
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		key = strings.ReplaceAll(key, " ", "_")
		cols[key] = i
	}
	return cols
}

func field(record []string, cols map[string]int, key string) string {
	idx, ok := cols[key]
	if !ok || idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
