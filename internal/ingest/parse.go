package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/evetools/marketpulse/internal/fetch"
	"github.com/evetools/marketpulse/internal/model"
)

// columnIndex maps a CSV header row to column positions.
type columnIndex map[string]int

func indexHeader(header []string) columnIndex {
	idx := make(columnIndex, len(header))
	for i, name := range header {
		idx[name] = i
	}
	return idx
}

func (idx columnIndex) get(record []string, name string) (string, error) {
	i, ok := idx[name]
	if !ok {
		return "", fmt.Errorf("missing column %q", name)
	}
	if i >= len(record) {
		return "", fmt.Errorf("short record, no column %q", name)
	}
	return record[i], nil
}

func (idx columnIndex) getInt(record []string, name string) (int64, error) {
	s, err := idx.get(record, name)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", name, err)
	}
	return n, nil
}

func (idx columnIndex) getFloat(record []string, name string) (float64, error) {
	s, err := idx.get(record, name)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", name, err)
	}
	return f, nil
}

func (idx columnIndex) getBool(record []string, name string) (bool, error) {
	s, err := idx.get(record, name)
	if err != nil {
		return false, err
	}
	switch s {
	case "true", "True", "1":
		return true, nil
	case "false", "False", "0", "":
		return false, nil
	}
	return false, fmt.Errorf("column %q: invalid boolean %q", name, s)
}

func (idx columnIndex) getTime(record []string, name string) (time.Time, error) {
	s, err := idx.get(record, name)
	if err != nil {
		return time.Time{}, err
	}
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05-07:00", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("column %q: invalid timestamp %q", name, s)
}

// parseOrdersBz2 decompresses and parses the bulk order snapshot.
func parseOrdersBz2(data []byte, retrievedAt time.Time) ([]model.MarketOrder, error) {
	raw, err := fetch.DecompressBz2(data)
	if err != nil {
		return nil, err
	}
	return ParseOrdersCSV(raw, retrievedAt)
}

// ParseOrdersCSV parses the columnar order dump. Any malformed row fails the
// whole file: a partially parsed snapshot must never replace the table.
func ParseOrdersCSV(data []byte, retrievedAt time.Time) ([]model.MarketOrder, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read orders header: %w", err)
	}
	idx := indexHeader(header)

	var orders []model.MarketOrder
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("orders line %d: %w", line, err)
		}

		o, err := orderFromRecord(idx, record, retrievedAt)
		if err != nil {
			return nil, fmt.Errorf("orders line %d: %w", line, err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func orderFromRecord(idx columnIndex, record []string, retrievedAt time.Time) (model.MarketOrder, error) {
	var o model.MarketOrder
	var err error

	if o.OrderID, err = idx.getInt(record, "order_id"); err != nil {
		return o, err
	}
	if o.TypeID, err = idx.getInt(record, "type_id"); err != nil {
		return o, err
	}
	if o.RegionID, err = idx.getInt(record, "region_id"); err != nil {
		return o, err
	}
	if o.LocationID, err = idx.getInt(record, "location_id"); err != nil {
		return o, err
	}
	if o.SystemID, err = idx.getInt(record, "system_id"); err != nil {
		return o, err
	}
	if o.VolumeTotal, err = idx.getInt(record, "volume_total"); err != nil {
		return o, err
	}
	if o.VolumeRemain, err = idx.getInt(record, "volume_remain"); err != nil {
		return o, err
	}
	if o.MinVolume, err = idx.getInt(record, "min_volume"); err != nil {
		return o, err
	}
	if o.Price, err = idx.getFloat(record, "price"); err != nil {
		return o, err
	}
	if o.IsBuyOrder, err = idx.getBool(record, "is_buy_order"); err != nil {
		return o, err
	}
	duration, err := idx.getInt(record, "duration")
	if err != nil {
		return o, err
	}
	o.Duration = int(duration)
	if o.Issued, err = idx.getTime(record, "issued"); err != nil {
		return o, err
	}
	if o.Range, err = idx.get(record, "range"); err != nil {
		return o, err
	}
	o.RetrievedAt = retrievedAt
	return o, nil
}

// parseHistoryBz2 decompresses and parses one daily history file.
func parseHistoryBz2(data []byte) ([]model.HistoryRecord, error) {
	raw, err := fetch.DecompressBz2(data)
	if err != nil {
		return nil, err
	}
	return ParseHistoryCSV(raw)
}

// ParseHistoryCSV parses a daily history file. Like the order snapshot, one
// bad row drops the whole file; the day is retried on a later cycle.
func ParseHistoryCSV(data []byte) ([]model.HistoryRecord, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read history header: %w", err)
	}
	idx := indexHeader(header)

	var recs []model.HistoryRecord
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("history line %d: %w", line, err)
		}

		r, err := historyFromRecord(idx, record)
		if err != nil {
			return nil, fmt.Errorf("history line %d: %w", line, err)
		}
		recs = append(recs, r)
	}
	return recs, nil
}

func historyFromRecord(idx columnIndex, record []string) (model.HistoryRecord, error) {
	var r model.HistoryRecord
	var err error

	rawDate, err := idx.get(record, "date")
	if err != nil {
		return r, err
	}
	if r.Date, err = time.Parse(dateLayout, rawDate); err != nil {
		return r, fmt.Errorf("column \"date\": %w", err)
	}
	if r.TypeID, err = idx.getInt(record, "type_id"); err != nil {
		return r, err
	}
	if r.RegionID, err = idx.getInt(record, "region_id"); err != nil {
		return r, err
	}
	if r.Average, err = idx.getFloat(record, "average"); err != nil {
		return r, err
	}
	if r.Highest, err = idx.getFloat(record, "highest"); err != nil {
		return r, err
	}
	if r.Lowest, err = idx.getFloat(record, "lowest"); err != nil {
		return r, err
	}
	if r.OrderCount, err = idx.getInt(record, "order_count"); err != nil {
		return r, err
	}
	if r.Volume, err = idx.getInt(record, "volume"); err != nil {
		return r, err
	}
	if r.LastModified, err = idx.getTime(record, "http_last_modified"); err != nil {
		return r, err
	}
	return r, nil
}

// liveOrder is the JSON shape of one order from the paginated API.
type liveOrder struct {
	OrderID      int64   `json:"order_id"`
	TypeID       int64   `json:"type_id"`
	LocationID   int64   `json:"location_id"`
	SystemID     int64   `json:"system_id"`
	VolumeTotal  int64   `json:"volume_total"`
	VolumeRemain int64   `json:"volume_remain"`
	MinVolume    int64   `json:"min_volume"`
	Price        float64 `json:"price"`
	IsBuyOrder   bool    `json:"is_buy_order"`
	Duration     int     `json:"duration"`
	Issued       string  `json:"issued"`
	Range        string  `json:"range"`
}

// parseLiveOrders decodes one page of the live-order API, stamping every
// order with the region it was fetched for and the cycle start time.
func parseLiveOrders(page []byte, regionID int64, retrievedAt time.Time) ([]model.MarketOrder, error) {
	var raw []liveOrder
	if err := json.Unmarshal(page, &raw); err != nil {
		return nil, fmt.Errorf("decode live orders: %w", err)
	}

	orders := make([]model.MarketOrder, 0, len(raw))
	for _, lo := range raw {
		issued, err := time.Parse(time.RFC3339, lo.Issued)
		if err != nil {
			return nil, fmt.Errorf("order %d: invalid issued %q: %w", lo.OrderID, lo.Issued, err)
		}
		orders = append(orders, model.MarketOrder{
			OrderID:      lo.OrderID,
			TypeID:       lo.TypeID,
			RegionID:     regionID,
			LocationID:   lo.LocationID,
			SystemID:     lo.SystemID,
			VolumeTotal:  lo.VolumeTotal,
			VolumeRemain: lo.VolumeRemain,
			MinVolume:    lo.MinVolume,
			Price:        lo.Price,
			IsBuyOrder:   lo.IsBuyOrder,
			Duration:     lo.Duration,
			Issued:       issued.UTC(),
			Range:        lo.Range,
			RetrievedAt:  retrievedAt,
		})
	}
	return orders, nil
}
