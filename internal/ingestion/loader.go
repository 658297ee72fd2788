// Package ingestion loads the four snapshot tables from CSV. Missing
// required columns abort the whole table; rows with unparseable
// timestamps are skipped and counted, never silently dropped.
package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"prism-engine/internal/domain"
)

// Table names used in column mappings and schema errors.
const (
	TablePartners      = "Partners"
	TableSubAffiliates = "Sub-Affiliates"
	TableClients       = "Clients"
	TableTrades        = "Trades"
)

// requiredColumns lists the mandatory columns per table. Everything else
// is optional.
var requiredColumns = map[string][]string{
	TablePartners:      {"partner_id", "name"},
	TableSubAffiliates: {"sub_affiliate_id", "parent_partner_id"},
	TableClients:       {"client_id", "parent_sub_id"},
	TableTrades:        {"trade_id", "client_id", "entry_time", "symbol", "direction", "volume"},
}

// timestampLayouts are tried in order. Naive layouts parse as UTC.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// SchemaError reports required columns missing from a table. The table
// load aborts; no partial data is returned.
type SchemaError struct {
	Table   string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("table %s missing required columns: %s", e.Table, strings.Join(e.Missing, ", "))
}

// ColumnMapping renames caller columns to canonical ones, per table:
// {table: {caller column: canonical column}}.
type ColumnMapping map[string]map[string]string

// Snapshot is one fully loaded detection input.
type Snapshot struct {
	Partners      []*domain.Partner
	SubAffiliates []*domain.SubAffiliate
	Clients       []*domain.Client
	Trades        []*domain.Trade

	// Trade rows dropped for unparseable entry_time or volume
	SkippedTrades int
}

type table struct {
	index map[string]int
	rows  [][]string
}

func readTable(r io.Reader, name string, mapping ColumnMapping) (*table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, &SchemaError{Table: name, Missing: requiredColumns[name]}
	}

	header := records[0]
	rename := mapping[name]

	index := make(map[string]int, len(header))
	for i, col := range header {
		col = strings.TrimSpace(col)
		if canonical, ok := rename[col]; ok {
			col = canonical
		}
		index[col] = i
	}

	var missing []string
	for _, col := range requiredColumns[name] {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &SchemaError{Table: name, Missing: missing}
	}

	return &table{index: index, rows: records[1:]}, nil
}

func (t *table) get(row []string, col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (t *table) has(col string) bool {
	_, ok := t.index[col]
	return ok
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", value)
}

// LoadPartners reads the partner table from r.
func LoadPartners(r io.Reader, mapping ColumnMapping) ([]*domain.Partner, error) {
	t, err := readTable(r, TablePartners, mapping)
	if err != nil {
		return nil, err
	}

	partners := make([]*domain.Partner, 0, len(t.rows))
	for _, row := range t.rows {
		partners = append(partners, &domain.Partner{
			PartnerID: t.get(row, "partner_id"),
			Name:      t.get(row, "name"),
			Country:   t.get(row, "country"),
		})
	}
	return partners, nil
}

// LoadSubAffiliates reads the sub-affiliate table from r.
func LoadSubAffiliates(r io.Reader, mapping ColumnMapping) ([]*domain.SubAffiliate, error) {
	t, err := readTable(r, TableSubAffiliates, mapping)
	if err != nil {
		return nil, err
	}

	subs := make([]*domain.SubAffiliate, 0, len(t.rows))
	for _, row := range t.rows {
		farmer, _ := strconv.ParseBool(t.get(row, "is_commission_farmer"))
		subs = append(subs, &domain.SubAffiliate{
			SubAffiliateID:     t.get(row, "sub_affiliate_id"),
			ParentPartnerID:    t.get(row, "parent_partner_id"),
			Name:               t.get(row, "name"),
			IsCommissionFarmer: farmer,
		})
	}
	return subs, nil
}

// LoadClients reads the client table from r.
func LoadClients(r io.Reader, mapping ColumnMapping) ([]*domain.Client, error) {
	t, err := readTable(r, TableClients, mapping)
	if err != nil {
		return nil, err
	}

	clients := make([]*domain.Client, 0, len(t.rows))
	for _, row := range t.rows {
		c := &domain.Client{
			ClientID:        t.get(row, "client_id"),
			ParentSubID:     t.get(row, "parent_sub_id"),
			MasterPartnerID: t.get(row, "master_partner_id"),
			Name:            t.get(row, "name"),
		}
		if raw := t.get(row, "registration_date"); raw != "" {
			if ts, err := parseTimestamp(raw); err == nil {
				c.RegistrationDate = &ts
			}
		}
		clients = append(clients, c)
	}
	return clients, nil
}

// LoadTrades reads the trade table from r. Rows whose entry_time or
// volume cannot be parsed are skipped; the second return value counts
// them. A missing or unparseable exit_time leaves the trade open.
func LoadTrades(r io.Reader, mapping ColumnMapping) ([]*domain.Trade, int, error) {
	t, err := readTable(r, TableTrades, mapping)
	if err != nil {
		return nil, 0, err
	}

	var skipped int
	trades := make([]*domain.Trade, 0, len(t.rows))
	for _, row := range t.rows {
		entry, err := parseTimestamp(t.get(row, "entry_time"))
		if err != nil {
			skipped++
			continue
		}
		volume, err := strconv.ParseFloat(t.get(row, "volume"), 64)
		if err != nil {
			skipped++
			continue
		}

		tr := &domain.Trade{
			TradeID:   t.get(row, "trade_id"),
			ClientID:  t.get(row, "client_id"),
			Symbol:    t.get(row, "symbol"),
			Direction: domain.Direction(t.get(row, "direction")),
			Volume:    volume,
			EntryTime: entry,
		}

		if t.has("exit_time") {
			if exit, err := parseTimestamp(t.get(row, "exit_time")); err == nil {
				tr.ExitTime = exit
			}
		}
		if t.has("profit") {
			if profit, err := strconv.ParseFloat(t.get(row, "profit"), 64); err == nil {
				tr.Profit = &profit
			}
		}

		trades = append(trades, tr)
	}
	return trades, skipped, nil
}

// LoadSnapshotFromFiles loads all four tables from CSV files.
func LoadSnapshotFromFiles(partnersPath, subsPath, clientsPath, tradesPath string, mapping ColumnMapping) (*Snapshot, error) {
	snap := &Snapshot{}

	if err := withFile(partnersPath, func(f io.Reader) error {
		partners, err := LoadPartners(f, mapping)
		snap.Partners = partners
		return err
	}); err != nil {
		return nil, err
	}

	if err := withFile(subsPath, func(f io.Reader) error {
		subs, err := LoadSubAffiliates(f, mapping)
		snap.SubAffiliates = subs
		return err
	}); err != nil {
		return nil, err
	}

	if err := withFile(clientsPath, func(f io.Reader) error {
		clients, err := LoadClients(f, mapping)
		snap.Clients = clients
		return err
	}); err != nil {
		return nil, err
	}

	if err := withFile(tradesPath, func(f io.Reader) error {
		trades, skipped, err := LoadTrades(f, mapping)
		snap.Trades = trades
		snap.SkippedTrades = skipped
		return err
	}); err != nil {
		return nil, err
	}

	return snap, nil
}

func withFile(path string, fn func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return fn(f)
}
