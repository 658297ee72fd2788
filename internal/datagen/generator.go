// Package datagen produces seeded synthetic snapshots: a partner
// hierarchy with realistic background trading plus injected fraud
// patterns for exercising the detectors end to end.
package datagen

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"prism-engine/internal/domain"
)

var baseTime = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

var symbols = []string{"EURUSD", "GBPUSD", "USDJPY", "BTCUSD", "ETHUSD", "Gold", "Oil"}

var countries = []string{"UK", "CY", "AU", "SG", "ZA", "AE", "MY"}

// SleeperConfig plants a partner that trades quietly and then flips:
// volume multiplies and durations collapse from StartDay onward.
type SleeperConfig struct {
	PartnerID  string
	StartDay   int
	VolumeMult float64
}

// TradeOptions controls the synthetic trade mix.
type TradeOptions struct {
	TradesPerClient int // upper bound for normal clients (default 20)
	MirrorGroups    int
	BonusAbusers    int
	Sleepers        []SleeperConfig
}

// Generator produces deterministic synthetic data for a given seed.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator. The same seed reproduces the same
// snapshot exactly.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// GenerateHierarchy builds the partner -> sub-affiliate -> client tree.
// The first sub-affiliate of the first partner is a commission farmer
// with triple the usual client count.
func (g *Generator) GenerateHierarchy(numPartners, subsPerPartner, clientsPerSub int) ([]*domain.Partner, []*domain.SubAffiliate, []*domain.Client) {
	var partners []*domain.Partner
	var subs []*domain.SubAffiliate
	var clients []*domain.Client

	for i := 0; i < numPartners; i++ {
		partnerID := fmt.Sprintf("P-%d", 1000+i)
		partners = append(partners, &domain.Partner{
			PartnerID: partnerID,
			Name:      fmt.Sprintf("Partner Group %d", 1000+i),
			Country:   countries[g.rng.Intn(len(countries))],
		})

		for j := 0; j < subsPerPartner; j++ {
			subID := fmt.Sprintf("S-%s-%d", partnerID, 100+j)
			isFarmer := i == 0 && j == 0

			subs = append(subs, &domain.SubAffiliate{
				SubAffiliateID:     subID,
				ParentPartnerID:    partnerID,
				Name:               fmt.Sprintf("Affiliate %s", subID),
				IsCommissionFarmer: isFarmer,
			})

			// Farmers recruit in bulk
			clientCount := clientsPerSub
			if isFarmer {
				clientCount = clientsPerSub * 3
			}

			for k := 0; k < clientCount; k++ {
				clientID := fmt.Sprintf("C-%s-%d", subID, 10000+k)
				regDate := baseTime.AddDate(0, 0, -g.rng.Intn(365))
				clients = append(clients, &domain.Client{
					ClientID:         clientID,
					ParentSubID:      subID,
					MasterPartnerID:  partnerID,
					Name:             fmt.Sprintf("Client %s", clientID),
					RegistrationDate: &regDate,
				})
			}
		}
	}
	return partners, subs, clients
}

// GenerateTrades produces 30 days of background trading for every client
// plus the injected fraud patterns from opts.
func (g *Generator) GenerateTrades(clients []*domain.Client, subs []*domain.SubAffiliate, opts TradeOptions) []*domain.Trade {
	if opts.TradesPerClient <= 0 {
		opts.TradesPerClient = 20
	}

	farmerSubs := make(map[string]struct{})
	for _, s := range subs {
		if s.IsCommissionFarmer {
			farmerSubs[s.SubAffiliateID] = struct{}{}
		}
	}

	sleepers := make(map[string]SleeperConfig)
	for _, s := range opts.Sleepers {
		sleepers[s.PartnerID] = s
	}

	var trades []*domain.Trade
	for _, client := range clients {
		_, isFarmed := farmerSubs[client.ParentSubID]
		sleeper, isSleeper := sleepers[client.MasterPartnerID]

		var numTrades int
		var avgDuration float64
		var avgVolume float64
		if isFarmed {
			// Commission inflation: floods of tiny, short trades
			numTrades = 50 + g.rng.Intn(51)
			avgDuration = float64(5 + g.rng.Intn(56))
			avgVolume = 0.01
		} else {
			numTrades = 5 + g.rng.Intn(opts.TradesPerClient)
			avgDuration = float64(300 + g.rng.Intn(3301))
			avgVolume = round2(0.1 + g.rng.Float64()*1.9)
		}

		for t := 0; t < numTrades; t++ {
			entry := baseTime.Add(time.Duration(g.rng.Intn(86400*30)) * time.Second)

			volume := avgVolume
			duration := avgDuration
			if isSleeper && entry.After(baseTime.AddDate(0, 0, sleeper.StartDay)) {
				// The flip: volume jumps, durations collapse
				volume = avgVolume * sleeper.VolumeMult
				duration = max(1, avgDuration*0.1)
			}

			durSec := max(1, g.rng.NormFloat64()*duration*0.2+duration)
			profit := g.profitFor(isFarmed)
			trades = append(trades, &domain.Trade{
				TradeID:   fmt.Sprintf("T-%s-%d", client.ClientID, t),
				ClientID:  client.ClientID,
				Symbol:    symbols[g.rng.Intn(len(symbols))],
				Direction: g.direction(),
				Volume:    round2(volume),
				EntryTime: entry,
				ExitTime:  entry.Add(time.Duration(durSec * float64(time.Second))),
				Profit:    &profit,
			})
		}
	}

	trades = append(trades, g.mirrorTrades(clients, opts.MirrorGroups)...)
	trades = append(trades, g.bonusAbuseTrades(clients, opts.BonusAbusers)...)
	return trades
}

// mirrorTrades injects coordinated rings: a small client group executing
// the same trade within half a second, ten times over.
func (g *Generator) mirrorTrades(clients []*domain.Client, groups int) []*domain.Trade {
	var trades []*domain.Trade
	for i := 0; i < groups; i++ {
		ring := g.sampleClients(clients, 3+g.rng.Intn(6))
		for t := 0; t < 10; t++ {
			entry := baseTime.Add(time.Duration(g.rng.Intn(86400*30)) * time.Second)
			holdFor := time.Duration(60+g.rng.Intn(541)) * time.Second
			symbol := symbols[g.rng.Intn(len(symbols))]
			direction := g.direction()
			volume := round2(1.0 + g.rng.Float64()*9.0)

			for _, c := range ring {
				jitter := time.Duration((0.001 + g.rng.Float64()*0.499) * float64(time.Second))
				profit := round2(50 + g.rng.Float64()*450)
				trades = append(trades, &domain.Trade{
					TradeID:   fmt.Sprintf("T-FRAUD-%s-%d", c.ClientID, t),
					ClientID:  c.ClientID,
					Symbol:    symbol,
					Direction: direction,
					Volume:    volume,
					EntryTime: entry.Add(jitter),
					ExitTime:  entry.Add(holdFor + jitter),
					Profit:    &profit,
				})
			}
		}
	}
	return trades
}

// bonusAbuseTrades injects hit-and-run clients: one max-leverage trade
// closed inside thirty seconds.
func (g *Generator) bonusAbuseTrades(clients []*domain.Client, count int) []*domain.Trade {
	var trades []*domain.Trade
	for _, c := range g.sampleClients(clients, count) {
		entry := baseTime.Add(time.Duration(g.rng.Intn(86400*5)) * time.Second)
		profit := 0.0
		trades = append(trades, &domain.Trade{
			TradeID:   fmt.Sprintf("T-BONUS-%s", c.ClientID),
			ClientID:  c.ClientID,
			Symbol:    "EURUSD",
			Direction: domain.DirectionBuy,
			Volume:    5.0,
			EntryTime: entry,
			ExitTime:  entry.Add(30 * time.Second),
			Profit:    &profit,
		})
	}
	return trades
}

func (g *Generator) sampleClients(clients []*domain.Client, n int) []*domain.Client {
	if n > len(clients) {
		n = len(clients)
	}
	picked := g.rng.Perm(len(clients))[:n]

	out := make([]*domain.Client, n)
	for i, idx := range picked {
		out[i] = clients[idx]
	}
	return out
}

func (g *Generator) direction() domain.Direction {
	if g.rng.Intn(2) == 0 {
		return domain.DirectionBuy
	}
	return domain.DirectionSell
}

func (g *Generator) profitFor(isFarmed bool) float64 {
	if isFarmed {
		return round2(-10 + g.rng.Float64()*20)
	}
	return round2(-100 + g.rng.Float64()*250)
}

func round2(x float64) float64 {
	return float64(int(x*100+0.5)) / 100
}

// WriteCSV saves the four snapshot tables under dir using the canonical
// column names the loader expects.
func WriteCSV(dir string, partners []*domain.Partner, subs []*domain.SubAffiliate, clients []*domain.Client, trades []*domain.Trade) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	if err := writeTable(filepath.Join(dir, "partners.csv"),
		[]string{"partner_id", "name", "country"},
		len(partners), func(i int) []string {
			p := partners[i]
			return []string{p.PartnerID, p.Name, p.Country}
		}); err != nil {
		return err
	}

	if err := writeTable(filepath.Join(dir, "subs.csv"),
		[]string{"sub_affiliate_id", "parent_partner_id", "name", "is_commission_farmer"},
		len(subs), func(i int) []string {
			s := subs[i]
			return []string{s.SubAffiliateID, s.ParentPartnerID, s.Name, strconv.FormatBool(s.IsCommissionFarmer)}
		}); err != nil {
		return err
	}

	if err := writeTable(filepath.Join(dir, "clients.csv"),
		[]string{"client_id", "parent_sub_id", "master_partner_id", "name", "registration_date"},
		len(clients), func(i int) []string {
			c := clients[i]
			reg := ""
			if c.RegistrationDate != nil {
				reg = c.RegistrationDate.Format("2006-01-02")
			}
			return []string{c.ClientID, c.ParentSubID, c.MasterPartnerID, c.Name, reg}
		}); err != nil {
		return err
	}

	return writeTable(filepath.Join(dir, "trades.csv"),
		[]string{"trade_id", "client_id", "entry_time", "exit_time", "symbol", "direction", "volume", "profit"},
		len(trades), func(i int) []string {
			t := trades[i]
			exit := ""
			if !t.ExitTime.IsZero() {
				exit = t.ExitTime.UTC().Format("2006-01-02 15:04:05.999999999")
			}
			profit := ""
			if t.Profit != nil {
				profit = strconv.FormatFloat(*t.Profit, 'f', 2, 64)
			}
			return []string{
				t.TradeID,
				t.ClientID,
				t.EntryTime.UTC().Format("2006-01-02 15:04:05.999999999"),
				exit,
				t.Symbol,
				string(t.Direction),
				strconv.FormatFloat(t.Volume, 'f', -1, 64),
				profit,
			}
		})
}

func writeTable(path string, header []string, rows int, row func(int) []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	for i := 0; i < rows; i++ {
		if err := w.Write(row(i)); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	w.Flush()
	return w.Error()
}
