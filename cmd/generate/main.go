package main

import (
	"flag"
	"log"
	"os"
	"strconv"
	"strings"

	"prism-engine/internal/datagen"
)

func main() {
	outDir := flag.String("out", "data", "Output directory for the CSV snapshot")
	seed := flag.Int64("seed", 42, "RNG seed for deterministic output")
	numPartners := flag.Int("partners", 5, "Number of partners")
	subsPerPartner := flag.Int("subs-per-partner", 3, "Sub-affiliates per partner")
	clientsPerSub := flag.Int("clients-per-sub", 10, "Clients per sub-affiliate")
	mirrorGroups := flag.Int("mirror-groups", 1, "Number of mirror-trading rings to inject")
	bonusAbusers := flag.Int("bonus-abusers", 3, "Number of bonus-abuse clients to inject")
	sleepers := flag.String("sleepers", "", "Sleeper agents to inject, comma-separated partner:startDay:volumeMult")

	flag.Parse()

	logger := log.New(os.Stderr, "[generate] ", log.LstdFlags)

	opts := datagen.TradeOptions{
		MirrorGroups: *mirrorGroups,
		BonusAbusers: *bonusAbusers,
	}
	for _, spec := range strings.Split(*sleepers, ",") {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}
		parts := strings.Split(spec, ":")
		if len(parts) != 3 {
			logger.Fatalf("Invalid sleeper spec %q, want partner:startDay:volumeMult", spec)
		}
		day, err := strconv.Atoi(parts[1])
		if err != nil {
			logger.Fatalf("Invalid sleeper start day in %q: %v", spec, err)
		}
		mult, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			logger.Fatalf("Invalid sleeper volume multiplier in %q: %v", spec, err)
		}
		opts.Sleepers = append(opts.Sleepers, datagen.SleeperConfig{
			PartnerID:  parts[0],
			StartDay:   day,
			VolumeMult: mult,
		})
	}

	g := datagen.NewGenerator(*seed)
	partners, subs, clients := g.GenerateHierarchy(*numPartners, *subsPerPartner, *clientsPerSub)
	trades := g.GenerateTrades(clients, subs, opts)

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		logger.Fatalf("Creating output directory: %v", err)
	}
	if err := datagen.WriteCSV(*outDir, partners, subs, clients, trades); err != nil {
		logger.Fatalf("Writing snapshot: %v", err)
	}

	logger.Printf("Wrote %d partners, %d sub-affiliates, %d clients, %d trades to %s",
		len(partners), len(subs), len(clients), len(trades), *outDir)
}
