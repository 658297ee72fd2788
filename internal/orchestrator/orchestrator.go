// Package orchestrator runs the full detection pass: correlation,
// ring aggregation, behavioral detectors, regime monitoring, and
// evidence synthesis over a loaded snapshot.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"prism-engine/internal/behavior"
	"prism-engine/internal/config"
	"prism-engine/internal/correlation"
	"prism-engine/internal/domain"
	"prism-engine/internal/network"
	"prism-engine/internal/observability"
	"prism-engine/internal/regime"
	"prism-engine/internal/reporting"
	"prism-engine/internal/rings"
	"prism-engine/internal/storage"
	"prism-engine/internal/synthesis"
)

// Orchestrator wires the detection engines over the snapshot stores.
type Orchestrator struct {
	trades   storage.TradeStore
	clients  storage.ClientStore
	subs     storage.SubAffiliateStore
	partners storage.PartnerStore
	cfg      *config.Config
	log      *logrus.Logger
}

// New creates an orchestrator. A nil logger gets a default one at the
// configured level.
func New(
	trades storage.TradeStore,
	clients storage.ClientStore,
	subs storage.SubAffiliateStore,
	partners storage.PartnerStore,
	cfg *config.Config,
	log *logrus.Logger,
) *Orchestrator {
	if log == nil {
		log = observability.NewLogger(cfg.LogLevel)
	}
	return &Orchestrator{
		trades:   trades,
		clients:  clients,
		subs:     subs,
		partners: partners,
		cfg:      cfg,
		log:      log,
	}
}

// Results holds everything one detection pass produced.
type Results struct {
	Clusters           []*domain.Cluster
	Rings              []*domain.Ring
	RingAttributions   map[string]*network.Attribution
	BonusFindings      []*domain.BehaviorFinding
	CommissionFindings []*domain.BehaviorFinding
	RegimeAlerts       []*domain.RegimeAlert
	Evidence           []*domain.Evidence
}

// Summary counts the snapshot currently held by the stores. Skipped
// row counts live with the loader, not the stores, so the caller adds
// them.
func (o *Orchestrator) Summary(ctx context.Context) (reporting.InputSummary, error) {
	var s reporting.InputSummary

	partners, err := o.partners.GetAll(ctx)
	if err != nil {
		return s, fmt.Errorf("loading partners: %w", err)
	}
	subs, err := o.subs.GetAll(ctx)
	if err != nil {
		return s, fmt.Errorf("loading sub-affiliates: %w", err)
	}
	clients, err := o.clients.GetAll(ctx)
	if err != nil {
		return s, fmt.Errorf("loading clients: %w", err)
	}
	trades, err := o.trades.GetAll(ctx)
	if err != nil {
		return s, fmt.Errorf("loading trades: %w", err)
	}

	s.Partners = len(partners)
	s.SubAffiliates = len(subs)
	s.Clients = len(clients)
	s.Trades = len(trades)
	return s, nil
}

// RunPass executes the full detection pipeline and returns its results.
func (o *Orchestrator) RunPass(ctx context.Context) (*Results, error) {
	passStart := time.Now()

	trades, err := o.trades.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading trades: %w", err)
	}
	clients, err := o.clients.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading clients: %w", err)
	}
	o.log.WithFields(logrus.Fields{
		"trades":  len(trades),
		"clients": len(clients),
	}).Info("starting detection pass")

	res := &Results{RingAttributions: make(map[string]*network.Attribution)}

	o.timed("correlation", func() {
		res.Clusters = correlation.DetectMirrorTrades(trades, o.cfg.TimeWindowSeconds, o.cfg.MinClusterClients)
	})
	observability.RecordClustersDetected(len(res.Clusters))

	o.timed("rings", func() {
		res.Rings = rings.AggregateRings(res.Clusters, o.cfg.RingClusterThreshold)
	})
	observability.RecordRingsDetected(len(res.Rings))
	o.log.WithFields(logrus.Fields{
		"clusters": len(res.Clusters),
		"rings":    len(res.Rings),
	}).Info("correlation pass complete")

	mapper := network.NewMapper(clients)
	for _, ring := range res.Rings {
		res.RingAttributions[ring.ID] = mapper.Attribution(ring.ClientIDs)
	}

	o.timed("behavior", func() {
		res.BonusFindings = behavior.DetectBonusAbuse(trades, o.cfg)
		res.CommissionFindings = behavior.DetectCommissionInflation(trades, clients, o.cfg)
	})
	observability.RecordFindings("bonus_abuse", len(res.BonusFindings))
	observability.RecordFindings("commission_inflation", len(res.CommissionFindings))
	o.log.WithFields(logrus.Fields{
		"bonus_abuse":          len(res.BonusFindings),
		"commission_inflation": len(res.CommissionFindings),
	}).Info("behavioral pass complete")

	o.timed("regime", func() {
		res.RegimeAlerts = regime.DetectRegimeShifts(trades, clients, o.cfg)
	})
	observability.RecordRegimeAlerts(len(res.RegimeAlerts))
	o.log.WithField("alerts", len(res.RegimeAlerts)).Info("regime pass complete")

	o.timed("synthesis", func() {
		for _, ring := range res.Rings {
			ev := synthesis.SynthesizeRing(ring, res.RingAttributions[ring.ID], o.cfg)
			res.Evidence = append(res.Evidence, ev)
			if ev.AgentDecision != nil {
				observability.RecordAgentDecision(string(ev.AgentDecision.SelectedAction))
				o.log.WithFields(logrus.Fields{
					"case":   ev.CaseID[:12],
					"action": ev.AgentDecision.SelectedAction,
				}).Info("autonomous action recorded")
			}
		}
		for _, f := range res.BonusFindings {
			res.Evidence = append(res.Evidence, synthesis.SynthesizeBonusAbuse(f))
		}
		for _, f := range res.CommissionFindings {
			res.Evidence = append(res.Evidence, synthesis.SynthesizeCommissionInflation(f))
		}
	})
	observability.DefaultMetrics.EvidenceSynthesized.Add(float64(len(res.Evidence)))

	observability.DefaultMetrics.PassesTotal.WithLabelValues("full", "success").Inc()
	observability.DefaultMetrics.PassDuration.WithLabelValues("full").Observe(time.Since(passStart).Seconds())
	observability.DefaultMetrics.LastSuccessfulPass.SetToCurrentTime()

	o.log.WithFields(logrus.Fields{
		"cases":    len(res.Evidence),
		"duration": time.Since(passStart).Round(time.Millisecond).String(),
	}).Info("detection pass complete")
	return res, nil
}

func (o *Orchestrator) timed(phase string, fn func()) {
	start := time.Now()
	fn()
	observability.DefaultMetrics.PassesTotal.WithLabelValues(phase, "success").Inc()
	observability.DefaultMetrics.PassDuration.WithLabelValues(phase).Observe(time.Since(start).Seconds())
}

// ReportInput converts pass results into the reporting layer's input.
func (r *Results) ReportInput(summary reporting.InputSummary) *reporting.Input {
	attrs := make(map[string]*reporting.AttributionSummary, len(r.RingAttributions))
	for id, a := range r.RingAttributions {
		attrs[id] = &reporting.AttributionSummary{
			TopPartner:   a.TopPartner,
			TopSub:       a.TopSub,
			CrossPartner: a.CrossPartner,
			CrossSub:     a.CrossSub,
		}
	}
	return &reporting.Input{
		Summary:            summary,
		Clusters:           r.Clusters,
		Rings:              r.Rings,
		RingAttributions:   attrs,
		BonusFindings:      r.BonusFindings,
		CommissionFindings: r.CommissionFindings,
		RegimeAlerts:       r.RegimeAlerts,
		Evidence:           r.Evidence,
	}
}
