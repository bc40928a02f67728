package main

import (
	"time"

	"github.com/itohio/goldr/pkg/config"
	"github.com/itohio/goldr/pkg/link"
	"github.com/itohio/goldr/pkg/publish"
	"github.com/itohio/goldr/pkg/report"
	"github.com/itohio/goldr/pkg/store"
	"github.com/rs/zerolog"
)

// sinks receive every report and summary. Nil members are skipped.
type sinks struct {
	store     *store.Repository
	publisher *publish.Publisher
	log       zerolog.Logger
}

func (s *sinks) report(r link.Report) {
	if s.store != nil {
		if err := s.store.Record(r); err != nil {
			s.log.Error().Err(err).Msg("Failed to store report")
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(r); err != nil {
			s.log.Warn().Err(err).Msg("Failed to publish report")
		}
	}
}

func (s *sinks) summary(sum report.Summary) {
	if s.publisher != nil {
		if err := s.publisher.PublishInterval(sum.Interval); err != nil {
			s.log.Warn().Err(err).Msg("Failed to publish interval")
		}
	}
}

// reportChain tracks the components of the report chain for graceful shutdown.
type reportChain struct {
	device    link.Device
	summaries <-chan report.Summary
	teeDone   chan struct{} // Closed when the tee goroutine exits
}

// startChain wires device reports through the sinks into a tracker.
// The returned summaries channel closes after the device is closed.
func startChain(device link.Device, cfg *config.Config, mock bool, s *sinks) *reportChain {
	step := time.Second
	if mock {
		// The simulator compresses a device tick into TickPeriod
		step = cfg.Mock.TickPeriod
	}

	teeDone := make(chan struct{})
	forTracker := make(chan link.Report, link.DefaultBufferSize)

	go func() {
		defer close(teeDone)
		defer close(forTracker)
		for r := range device.Reports() {
			s.report(r)
			forTracker <- r
		}
	}()

	return &reportChain{
		device:    device,
		summaries: report.NewTracker(cfg.Tracker.History, step, link.DefaultBufferSize)(forTracker),
		teeDone:   teeDone,
	}
}

// closeChain closes the device and waits for the tee goroutine to finish.
// Consumers of summaries see the channel close once the tracker drains.
func closeChain(chain *reportChain) {
	if chain == nil {
		return
	}

	if chain.device != nil {
		chain.device.Close()
	}

	if chain.teeDone != nil {
		<-chain.teeDone
	}
}

// consumeChain passes every summary through the sinks to onSummary and
// returns once the chain ends, either closed or lost with its device.
func consumeChain(chain *reportChain, s *sinks, onSummary func(report.Summary)) {
	for sum := range chain.summaries {
		s.summary(sum)
		onSummary(sum)
	}
}
