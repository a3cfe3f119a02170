package service

import (
	"context"
	"time"

	log "github.com/ChainSafe/log15"
	"github.com/mapprotocol/stateproof/chains"
	"github.com/mapprotocol/stateproof/internal/expose"
	"github.com/mapprotocol/stateproof/internal/expose/metrics"
	"github.com/mapprotocol/stateproof/internal/proof"
	"github.com/mapprotocol/stateproof/pkg/util"
	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"
)

// ProofSrv turns validated queries into sealed envelopes. It holds no
// per-request state and is shared by every transport.
type ProofSrv struct {
	proffer chains.Proffer
	timeout time.Duration
	sem     *semaphore.Weighted
	metrics *metrics.Metrics
	alarm   *util.Alarm
	log     log.Logger
}

func NewProof(cfg *expose.Config, proffer chains.Proffer, m *metrics.Metrics, alarm *util.Alarm) *ProofSrv {
	s := &ProofSrv{
		proffer: proffer,
		timeout: cfg.Backend.RequestTimeout(),
		metrics: m,
		alarm:   alarm,
		log:     log.Root().New("module", "proof"),
	}
	if cfg.Backend.MaxInflight > 0 {
		s.sem = semaphore.NewWeighted(int64(cfg.Backend.MaxInflight))
	}
	return s
}

// Handle validates req and runs it through StateProof, logging the outcome.
func (s *ProofSrv) Handle(ctx context.Context, req *proof.Request) (*proof.Envelope, error) {
	start := time.Now()
	q, err := req.Query()
	if err != nil {
		s.log.Info("Rejected state proof request", "err", err)
		return nil, err
	}

	env, err := s.StateProof(ctx, q)
	if err != nil {
		s.log.Warn("State proof request failed", "stage", proof.StageOf(err), "endpoint", proof.RedactEndpoint(q.Endpoint),
			"height", q.Height, "elapsed", time.Since(start), "err", err)
		return nil, err
	}
	s.log.Info("Served state proof", "address", q.Address, "height", q.Height, "variant", variantOf(q),
		"endpoint", proof.RedactEndpoint(q.Endpoint), "elapsed", time.Since(start))
	return env, nil
}

// StateProof fetches the proof selected by q and seals it under the
// backend's domain.
func (s *ProofSrv) StateProof(ctx context.Context, q *proof.Query) (*proof.Envelope, error) {
	v, err := s.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}
	env, err := proof.Seal(s.proffer.Domain(), v)
	if err != nil {
		s.alarm.Send(ctx, err.Error())
		return nil, err
	}
	return env, nil
}

// Encode marshals env for the wire.
func (s *ProofSrv) Encode(ctx context.Context, env *proof.Envelope, enc proof.Encoding) ([]byte, error) {
	data, err := proof.MarshalEnvelope(env, enc)
	if err != nil {
		s.alarm.Send(ctx, err.Error())
		return nil, err
	}
	return data, nil
}

// Fetch calls the account backend operation when q has no key and the
// combined operation otherwise. The variant tag follows the call made.
func (s *ProofSrv) Fetch(ctx context.Context, q *proof.Query) (proof.Variant, error) {
	if s.sem != nil {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			return nil, proof.NewBackendError(q.Endpoint, errors.Wrap(err, "wait for backend slot"))
		}
		defer s.sem.Release(1)
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	done := s.metrics.Backend(string(variantOf(q)))
	defer done()

	if q.Key == nil {
		ap, err := s.proffer.AccountProof(ctx, q.Endpoint, q.Address, q.Height)
		if err != nil {
			return nil, proof.NewBackendError(q.Endpoint, err)
		}
		if ap == nil {
			return nil, proof.NewBackendError(q.Endpoint, errors.New("empty account proof"))
		}
		return proof.NewAccount(ap), nil
	}

	cp, err := s.proffer.AccountAndStorageProof(ctx, q.Endpoint, *q.Key, q.Address, q.Height)
	if err != nil {
		return nil, proof.NewBackendError(q.Endpoint, err)
	}
	if cp == nil {
		return nil, proof.NewBackendError(q.Endpoint, errors.New("empty combined proof"))
	}
	return proof.NewCombined(cp), nil
}

func variantOf(q *proof.Query) proof.Tag {
	if q.Key == nil {
		return proof.TagAccount
	}
	return proof.TagCombined
}
