package sources

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type compositeDamSource struct {
	reference DamSource
	live      *SeqwaterClient
	log       *zap.Logger
}

// NewDamSource layers live Queensland readings over the reference
// source. A failed live fetch is logged and the reference data stands.
func NewDamSource(log *zap.Logger) DamSource {
	return &compositeDamSource{
		reference: NewReferenceDamSource(),
		live:      NewSeqwaterClient(log),
		log:       log.Named("collector.dams"),
	}
}

func (s *compositeDamSource) Current(ctx context.Context, now time.Time) ([]DamObservation, error) {
	observations, err := s.reference.Current(ctx, now)
	if err != nil {
		return nil, err
	}

	live, err := s.live.Fetch(ctx, now)
	if err != nil {
		s.log.Warn("live dam levels unavailable, using reference data", zap.Error(err))
		return observations, nil
	}

	byName := make(map[string]DamObservation, len(live))
	for _, obs := range live {
		byName[obs.DamName] = obs
	}
	for i, obs := range observations {
		if replacement, ok := byName[obs.DamName]; ok && obs.State == "QLD" {
			observations[i] = replacement
		}
	}
	return observations, nil
}

func (s *compositeDamSource) Historical(ctx context.Context, from, to time.Time) ([]DamObservation, error) {
	return s.reference.Historical(ctx, from, to)
}
