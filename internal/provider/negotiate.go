package provider

import (
	"context"

	"github.com/samber/lo"

	"seam/internal/jsontree"
)

// SentinelQuality is requested on the probe. No real tier reaches it, so a
// platform echoing it back means the probe already carries the best stream.
const SentinelQuality uint64 = 10000

// playInfoFunc fetches the raw stream descriptor at the given quality tier.
type playInfoFunc func(ctx context.Context, qn uint64) (jsontree.Value, error)

// negotiator runs the two-step quality negotiation: probe at the sentinel,
// then refine at the advertised maximum unless the probe already answered it.
type negotiator struct {
	fetch playInfoFunc
}

// run returns the final stream descriptor.
func (n negotiator) run(ctx context.Context) (jsontree.Value, error) {
	streams, best, err := n.probe(ctx)
	if err != nil {
		return jsontree.Value{}, err
	}
	if best == SentinelQuality {
		return streams, nil
	}
	return n.refine(ctx, best)
}

func (n negotiator) probe(ctx context.Context) (jsontree.Value, uint64, error) {
	streams, err := n.fetch(ctx, SentinelQuality)
	if err != nil {
		return jsontree.Value{}, 0, err
	}
	best, err := maxTier(streams)
	if err != nil {
		return jsontree.Value{}, 0, err
	}
	return streams, best, nil
}

// refine re-queries at qn. A refine response advertising nothing is an error;
// the probe's streams are never used as a fallback.
func (n negotiator) refine(ctx context.Context, qn uint64) (jsontree.Value, error) {
	streams, err := n.fetch(ctx, qn)
	if err != nil {
		return jsontree.Value{}, err
	}
	if _, err := maxTier(streams); err != nil {
		return jsontree.Value{}, err
	}
	return streams, nil
}

// advertisedTiers collects every accept_qn entry across streams, formats and codecs.
// Absent levels contribute nothing; present levels of the wrong shape fail.
func advertisedTiers(streams jsontree.Value) ([]uint64, error) {
	var tiers []uint64

	list, err := streams.OptionalArray()
	if err != nil {
		return nil, err
	}
	for _, stream := range list {
		formats, err := stream.Get("format").OptionalArray()
		if err != nil {
			return nil, err
		}
		for _, format := range formats {
			codecs, err := format.Get("codec").OptionalArray()
			if err != nil {
				return nil, err
			}
			for _, codec := range codecs {
				qns, err := codec.Get("accept_qn").OptionalArray()
				if err != nil {
					return nil, err
				}
				for _, qn := range qns {
					tier, err := qn.Uint()
					if err != nil {
						return nil, err
					}
					tiers = append(tiers, tier)
				}
			}
		}
	}

	return tiers, nil
}

func maxTier(streams jsontree.Value) (uint64, error) {
	tiers, err := advertisedTiers(streams)
	if err != nil {
		return 0, err
	}
	if len(tiers) == 0 {
		return 0, ErrNoTiers
	}
	return lo.Max(tiers), nil
}
