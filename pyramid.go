package sphorb

import (
	"context"
	"image"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// newBoundedGroup returns an errgroup.Group whose concurrency is capped
// at GOMAXPROCS, per spec.md §5's "MAY be parallelized" paired with
// SPEC_FULL.md §4.9A's GOMAXPROCS-bounded fan-out.
func newBoundedGroup(ctx context.Context) (*errgroup.Group, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	return g, gctx
}

// levelParts holds one level's resampled, boundary-extended, and
// Gaussian-smoothed working buffers; shared by both the detection path
// and the useProvidedKeypoints description path so neither duplicates
// the resample/extend/smooth work.
type levelParts struct {
	extended [numParts]*part
	smoothed [numParts]*part
}

// prepareLevelParts runs spec.md §2 items 1-2 plus the smoothing step of
// §4.7 for every part of one level.
func prepareLevelParts(ctx context.Context, lt *levelTables, gray *image.Gray, concurrent bool) (*levelParts, error) {
	_, parts := resampleAllParts(gray, lt)
	extended := extendParts(parts, edgeTotal)

	lp := &levelParts{extended: extended}
	smoothOne := func(p int) {
		lp.smoothed[p] = smoothPart(extended[p])
	}

	if concurrent {
		g, _ := newBoundedGroup(ctx)
		for p := 0; p < numParts; p++ {
			p := p
			g.Go(func() error {
				smoothOne(p)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, newError(InternalInvariant, "level smoothing failed", err)
		}
	} else {
		for p := 0; p < numParts; p++ {
			smoothOne(p)
		}
	}
	return lp, nil
}

// detectLevelKeypoints runs the full per-level pipeline (spec.md §2
// items 3-8): hex-AST detect, non-max suppress, budget-retain, orient,
// describe, and coordinate-map. budget is this level's keypoint target
// from the Budget Allocator. Returns mapped keypoints (equirectangular,
// part_id = -1, octave = level) and their matching descriptors.
func detectLevelKeypoints(ctx context.Context, cfg *Config, lt *levelTables, lp *levelParts, level, budget int, log *logrus.Entry) ([]KeyPoint, []Descriptor, error) {
	allCorners := make([][]cornerCandidate, numParts)
	detectPart := func(p int) {
		allCorners[p] = hexASTDetect(lp.extended[p], lt.mask, cfg.Barrier, cfg.ArcThreshold)
	}

	if cfg.Concurrent {
		g, _ := newBoundedGroup(ctx)
		for p := 0; p < numParts; p++ {
			p := p
			g.Go(func() error {
				detectPart(p)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, nil, newError(InternalInvariant, "level corner detection failed", err)
		}
	} else {
		for p := 0; p < numParts; p++ {
			detectPart(p)
		}
	}

	var levelKPs []KeyPoint
	for p := 0; p < numParts; p++ {
		survivors := nonMaxSuppress(allCorners[p], p)
		for i := range survivors {
			survivors[i].Octave = level
		}
		levelKPs = append(levelKPs, survivors...)
		log.WithFields(logrus.Fields{
			"part":      p,
			"corners":   len(allCorners[p]),
			"survivors": len(survivors),
		}).Debug("part non-max suppression complete")
	}

	levelKPs = retainBest(levelKPs, budget)
	log.WithField("retained", len(levelKPs)).Debug("level budget applied")

	return describeAndMap(ctx, lt, lp, levelKPs, cfg.Concurrent)
}

// describeProvidedLevelKeypoints supports detect_and_compute's
// useProvidedKeypoints mode (spec.md §6) for keypoints already assigned
// to this level (kp.Octave == level): it skips detection/NMS/budget
// entirely and only recovers each keypoint's part-local location (via
// unmapKeypoint) before orienting and describing it.
func describeProvidedLevelKeypoints(ctx context.Context, lt *levelTables, lp *levelParts, provided []KeyPoint, concurrent bool) ([]KeyPoint, []Descriptor, error) {
	located := make([]KeyPoint, len(provided))
	for i, kp := range provided {
		partID, px, py := unmapKeypoint(kp, lt)
		located[i] = kp
		located[i].PartID = partID
		located[i].X = float64(px)
		located[i].Y = float64(py)
	}
	return describeAndMap(ctx, lt, lp, located, concurrent)
}

// describeAndMap computes orientation, descriptor, and the equirectangular
// coordinate mapping for each of kps (already in part-local extended
// pixel coordinates with a valid PartID), shared by both pyramid entry
// points above.
func describeAndMap(ctx context.Context, lt *levelTables, lp *levelParts, kps []KeyPoint, concurrent bool) ([]KeyPoint, []Descriptor, error) {
	mapped := make([]KeyPoint, len(kps))
	descs := make([]Descriptor, len(kps))

	computeOne := func(i int) {
		kp := kps[i]
		px, py := int(kp.X), int(kp.Y)
		angle := computeOrientation(lp.extended[kp.PartID], px, py, edgeDesc)
		kp.Angle = angle
		descs[i] = computeDescriptor(lp.smoothed[kp.PartID], px, py, angle)
		mapped[i] = mapKeypoint(kp, lt.geo, lt.cellCount)
	}

	if concurrent {
		g, _ := newBoundedGroup(ctx)
		for i := range kps {
			i := i
			g.Go(func() error {
				computeOne(i)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, nil, newError(InternalInvariant, "level orientation/description failed", err)
		}
	} else {
		for i := range kps {
			computeOne(i)
		}
	}

	return mapped, descs, nil
}
