package sphorb

import (
	"context"
	"image"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Detector holds the precomputed, read-only per-level tables and
// configuration for one detect_and_compute pipeline, per spec.md §6.
// A Detector is safe for concurrent calls: its tables never mutate after
// New returns.
type Detector struct {
	cfg    Config
	levels []*levelTables // one per active pyramid level, index l
	log    *logrus.Logger
}

// New constructs a Detector, loading every active level's GeoInfo,
// ImgTable, and Mask tables from cfg.DataDir, per spec.md §6's
// construction contract and §9's "loaded once, freed at destruction"
// resource note (Go's GC is the destruction mechanism: dropping the
// last reference to a Detector releases its tables). Construction is
// sequential, not concurrent: table loads are a one-time, order-
// independent cost, and running them concurrently would only risk a
// torn partial Detector on error with no benefit to a call made once
// per process lifetime.
func New(cfg *Config) (*Detector, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, newError(InitializationFailed, "invalid configuration", err)
	}

	n := cfg.clampedLevels()
	levels := make([]*levelTables, n)
	for l := 0; l < n; l++ {
		lt, err := loadLevelTables(cfg.DataDir, cells[l])
		if err != nil {
			return nil, err
		}
		levels[l] = lt
	}

	log := logrus.New()
	return &Detector{cfg: *cfg, levels: levels, log: log}, nil
}

// DetectAndCompute is the primary operation (spec.md §6):
// detect_and_compute(image, [mask], use_provided_keypoints). img may be
// 3-channel color (converted to grayscale by BT.601 luminance) or
// single-channel 8-bit; mask, if non-nil, must match img's bounds and
// restricts the returned keypoints to where it is nonzero. If
// useProvidedKeypoints is true, detection/NMS/budgeting are skipped and
// descriptors are computed only for the keypoints supplied in
// providedKeypoints (grouped by their Octave field).
func (d *Detector) DetectAndCompute(img image.Image, mask image.Image, providedKeypoints []KeyPoint, useProvidedKeypoints bool) ([]KeyPoint, []Descriptor, error) {
	callID := uuid.New().String()
	log := d.log.WithField("call_id", callID)

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, nil, newError(BadInput, "DetectAndCompute", ErrEmptyImage)
	}
	if mask != nil && (mask.Bounds().Dx() != b.Dx() || mask.Bounds().Dy() != b.Dy()) {
		return nil, nil, newError(BadInput, "DetectAndCompute", ErrMaskShapeMismatch)
	}

	gray := toGrayscale(img)

	ctx := context.Background()
	nLevels := len(d.levels)

	var perLevelKPs [][]KeyPoint
	var perLevelDescs [][]Descriptor
	var err error

	if useProvidedKeypoints {
		perLevelKPs, perLevelDescs, err = d.describeProvided(ctx, gray, providedKeypoints, log)
	} else {
		budgets := perLevelBudget(d.cfg.NFeatures, nLevels)
		perLevelKPs, perLevelDescs, err = d.detect(ctx, gray, budgets, log)
	}
	if err != nil {
		return nil, nil, err
	}

	var keypoints []KeyPoint
	var descriptors []Descriptor
	for l := 0; l < nLevels; l++ {
		keypoints = append(keypoints, perLevelKPs[l]...)
		descriptors = append(descriptors, perLevelDescs[l]...)
	}

	if mask != nil {
		keypoints, descriptors = filterByMask(keypoints, descriptors, mask)
	}

	log.WithField("keypoints", len(keypoints)).Info("detect_and_compute complete")
	return keypoints, descriptors, nil
}

// detect runs the full detection pipeline across every level, per
// spec.md §5 ("Levels are independent and MAY be run in parallel").
func (d *Detector) detect(ctx context.Context, gray *image.Gray, budgets []int, log *logrus.Entry) ([][]KeyPoint, [][]Descriptor, error) {
	nLevels := len(d.levels)
	kps := make([][]KeyPoint, nLevels)
	descs := make([][]Descriptor, nLevels)

	runOne := func(l int) error {
		lt := d.levels[l]
		levelLog := log.WithField("level", l)
		lp, err := prepareLevelParts(ctx, lt, gray, d.cfg.Concurrent)
		if err != nil {
			return err
		}
		k, de, err := detectLevelKeypoints(ctx, &d.cfg, lt, lp, l, budgets[l], levelLog)
		if err != nil {
			return err
		}
		kps[l], descs[l] = k, de
		levelLog.WithField("detected", len(k)).Info("level complete")
		return nil
	}

	if d.cfg.Concurrent {
		g, _ := newBoundedGroup(ctx)
		for l := 0; l < nLevels; l++ {
			l := l
			g.Go(func() error { return runOne(l) })
		}
		if err := g.Wait(); err != nil {
			return nil, nil, err
		}
	} else {
		for l := 0; l < nLevels; l++ {
			if err := runOne(l); err != nil {
				return nil, nil, err
			}
		}
	}
	return kps, descs, nil
}

// describeProvided computes descriptors only for the caller-supplied
// keypoints, grouped by their Octave field, per useProvidedKeypoints.
func (d *Detector) describeProvided(ctx context.Context, gray *image.Gray, provided []KeyPoint, log *logrus.Entry) ([][]KeyPoint, [][]Descriptor, error) {
	nLevels := len(d.levels)
	byLevel := make([][]KeyPoint, nLevels)
	for _, kp := range provided {
		if kp.Octave < 0 || kp.Octave >= nLevels {
			return nil, nil, newError(BadInput, "provided keypoint has out-of-range Octave", nil)
		}
		byLevel[kp.Octave] = append(byLevel[kp.Octave], kp)
	}

	kps := make([][]KeyPoint, nLevels)
	descs := make([][]Descriptor, nLevels)

	runOne := func(l int) error {
		if len(byLevel[l]) == 0 {
			return nil
		}
		lt := d.levels[l]
		levelLog := log.WithField("level", l)
		lp, err := prepareLevelParts(ctx, lt, gray, d.cfg.Concurrent)
		if err != nil {
			return err
		}
		k, de, err := describeProvidedLevelKeypoints(ctx, lt, lp, byLevel[l], d.cfg.Concurrent)
		if err != nil {
			return err
		}
		kps[l], descs[l] = k, de
		levelLog.WithField("described", len(k)).Info("level complete (provided keypoints)")
		return nil
	}

	if d.cfg.Concurrent {
		g, _ := newBoundedGroup(ctx)
		for l := 0; l < nLevels; l++ {
			l := l
			g.Go(func() error { return runOne(l) })
		}
		if err := g.Wait(); err != nil {
			return nil, nil, err
		}
	} else {
		for l := 0; l < nLevels; l++ {
			if err := runOne(l); err != nil {
				return nil, nil, err
			}
		}
	}
	return kps, descs, nil
}

// filterByMask drops any keypoint whose rounded equirectangular
// coordinate lands on a zero mask pixel, mirroring spec.md §8's mask-
// respect property at the caller's original-image resolution. Keypoint
// coordinates are in the level-0 resized frame (5*C[0] by 5*C[0]/2) and
// are scaled to the mask's size before the lookup.
func filterByMask(kps []KeyPoint, descs []Descriptor, mask image.Image) ([]KeyPoint, []Descriptor) {
	b := mask.Bounds()
	sx := float64(b.Dx()) / float64(5*cells[0])
	sy := float64(b.Dy()) / float64(resizedHeight(cells[0]))
	var outKPs []KeyPoint
	var outDescs []Descriptor
	for i, kp := range kps {
		x := b.Min.X + int(kp.X*sx+0.5)
		y := b.Min.Y + int(kp.Y*sy+0.5)
		if x < b.Min.X || x >= b.Max.X || y < b.Min.Y || y >= b.Max.Y {
			continue
		}
		r, g, bl, _ := mask.At(x, y).RGBA()
		if r == 0 && g == 0 && bl == 0 {
			continue
		}
		outKPs = append(outKPs, kp)
		outDescs = append(outDescs, descs[i])
	}
	return outKPs, outDescs
}
