// Command sphorb detects spherical features in an equirectangular image
// and writes them, with their binary descriptors, to a file.
package main

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sphorb-go/sphorb"
)

type detectFlags struct {
	dataDir  string
	in       string
	out      string
	features int
	levels   int
	barrier  int
}

func main() {
	log := logrus.New()

	var flags detectFlags
	cmd := &cobra.Command{
		Use:   "sphorb",
		Short: "Spherical feature detector and descriptor extractor",
	}

	detectCmd := &cobra.Command{
		Use:   "detect",
		Short: "Detect keypoints and descriptors in an equirectangular image",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(flags, log)
		},
	}
	detectCmd.Flags().StringVar(&flags.dataDir, "data", "", "directory holding precomputed geoinfo/imginfo/mask tables")
	detectCmd.Flags().StringVar(&flags.in, "in", "", "input equirectangular image path")
	detectCmd.Flags().StringVar(&flags.out, "out", "", "output NDJSON path")
	detectCmd.Flags().IntVar(&flags.features, "features", 500, "total keypoint budget across all levels")
	detectCmd.Flags().IntVar(&flags.levels, "levels", sphorb.MaxLevels, "number of pyramid levels to use")
	detectCmd.Flags().IntVar(&flags.barrier, "barrier", 20, "AST intensity barrier")
	for _, name := range []string{"data", "in", "out"} {
		if err := detectCmd.MarkFlagRequired(name); err != nil {
			log.WithError(err).Fatal("failed to register required flag")
		}
	}

	cmd.AddCommand(detectCmd)
	if err := cmd.Execute(); err != nil {
		log.WithError(err).Fatal("sphorb failed")
	}
}

func runDetect(flags detectFlags, log *logrus.Logger) error {
	cfg := sphorb.DefaultConfig().
		WithDataDir(flags.dataDir).
		WithNFeatures(flags.features).
		WithNLevels(flags.levels).
		WithBarrier(flags.barrier)

	log.WithFields(logrus.Fields{
		"data":     flags.dataDir,
		"features": flags.features,
		"levels":   flags.levels,
		"barrier":  flags.barrier,
	}).Info("loading detector tables")

	det, err := sphorb.New(cfg)
	if err != nil {
		return fmt.Errorf("constructing detector: %w", err)
	}

	f, err := os.Open(flags.in)
	if err != nil {
		return fmt.Errorf("opening input image %s: %w", flags.in, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decoding input image %s: %w", flags.in, err)
	}
	log.WithFields(logrus.Fields{"format": format, "bounds": img.Bounds()}).Info("decoded input image")

	keypoints, descriptors, err := det.DetectAndCompute(img, nil, nil, false)
	if err != nil {
		return fmt.Errorf("running detect_and_compute: %w", err)
	}
	log.WithField("keypoints", len(keypoints)).Info("detection complete")

	out, err := os.Create(flags.out)
	if err != nil {
		return fmt.Errorf("creating output %s: %w", flags.out, err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	defer w.Flush()

	enc := json.NewEncoder(w)
	for i, kp := range keypoints {
		record := struct {
			X, Y, Angle, Size, Response float64
			Octave                      int
			Descriptor                  string
		}{
			X: kp.X, Y: kp.Y, Angle: kp.Angle, Size: kp.Size, Response: kp.Response,
			Octave:     kp.Octave,
			Descriptor: hex.EncodeToString(descriptors[i][:]),
		}
		if err := enc.Encode(record); err != nil {
			return fmt.Errorf("writing output record: %w", err)
		}
	}

	return nil
}
