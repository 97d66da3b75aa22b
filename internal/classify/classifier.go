package classify

import (
	"fmt"
	"log"

	"github.com/pkg/errors"
)

const LabelPrefix = "class-"

// Classifier groups workloads by their requested and used resources.
type Classifier struct {
	algorithm Algorithm
	numClass  int
	logger    *log.Logger
}

// NewClassifier uses KMeansDefaultRound when round is not positive.
func NewClassifier(algorithmType AlgorithmType, numClass, round int, logger *log.Logger) (*Classifier, error) {
	if round <= 0 {
		round = KMeansDefaultRound
	}
	algorithm := GetAlgorithm(algorithmType, round)
	if algorithm == nil {
		return nil, errors.Errorf("unknown algorithm %q", algorithmType)
	}
	if numClass <= 0 {
		return nil, errors.Errorf("invalid class count %d", numClass)
	}
	return &Classifier{
		algorithm: algorithm,
		numClass:  numClass,
		logger:    logger,
	}, nil
}

// Labels assigns a class label to every feature vector. Features are min-max normalized per
// dimension first. The class count is clamped to the number of distinct vectors.
func (c *Classifier) Labels(features [][]float64) ([]string, error) {
	if len(features) == 0 {
		return []string{}, nil
	}
	data := Normalize(features)

	numClass := c.numClass
	if distinct := countDistinct(data); distinct < numClass {
		c.logger.Printf("only %d distinct workloads, using %d classes instead of %d\n", distinct, distinct, numClass)
		numClass = distinct
	}

	class := make([]int, len(data))
	if numClass > 1 {
		var centers [][]float32
		centers, class = c.algorithm.Run(data, numClass)
		if len(class) != len(data) {
			return nil, errors.Errorf("clustering returned %d classes for %d workloads", len(class), len(data))
		}
		c.logger.Printf("clustered %d workloads into %d classes\n", len(data), len(centers))
	}

	labels := make([]string, len(class))
	for i, n := range class {
		labels[i] = fmt.Sprintf("%s%d", LabelPrefix, n)
	}
	return labels, nil
}

// Normalize scales every dimension into [0, 1]. Constant dimensions become 0.
func Normalize(features [][]float64) [][]float32 {
	width := len(features[0])
	min := make([]float64, width)
	max := make([]float64, width)
	copy(min, features[0])
	copy(max, features[0])
	for _, f := range features[1:] {
		for i := 0; i < width && i < len(f); i++ {
			if f[i] < min[i] {
				min[i] = f[i]
			}
			if f[i] > max[i] {
				max[i] = f[i]
			}
		}
	}

	data := make([][]float32, len(features))
	for j, f := range features {
		datum := make([]float32, width)
		for i := 0; i < width && i < len(f); i++ {
			if max[i] > min[i] {
				datum[i] = float32((f[i] - min[i]) / (max[i] - min[i]))
			}
		}
		data[j] = datum
	}
	return data
}

func countDistinct(data [][]float32) int {
	seen := make(map[string]struct{}, len(data))
	for _, datum := range data {
		seen[fmt.Sprint(datum)] = struct{}{}
	}
	return len(seen)
}
