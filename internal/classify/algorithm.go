package classify

import (
	"github.com/packagewjx/kmeanspp"
)

// Algorithm clusters normalized workload feature vectors.
type Algorithm interface {
	Run(data [][]float32, numClass int) (centers [][]float32, class []int)
}

type AlgorithmType string

const (
	KMeans = AlgorithmType("kmeans")
)

const (
	KMeansDefaultRound = 30
)

// GetAlgorithm returns nil for an unknown type.
func GetAlgorithm(algorithmType AlgorithmType, round int) Algorithm {
	switch algorithmType {
	case KMeans:
		return &kMeansRunner{round: round}
	default:
		return nil
	}
}

type kMeansRunner struct {
	round int
}

func (k *kMeansRunner) Run(data [][]float32, numClass int) (centers [][]float32, class []int) {
	return kmeanspp.KMeansPP(numClass, k.round, data)
}
