package classify

import (
	"io/ioutil"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = log.New(ioutil.Discard, "", 0)

func TestNormalize(t *testing.T) {
	data := Normalize([][]float64{
		{2, 8, 10},
		{4, 8, 30},
		{6, 8, 20},
	})
	assert.Equal(t, [][]float32{
		{0, 0, 0},
		{0.5, 0, 1},
		{1, 0, 0.5},
	}, data)
}

type fixedAlgorithm struct {
	class []int
}

func (f *fixedAlgorithm) Run(data [][]float32, numClass int) ([][]float32, []int) {
	return make([][]float32, numClass), f.class
}

func TestClassifier_Labels(t *testing.T) {
	c, err := NewClassifier(KMeans, 2, 10, discard)
	require.NoError(t, err)
	features := [][]float64{
		{2, 8, 1, 1},
		{2, 8, 2, 1},
		{64, 512, 90, 80},
		{64, 512, 95, 85},
	}
	labels, err := c.Labels(features)
	require.NoError(t, err)
	require.Equal(t, 4, len(labels))
	for _, l := range labels {
		assert.Contains(t, []string{"class-0", "class-1"}, l)
	}
}

func TestClassifier_Clamp(t *testing.T) {
	c, err := NewClassifier(KMeans, 5, 10, discard)
	require.NoError(t, err)
	labels, err := c.Labels([][]float64{{1, 1}, {1, 1}, {1, 1}})
	require.NoError(t, err)
	assert.Equal(t, []string{"class-0", "class-0", "class-0"}, labels)

	labels, err = c.Labels(nil)
	require.NoError(t, err)
	assert.Empty(t, labels)
}

func TestClassifier_BadResult(t *testing.T) {
	c, err := NewClassifier(KMeans, 2, 10, discard)
	require.NoError(t, err)
	c.algorithm = &fixedAlgorithm{class: []int{0}}
	_, err = c.Labels([][]float64{{1}, {2}})
	assert.Error(t, err)

	c.algorithm = &fixedAlgorithm{class: []int{1, 0}}
	labels, err := c.Labels([][]float64{{1}, {2}})
	require.NoError(t, err)
	assert.Equal(t, []string{"class-1", "class-0"}, labels)
}

func TestNewClassifier_Round(t *testing.T) {
	c, err := NewClassifier(KMeans, 3, 0, discard)
	require.NoError(t, err)
	assert.Equal(t, KMeansDefaultRound, c.algorithm.(*kMeansRunner).round)

	c, err = NewClassifier(KMeans, 3, 12, discard)
	require.NoError(t, err)
	assert.Equal(t, 12, c.algorithm.(*kMeansRunner).round)
}

func TestNewClassifier_Invalid(t *testing.T) {
	_, err := NewClassifier(AlgorithmType("dbscan"), 2, 10, discard)
	assert.Error(t, err)
	_, err = NewClassifier(KMeans, 0, 10, discard)
	assert.Error(t, err)
}
