// Package embed provides a deterministic local text embedder. It hashes
// character trigrams into a fixed-dimension bag and L2-normalizes the result,
// so equal texts always embed identically and no external model is needed.
package embed

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"github.com/sandevgo/pixbot/internal/core"
)

type HashEmbedder struct {
	dim int
}

func NewHashEmbedder(dim int) (*HashEmbedder, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: embedding dimension must be positive", core.ErrValidation)
	}
	return &HashEmbedder{dim: dim}, nil
}

func (e *HashEmbedder) Dim() int { return e.dim }

func (e *HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return nil, fmt.Errorf("%w: text is empty", core.ErrValidation)
	}

	vec := make([]float32, e.dim)
	runes := []rune(text)
	for _, gram := range trigrams(runes) {
		h := fnv.New32a()
		h.Write([]byte(string(gram)))
		sum := h.Sum32()
		// Low bits pick the bucket, one higher bit picks the sign.
		bucket := int(sum % uint32(e.dim))
		if sum&0x80000000 != 0 {
			vec[bucket]--
		} else {
			vec[bucket]++
		}
	}

	normalize(vec)
	return vec, nil
}

func (e *HashEmbedder) Ready() bool { return true }

func trigrams(runes []rune) [][]rune {
	if len(runes) == 0 {
		return nil
	}
	if len(runes) < 3 {
		return [][]rune{runes}
	}
	grams := make([][]rune, 0, len(runes)-2)
	for i := 0; i+3 <= len(runes); i++ {
		grams = append(grams, runes[i:i+3])
	}
	return grams
}

func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
}
