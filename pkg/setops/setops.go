// Package setops provides stateless aggregate and set operations over
// hasharray collections, built only on the collection's public API.
package setops

import (
	"math/rand/v2"
	"reflect"
	"strconv"

	"github.com/Aman-CERP/triesearch/pkg/hasharray"
	"github.com/Aman-CERP/triesearch/pkg/keyfield"
)

// Sum adds valueField over the records for key (hasharray.Wildcard for all).
// With a weightField, each value is multiplied by the record's weight.
// Records whose value or weight is absent or not numeric are skipped.
func Sum[R any](source *hasharray.Collection[R], key string, valueField keyfield.KeyField, weightField *keyfield.KeyField) float64 {
	sum, _ := accumulate(source, key, valueField, weightField)
	return sum
}

// Average is Sum divided by the number of contributing records. With a
// weightField the weighted sum is returned as is: weights are expected to
// already sum to 1 across the iterated records.
func Average[R any](source *hasharray.Collection[R], key string, valueField keyfield.KeyField, weightField *keyfield.KeyField) float64 {
	sum, n := accumulate(source, key, valueField, weightField)
	if weightField != nil {
		return sum
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func accumulate[R any](source *hasharray.Collection[R], key string, valueField keyfield.KeyField, weightField *keyfield.KeyField) (float64, int) {
	var (
		sum float64
		n   int
	)
	for _, r := range source.GetAll(key) {
		v, ok := numberAt(r, valueField)
		if !ok {
			continue
		}
		if weightField != nil {
			w, ok := numberAt(r, *weightField)
			if !ok {
				continue
			}
			v *= w
		}
		sum += v
		n++
	}
	return sum, n
}

// Difference collects the records of source that do not collide with target.
// Results go into output, or into an empty clone of source when output is nil.
func Difference[R any](source, target, output *hasharray.Collection[R]) (*hasharray.Collection[R], error) {
	if source == nil || target == nil {
		return nil, hasharray.ErrTypeMismatch
	}
	if output == nil {
		var err error
		if output, err = source.Clone(hasharray.ClonePolicyNone); err != nil {
			return nil, err
		}
	}
	for _, r := range source.ValuesFlat() {
		if target.Collides(r) {
			continue
		}
		if err := output.Add(r); err != nil {
			return nil, err
		}
	}
	return output, nil
}

// Sample draws count distinct records uniformly at random from
// source.GetAll(key), or from every record when key is empty. count is clamped
// to [1, population].
func Sample[R any](source *hasharray.Collection[R], count int, key string) []R {
	return SampleWith(rand.N[int], source, count, key)
}

// SampleWith is Sample with an explicit source of randomness: intn(n) must
// return a uniform value in [0, n).
func SampleWith[R any](intn func(n int) int, source *hasharray.Collection[R], count int, key string) []R {
	if key == "" {
		key = hasharray.Wildcard
	}
	population := source.GetAll(key)
	if len(population) == 0 {
		return []R{}
	}
	count = max(1, min(count, len(population)))

	// Partial Fisher-Yates over the index space.
	idx := make([]int, len(population))
	for i := range idx {
		idx[i] = i
	}
	out := make([]R, 0, count)
	for i := 0; i < count; i++ {
		j := i + intn(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		out = append(out, population[idx[i]])
	}
	return out
}

// numberAt resolves field on r and converts it to float64.
func numberAt(r any, field keyfield.KeyField) (float64, bool) {
	v, ok, err := keyfield.Resolve(r, field)
	if err != nil || !ok {
		return 0, false
	}
	return toFloat(v)
}

func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.String:
		f, err := strconv.ParseFloat(rv.String(), 64)
		return f, err == nil
	}
	return 0, false
}
