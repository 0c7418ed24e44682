package nutrition

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Projector computes weighted 2-D embeddings of the store's standardized
// matrix. Every call is a fresh, pure computation over the immutable store,
// so concurrent projections need no coordination.
type Projector struct {
	store *Store
}

// NewProjector validates the store carries at least one retained feature and
// wraps it for projection queries.
func NewProjector(store *Store) (*Projector, error) {
	if store == nil {
		return nil, errors.New("nil store")
	}
	if len(store.features) == 0 {
		return nil, errors.New("store has no retained features")
	}
	return &Projector{store: store}, nil
}

// Project maps the caller's feature weights to a fresh 2-D embedding.
//
// Each standardized column is rescaled by the square root of its weight
// before the principal-component step: scaling a column by √w multiplies its
// variance contribution by w, which turns the weights into linear importance
// dials over captured variance. Features absent from the map weigh 1.0;
// unknown names are ignored; a negative or non-finite weight is a request
// error.
//
// The projection re-centers the rescaled matrix itself rather than assuming
// the stored columns still have mean zero. An all-zero weighting (or a
// dataset with no variance left) yields zero coordinates and an explained
// variance of zero, not an error.
func (p *Projector) Project(weights FeatureWeights) (ProjectionResult, error) {
	scale, active, err := p.weightVector(weights)
	if err != nil {
		return ProjectionResult{}, err
	}
	if !active {
		return p.degenerate(), nil
	}

	n, d := p.store.matrix.Dims()
	weighted := mat.NewDense(n, d, nil)
	for j := 0; j < d; j++ {
		for i := 0; i < n; i++ {
			weighted.Set(i, j, p.store.matrix.At(i, j)*scale[j])
		}
	}
	centerColumns(weighted)

	var svd mat.SVD
	if !svd.Factorize(weighted, mat.SVDThin) {
		return ProjectionResult{}, errors.New("projection factorization failed")
	}
	values := svd.Values(nil)
	var total float64
	for _, s := range values {
		total += s * s
	}
	if total == 0 {
		return p.degenerate(), nil
	}

	var u mat.Dense
	svd.UTo(&u)

	points := make([]ItemPoint, n)
	var captured float64
	components := 2
	if len(values) < components {
		components = len(values)
	}
	for k := 0; k < components; k++ {
		captured += values[k] * values[k]
	}
	for i := 0; i < n; i++ {
		pt := ItemPoint{ID: p.store.ids[i]}
		pt.X = u.At(i, 0) * values[0]
		if components > 1 {
			pt.Y = u.At(i, 1) * values[1]
		}
		points[i] = pt
	}
	return ProjectionResult{Points: points, ExplainedVariance: captured / total}, nil
}

// weightVector aligns the caller's weights with the store's feature order and
// takes the square roots. active is false when every weight is zero.
func (p *Projector) weightVector(weights FeatureWeights) ([]float64, bool, error) {
	scale := make([]float64, len(p.store.features))
	active := false
	for j, name := range p.store.features {
		w := 1.0
		if v, ok := weights[name]; ok {
			w = v
		}
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, false, fmt.Errorf("weight for %q is not a finite number", name)
		}
		if w < 0 {
			return nil, false, fmt.Errorf("weight for %q is negative", name)
		}
		if w > 0 {
			active = true
		}
		scale[j] = math.Sqrt(w)
	}
	return scale, active, nil
}

// degenerate returns the well-defined all-zero result: every item at the
// origin, nothing explained.
func (p *Projector) degenerate() ProjectionResult {
	points := make([]ItemPoint, len(p.store.ids))
	for i, id := range p.store.ids {
		points[i] = ItemPoint{ID: id}
	}
	return ProjectionResult{Points: points, ExplainedVariance: 0}
}

func centerColumns(m *mat.Dense) {
	n, d := m.Dims()
	if n == 0 {
		return
	}
	for j := 0; j < d; j++ {
		var mean float64
		for i := 0; i < n; i++ {
			mean += m.At(i, j)
		}
		mean /= float64(n)
		for i := 0; i < n; i++ {
			m.Set(i, j, m.At(i, j)-mean)
		}
	}
}
