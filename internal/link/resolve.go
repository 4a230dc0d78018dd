package link

import (
	"github.com/napolitain/idlelink/internal/models"
)

// Resolve folds every link targeting ref into a single {flat, ratio} pair.
// Additive links add to Flat (from 0), ratio links add to Ratio (from 1).
func Resolve(idx *Index, r PropertyReader, ref models.PropertyRef) (models.LinkedPropertyValue, error) {
	out := models.NeutralValue()
	for _, l := range idx.LinksTargeting(ref) {
		v, err := l.Value(r)
		if err != nil {
			return models.LinkedPropertyValue{}, err
		}
		if l.config.IsRatio() {
			out.Ratio += v
		} else {
			out.Flat += v
		}
	}
	return out, nil
}
