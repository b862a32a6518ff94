package media

// FeaturesState tracks loading of a title's special features.
type FeaturesState int

const (
	FeaturesUnloaded FeaturesState = iota
	FeaturesLoading
	FeaturesLoaded
)

func (s FeaturesState) String() string {
	switch s {
	case FeaturesLoading:
		return "loading"
	case FeaturesLoaded:
		return "loaded"
	default:
		return "unloaded"
	}
}

// SpecialFeature is an extra attached to a title (trailer, featurette, ...).
type SpecialFeature struct {
	ID       string
	Title    string
	Kind     string
	Duration Ticks
	Sources  []*Source

	DecodeErrors []error
}

// SpecialFeatures is the load state plus the features grouped by kind.
type SpecialFeatures struct {
	State  FeaturesState
	Groups [][]SpecialFeature
}

// GroupFeatures buckets features by Kind, ordering buckets by first appearance.
func GroupFeatures(features []SpecialFeature) [][]SpecialFeature {
	groups := [][]SpecialFeature{}
	index := make(map[string]int)
	for _, f := range features {
		i, ok := index[f.Kind]
		if !ok {
			i = len(groups)
			index[f.Kind] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], f)
	}
	return groups
}
