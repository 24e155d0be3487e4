package model

// Bucket partitions candidates by market value relative to the reference.
type Bucket string

// Buckets, in output order.
const (
	BucketCheaper Bucket = "cheaper"
	BucketSimilar Bucket = "similar"
	BucketPricier Bucket = "pricier"
)

// Buckets lists every bucket in the order results are reported.
var Buckets = []Bucket{BucketCheaper, BucketSimilar, BucketPricier}

// Label returns the display label used on charts and summaries.
func (b Bucket) Label() string {
	switch b {
	case BucketCheaper:
		return "Cheaper"
	case BucketSimilar:
		return "Similar"
	case BucketPricier:
		return "Pricier"
	default:
		return string(b)
	}
}

// MetricEuclidean names the distance used by the ranker.
const MetricEuclidean = "euclidean"

// Candidate is a ranked athlete with its adjusted distance.
type Candidate struct {
	Athlete  AthleteRecord
	Bucket   Bucket
	Distance float64
}

// RecommendationResult is the ranker output for one reference athlete.
type RecommendationResult struct {
	Reference    AthleteRecord
	Candidates   []Candidate // at most one per bucket, bucket order
	Metric       string
	PriorityStat string // empty when unset
	CohortSize   int
}
