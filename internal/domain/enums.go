package domain

// Category is a spend category. Values outside the known set are carried
// through uninterpreted.
type Category string

const (
	CategoryTravel        Category = "Travel"
	CategoryDining        Category = "Dining"
	CategoryRetail        Category = "Retail"
	CategoryGroceries     Category = "Groceries"
	CategoryEntertainment Category = "Entertainment"
	CategoryGas           Category = "Gas"
	CategoryOther         Category = "Other"
)

// Categories lists the known categories in their canonical order.
var Categories = []Category{
	CategoryTravel,
	CategoryDining,
	CategoryRetail,
	CategoryGroceries,
	CategoryEntertainment,
	CategoryGas,
	CategoryOther,
}

// Region is a customer's geographic region.
type Region string

const (
	RegionNortheast Region = "Northeast"
	RegionSoutheast Region = "Southeast"
	RegionMidwest   Region = "Midwest"
	RegionWest      Region = "West"
	RegionSouthwest Region = "Southwest"
)

// Regions lists the known regions.
var Regions = []Region{
	RegionNortheast,
	RegionSoutheast,
	RegionMidwest,
	RegionWest,
	RegionSouthwest,
}

// Segment is a customer tier. The known segments are ordered from Bronze
// to Platinum.
type Segment string

const (
	SegmentBronze   Segment = "Bronze"
	SegmentSilver   Segment = "Silver"
	SegmentGold     Segment = "Gold"
	SegmentPlatinum Segment = "Platinum"
)

// Segments lists the known segments in tier order.
var Segments = []Segment{
	SegmentBronze,
	SegmentSilver,
	SegmentGold,
	SegmentPlatinum,
}

// Rank returns the tier position of s (0 for Bronze) or -1 for an unknown
// segment.
func (s Segment) Rank() int {
	for i, k := range Segments {
		if s == k {
			return i
		}
	}
	return -1
}
