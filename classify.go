package jpegquality

// Category buckets a quality score into a coarse tier.
type Category int

const (
	CategoryVeryLow Category = iota
	CategoryLow
	CategoryMedium
	CategoryHigh
)

// Classify maps a quality score in [1,100] to its category.
func Classify(quality int) Category {
	switch {
	case quality >= 90:
		return CategoryHigh
	case quality >= 80:
		return CategoryMedium
	case quality >= 70:
		return CategoryLow
	default:
		return CategoryVeryLow
	}
}

func (c Category) String() string {
	switch c {
	case CategoryHigh:
		return "High Quality"
	case CategoryMedium:
		return "Medium Quality"
	case CategoryLow:
		return "Low Quality"
	default:
		return "Very Low Quality"
	}
}

// MarshalText renders the category as its human-readable label in JSON output.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
