package schema

// Base is embedded by structured schemas. Types that want a custom model
// rendering override String; everything else falls back to JSON via Stringify.
type Base struct{}

func (r Base) String() string {
	return ""
}
