package query

// Limits guarding the engine against oversized input.
const (
	// MaxQueryLength is the maximum size of a JSON query (1MB)
	MaxQueryLength = 1024 * 1024

	// MaxFilterDepth is the maximum nesting depth of the WHERE tree
	MaxFilterDepth = 100

	// DefaultResultLimit is the maximum number of result rows
	DefaultResultLimit = 5000
)

// checkQueryLength rejects JSON input larger than MaxQueryLength.
func checkQueryLength(data []byte) error {
	if len(data) > MaxQueryLength {
		return malformed("", "query too long: %d bytes (max %d)", len(data), MaxQueryLength)
	}
	return nil
}

// depthCounter tracks the nesting depth of filter nodes during parsing.
type depthCounter struct {
	current int
	max     int
}

func newDepthCounter(max int) *depthCounter {
	return &depthCounter{max: max}
}

// enter increments depth and reports an error past the limit.
func (d *depthCounter) enter(path string) error {
	d.current++
	if d.current > d.max {
		return malformed(path, "filter nesting too deep: %d levels (max %d)", d.current, d.max)
	}
	return nil
}

// exit decrements depth.
func (d *depthCounter) exit() {
	d.current--
}
