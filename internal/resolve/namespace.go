package resolve

// Namespace partitions names the way the resolver tracks them. A single
// identifier may be bound independently in each namespace.
type Namespace uint8

const (
	NSType Namespace = iota
	NSValue
	NSMacro
)

func (ns Namespace) String() string {
	switch ns {
	case NSType:
		return "type"
	case NSValue:
		return "value"
	case NSMacro:
		return "macro"
	}
	return "unknown"
}
