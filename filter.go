package rigid

// Filter decides which bodies may collide.
type Filter struct {
	/// Bodies sharing a positive group always collide, bodies sharing a negative group never do.
	/// A zero group falls through to the category/mask test.
	Group int
	/// A bitmask of categories this body belongs to.
	Category uint32
	/// A bitmask of categories this body collides with.
	Mask uint32
}

var DefaultFilter = Filter{Group: 0, Category: 0x0001, Mask: 0xFFFFFFFF}

func CanCollide(a, b Filter) bool {
	if a.Group == b.Group && a.Group != 0 {
		return a.Group > 0
	}
	return a.Mask&b.Category != 0 && b.Mask&a.Category != 0
}
