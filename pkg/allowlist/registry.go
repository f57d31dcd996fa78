package allowlist

import "sync"

// Lists holds the installed allowlists.
type Lists struct {
	// Class is the MDM interface-class allowlist.
	Class ClassSet
	// ID is the MDM vendor/product allowlist.
	ID IDList
	// Serial is the MDM colon-separated serial allowlist.
	Serial string
	// Lockscreen lists devices accepted while the lockscreen restricts USB.
	Lockscreen IDList
}

// Registry holds the current allowlists. Lists are replaced as a whole and
// read at match time, so a device check always sees a consistent set.
type Registry struct {
	mu    sync.RWMutex
	lists Lists
}

// NewRegistry creates a registry with the given lists.
func NewRegistry(l Lists) *Registry {
	r := &Registry{}
	r.Set(l)
	return r
}

// Set replaces every list.
func (r *Registry) Set(l Lists) {
	l.ID = append(IDList(nil), l.ID...)
	l.Lockscreen = append(IDList(nil), l.Lockscreen...)
	r.mu.Lock()
	r.lists = l
	r.mu.Unlock()
}

// Lists returns the current lists.
func (r *Registry) Lists() Lists {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lists
}

// Kind selects one of the MDM allowlists.
type Kind uint8

const (
	// KindClass is the interface-class allowlist.
	KindClass Kind = iota
	// KindID is the vendor/product allowlist.
	KindID
	// KindSerial is the serial-number allowlist.
	KindSerial
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindID:
		return "id"
	case KindSerial:
		return "serial"
	default:
		return "unknown"
	}
}

// Valid reports whether k names a known allowlist.
func (k Kind) Valid() bool {
	return k <= KindSerial
}
