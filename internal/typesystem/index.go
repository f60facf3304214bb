package typesystem

// Index answers subsumption queries against a bound Snapshot.
//
// All subsumption sets are computed when a snapshot is bound, so once Bind
// has returned the Index may be queried from several goroutines. Bind itself
// must not run concurrently with queries.
type Index struct {
	snapshot *Snapshot
	subsumed map[string]map[string]struct{}
}

// NewIndex returns an unbound index. Every query fails with ErrNotBound
// until Bind is called with a non-empty snapshot.
func NewIndex() *Index {
	return &Index{}
}

// Snapshot returns the bound snapshot, or nil.
func (x *Index) Snapshot() *Snapshot {
	return x.snapshot
}

// Bind replaces the active snapshot and rebuilds every subsumption set.
// Binding the snapshot that is already bound is a no-op.
func (x *Index) Bind(s *Snapshot) {
	if s == x.snapshot && x.subsumed != nil {
		return
	}
	x.snapshot = s
	x.subsumed = make(map[string]map[string]struct{}, s.Len())
	if s.Len() == 0 {
		return
	}
	for name := range s.types {
		x.subsumed[name] = make(map[string]struct{})
	}
	for name := range s.types {
		for cur := s.types[name].Parent; cur != ""; cur = s.types[cur].Parent {
			x.subsumed[cur][name] = struct{}{}
		}
	}
}

func (x *Index) lookup(name string) (map[string]struct{}, error) {
	if x.snapshot.Len() == 0 {
		return nil, ErrNotBound
	}
	set, ok := x.subsumed[name]
	if !ok {
		return nil, &UnknownTypeError{Name: name}
	}
	return set, nil
}

// SubsumedTypes returns every type properly subsumed by name: all types
// whose parent chain reaches name, excluding name itself. The returned set
// is a copy owned by the caller.
func (x *Index) SubsumedTypes(name string) (map[string]struct{}, error) {
	set, err := x.lookup(name)
	if err != nil {
		return nil, err
	}
	out := make(map[string]struct{}, len(set))
	for t := range set {
		out[t] = struct{}{}
	}
	return out, nil
}

// IsSubsumed reports whether name equals ancestor or is properly subsumed
// by it. Only ancestor has to be known to the bound snapshot; an unknown
// name is simply not subsumed.
func (x *Index) IsSubsumed(name, ancestor string) (bool, error) {
	set, err := x.lookup(ancestor)
	if err != nil {
		return false, err
	}
	if name == ancestor {
		return true, nil
	}
	_, ok := set[name]
	return ok, nil
}
