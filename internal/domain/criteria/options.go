package criteria

// Options holds the recognized query options: page size, offset, sort spec.
// The zero value leaves all of them unset. Options is a comparable value
// type; deriving a new value never touches the original.
type Options struct {
	rows     int
	start    int
	sort     string
	hasRows  bool
	hasStart bool
}

// Rows returns the page size and whether it has been set.
func (o Options) Rows() (int, bool) { return o.rows, o.hasRows }

// Start returns the offset and whether it has been set.
func (o Options) Start() (int, bool) { return o.start, o.hasStart }

// Sort returns the comma-joined sort spec, empty if unset.
func (o Options) Sort() string { return o.sort }

// IsZero reports whether no option has been set.
func (o Options) IsZero() bool { return o == Options{} }

// Merge returns a copy with other's set options overriding the receiver's.
func (o Options) Merge(other Options) Options {
	if other.hasRows {
		o = o.withRows(other.rows)
	}
	if other.hasStart {
		o = o.withStart(other.start)
	}
	if other.sort != "" {
		o.sort = other.sort
	}
	return o
}

func (o Options) withRows(n int) Options {
	o.rows = n
	o.hasRows = true
	return o
}

func (o Options) withStart(n int) Options {
	o.start = n
	o.hasStart = true
	return o
}

func (o Options) appendSort(clause string) Options {
	if o.sort == "" {
		o.sort = clause
	} else {
		o.sort += ", " + clause
	}
	return o
}
