package statevector

// Feed is one parsed ephemeris publication.
type Feed struct {
	ObjectName string
	ObjectID   string
	CenterName string
	RefFrame   string
	TimeSystem string
	Samples    []Sample
}
