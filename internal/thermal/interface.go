package thermal

// Sensor produces temperature readings from some thermal device. A failed
// read returns an error; it is the caller's job to classify and record the
// failure rather than let it propagate further.
type Sensor interface {
	Read() (Reading, error)

	// Source identifies where readings come from, for provenance text.
	Source() string
}
