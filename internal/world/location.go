package world

// Location groups buildings. Buildings are held by reference.
type Location struct {
	Name      string
	Unlocked  bool
	Buildings []*Building
}
