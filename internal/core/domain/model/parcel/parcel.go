package parcel

// Parcel describes what is being shipped, as far as pricing cares.
type Parcel struct {
	Size     Size
	Fragile  bool
	Valuable bool
}

// Validate checks the declared size.
func (p Parcel) Validate() error {
	return p.Size.Validate()
}
