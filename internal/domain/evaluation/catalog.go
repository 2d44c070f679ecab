package evaluation

// Catalog is the ordered aspect list loaded once per operation.
type Catalog struct {
	aspects []Aspect
	byText  map[string]Aspect
}

func NewCatalog(aspects []Aspect) Catalog {
	c := Catalog{
		aspects: make([]Aspect, len(aspects)),
		byText:  make(map[string]Aspect, len(aspects)),
	}
	copy(c.aspects, aspects)
	for _, a := range aspects {
		c.byText[a.Text] = a
	}
	return c
}

func (c Catalog) Size() int {
	return len(c.aspects)
}

func (c Catalog) Aspects() []Aspect {
	out := make([]Aspect, len(c.aspects))
	copy(out, c.aspects)
	return out
}

func (c Catalog) Lookup(text string) (Aspect, bool) {
	a, ok := c.byText[text]
	return a, ok
}

func (c Catalog) Texts() []string {
	out := make([]string, len(c.aspects))
	for i, a := range c.aspects {
		out[i] = a.Text
	}
	return out
}
