// Package content supplies the fragments shown inside an expanded panel.
package content

// Fragment is a renderable block of expanded-panel content.
type Fragment struct {
	Title string
	Body  string
	Link  string
}

// IsZero reports whether f carries no content.
func (f Fragment) IsZero() bool {
	return f.Title == "" && f.Body == "" && f.Link == ""
}

// Provider returns the fragment for a content kind. Unknown kinds yield a
// placeholder fragment rather than an error.
type Provider interface {
	Content(kind string) Fragment
}

// Placeholder is returned for kinds the catalog does not know.
var Placeholder = Fragment{Body: "Content coming soon..."}

// Catalog is a static Provider keyed by content kind.
type Catalog struct {
	order     []string
	fragments map[string]Fragment
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{fragments: make(map[string]Fragment)}
}

// DefaultCatalog returns the catalog for the five standard panels.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	c.Set("leadership", Fragment{
		Title: "Leadership",
		Body:  "The people who organise sessions, run project sprints and mentor new members.",
		Link:  "Meet the team",
	})
	c.Set("research", Fragment{
		Title: "Research Projects",
		Body:  "Computational research across the natural sciences.",
		Link:  "Join a research team",
	})
	c.Set("workshops", Fragment{
		Title: "Workshops & Training",
		Body:  "Weekly sessions on computational tools and techniques.",
		Link:  "View schedule",
	})
	c.Set("community", Fragment{
		Title: "Our Community",
		Body:  "Connect with students who care about computational science.",
		Link:  "Join the chat",
	})
	c.Set("join", Fragment{
		Title: "Join",
		Body:  "Open to everyone, no experience required.",
		Link:  "Apply now",
	})
	return c
}

// Set registers or replaces the fragment for kind.
func (c *Catalog) Set(kind string, f Fragment) {
	if _, ok := c.fragments[kind]; !ok {
		c.order = append(c.order, kind)
	}
	c.fragments[kind] = f
}

// Kinds returns the registered kinds in registration order.
func (c *Catalog) Kinds() []string {
	return append([]string(nil), c.order...)
}

// Content implements Provider.
func (c *Catalog) Content(kind string) Fragment {
	if f, ok := c.fragments[kind]; ok {
		return f
	}
	return Placeholder
}
