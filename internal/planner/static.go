package planner

// StaticTerm is one term column of a snapshot plan.
type StaticTerm struct {
	Label   string   `json:"label"`
	Courses []string `json:"courses"`
}

// StaticPage is a PageModel over a fixed snapshot. The service surface
// builds one per request; tests build them inline. Every cell reports as
// locatable.
type StaticPage struct {
	Terms []StaticTerm
}

func (p StaticPage) Columns() []Column {
	cols := make([]Column, len(p.Terms))
	for i, t := range p.Terms {
		cols[i] = staticColumn{t}
	}
	return cols
}

type staticColumn struct {
	t StaticTerm
}

func (c staticColumn) Label() string { return c.t.Label }

func (c staticColumn) Courses() []CourseElement {
	els := make([]CourseElement, len(c.t.Courses))
	for i, text := range c.t.Courses {
		els[i] = staticElement(text)
	}
	return els
}

type staticElement string

func (e staticElement) Text() string  { return string(e) }
func (e staticElement) Located() bool { return true }
