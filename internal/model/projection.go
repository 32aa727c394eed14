package model

// DimensionEntry labels one position on a cube axis.
type DimensionEntry struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Domain *string `json:"domain"`
}

// Dimensions holds the ordered axis labels, one list per kind. The index of
// an entry is its axis coordinate.
type Dimensions struct {
	Property    []DimensionEntry `json:"property"`
	Process     []DimensionEntry `json:"process"`
	Perspective []DimensionEntry `json:"perspective"`
}

// Axis returns the entries for a kind.
func (d Dimensions) Axis(k Kind) []DimensionEntry {
	switch k {
	case KindProperty:
		return d.Property
	case KindProcess:
		return d.Process
	case KindPerspective:
		return d.Perspective
	}
	return nil
}

// Connection is a fully-populated relationship placed in the cube.
// X, Y, and Z are the property, process, and perspective axis indices.
type Connection struct {
	ID            string  `json:"id"`
	PropertyID    string  `json:"property_id"`
	ProcessID     string  `json:"process_id"`
	PerspectiveID string  `json:"perspective_id"`
	Strength      float64 `json:"strength"`
	Confidence    float64 `json:"confidence"`
	X             int     `json:"x"`
	Y             int     `json:"y"`
	Z             int     `json:"z"`
}

// CubeProjection is the 3-axis coordinate cloud handed to the renderer.
// Skipped counts relationships that could not be placed.
type CubeProjection struct {
	Dimensions  Dimensions   `json:"dimensions"`
	Connections []Connection `json:"connections"`
	Skipped     int          `json:"skipped"`
}

// Node is a pattern in the graph projection.
type Node struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Kind   Kind    `json:"kind"`
	Domain *string `json:"domain"`
}

// Link is one pairwise edge decomposed from a relationship. Type names the
// role pair in canonical order, e.g. "property-perspective".
type Link struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Strength float64 `json:"strength"`
	Type     string  `json:"type"`
}

// GraphProjection is the node/link graph handed to the renderer.
// Omitted counts relationships with fewer than two populated roles.
type GraphProjection struct {
	Nodes   []Node `json:"nodes"`
	Links   []Link `json:"links"`
	Omitted int    `json:"omitted"`
}

// NullableDomain maps the empty domain to nil so it serializes as null.
func NullableDomain(domain string) *string {
	if domain == "" {
		return nil
	}
	return &domain
}
