package drawer

import (
	"fmt"
	"io"
	"text/template"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-reaction/internal/store"
	"github.com/askiada/go-reaction/pkg/reaction/timing"
)

// DOTDrawer renders the chain graph in the GraphViz DOT language. Wrap
// the output with the dot tool to produce an SVG.
type DOTDrawer struct {
	graph graph.Graph[string, string]
	store store.GraphStore[string, string]
}

// NewDOTDrawer creates a new DOT drawer.
func NewDOTDrawer() *DOTDrawer {
	st := store.NewMemoryStore[string, string]()

	return &DOTDrawer{
		graph: graph.NewWithStore(graph.StringHash, st, graph.Directed()),
		store: st,
	}
}

// AddStep adds a step node to the chain graph.
func (d *DOTDrawer) AddStep(name string) error {
	err := d.graph.AddVertex(name)
	if err != nil {
		return errors.Wrapf(err, "unable to add vertex %s", name)
	}

	return nil
}

// AddLink adds a link between parent and child steps.
func (d *DOTDrawer) AddLink(parentName, childName string) error {
	err := d.graph.AddEdge(parentName, childName)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentName, childName)
	}

	return nil
}

const maxRGB = 240

// ApplyTimings fills the executed step nodes with a colour scaled from
// blue (fastest) to red (slowest) and labels them with their duration.
// Nodes of steps that never executed keep their default look.
func (d *DOTDrawer) ApplyTimings(log *timing.Log) error {
	records := log.Records()
	if len(records) == 0 {
		return nil
	}

	minValue, maxValue := records[0].Duration, records[0].Duration
	for _, rec := range records {
		if rec.Duration < minValue {
			minValue = rec.Duration
		}

		if rec.Duration > maxValue {
			maxValue = rec.Duration
		}
	}

	for _, rec := range records {
		fraction := 1.0
		if maxValue > minValue {
			fraction = float64(rec.Duration-minValue) / float64(maxValue-minValue)
		}

		red := maxRGB * fraction
		blue := -maxRGB*fraction + maxRGB

		fillColor, err := colors.RGB(uint8(red), 0, uint8(blue)) //nolint
		if err != nil {
			return errors.Wrap(err, "unable to get colour")
		}

		err = d.store.UpdateVertex(rec.Label, func(props *graph.VertexProperties) {
			props.Attributes["style"] = "filled"
			props.Attributes["fontcolor"] = "white"
			props.Attributes["fillcolor"] = fillColor.ToHEX().String()
			props.Attributes["xlabel"] = rec.Duration.String()
		})
		if err != nil {
			return errors.Wrapf(err, "unable to update vertex %s", rec.Label)
		}
	}

	return nil
}

// Draw writes the chain graph in DOT format.
func (d *DOTDrawer) Draw(wrt io.Writer) error {
	desc, err := generateDOT(d.graph)
	if err != nil {
		return errors.Wrap(err, "unable to generate dot description")
	}

	return renderDOT(wrt, desc)
}

//nolint:lll //this is a template
const dotTemplate = `strict {{.GraphType}} {
	{{range $k, $v := .Attributes}}
		{{$k}}="{{$v}}";
	{{end}}
	{{range $s := .Statements}}
		"{{.Source}}" {{if .Target}}{{$.EdgeOperator}} "{{.Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .HTMLAttributes}}{{$k}}={{$v}}, {{end}} {{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.SourceWeight}} ]{{end}};
	{{end}}
	}
	`

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           interface{}
	Target           interface{}
	SourceAttributes map[string]string
	HTMLAttributes   map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

// GraphAttribute is a functional option for generateDOT.
func GraphAttribute(key, value string) func(*description) {
	return func(d *description) {
		d.Attributes[key] = value
	}
}

func generateDOT[K comparable, T any](gra graph.Graph[K, T], options ...func(*description)) (description, error) {
	desc := description{
		GraphType:    "graph",
		Attributes:   make(map[string]string),
		EdgeOperator: "--",
		Statements:   make([]statement, 0),
	}

	for _, option := range options {
		option(&desc)
	}

	if gra.Traits().IsDirected {
		desc.GraphType = "digraph"
		desc.EdgeOperator = "->"
	}

	adjacencyMap, err := gra.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	for vertex, adjacencies := range adjacencyMap {
		_, sourceProperties, err := gra.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		htmlAttributes := make(map[string]string)

		if xlabel, ok := sourceProperties.Attributes["xlabel"]; ok {
			htmlAttributes["label"] = fmt.Sprintf(`<%+v <BR /> <FONT POINT-SIZE="12">%s</FONT>>`, vertex, xlabel)

			delete(sourceProperties.Attributes, "xlabel")
		}

		stmt := statement{
			Source:           vertex,
			SourceWeight:     sourceProperties.Weight,
			SourceAttributes: sourceProperties.Attributes,
			HTMLAttributes:   htmlAttributes,
		}
		desc.Statements = append(desc.Statements, stmt)

		for adjacency, edge := range adjacencies {
			stmt := statement{
				Source:         vertex,
				Target:         adjacency,
				EdgeWeight:     edge.Properties.Weight,
				EdgeAttributes: edge.Properties.Attributes,
			}
			desc.Statements = append(desc.Statements, stmt)
		}
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return errors.Wrap(err, "unable to parse template")
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
