package orchestrator

import (
	"fmt"

	"github.com/sentinel-health/sentinel-core/schema"
)

// nodeID names a stage node in a workflow graph.
type nodeID string

const (
	nodeScribe   nodeID = "scribe"
	nodeCoder    nodeID = "coder"
	nodeIntake   nodeID = "intake"
	nodeRebuttal nodeID = "rebuttal"
	nodeEnd      nodeID = "end"
)

// Route is a closed set of routing decisions a conditional edge may
// return. Illegal routes cannot be constructed by stage code.
type Route string

const (
	RouteProcessDenial    Route = "process_denial"
	RouteGenerateRebuttal Route = "generate_rebuttal"
	RouteEnd              Route = "end"
)

// routerFunc inspects the current state and picks a Route. Routers are
// pure: they must not mutate state.
type routerFunc func(st *schema.WorkflowState) Route

// edge describes what follows a node: either a static successor or a
// router plus its route table.
type edge struct {
	next   nodeID
	router routerFunc
	routes map[Route]nodeID
}

// graph is an immutable workflow topology.
type graph struct {
	entry nodeID
	edges map[nodeID]edge
}

// nextNode resolves the successor of from. A router returning a Route
// absent from its table is a wiring bug and reported as an error.
func (g *graph) nextNode(from nodeID, st *schema.WorkflowState) (nodeID, error) {
	e, ok := g.edges[from]
	if !ok {
		return nodeEnd, fmt.Errorf("node %q has no outgoing edge", from)
	}
	if e.router == nil {
		return e.next, nil
	}
	route := e.router(st)
	to, ok := e.routes[route]
	if !ok {
		return nodeEnd, fmt.Errorf("node %q router returned unmapped route %q", from, route)
	}
	return to, nil
}

// routeAfterCoder continues into document processing only when a document
// payload is present in state.
func routeAfterCoder(st *schema.WorkflowState) Route {
	if len(st.PDFBytes) > 0 {
		return RouteProcessDenial
	}
	return RouteEnd
}

// routeAfterIntake continues into rebuttal generation only when the
// classification marked the document a denial.
func routeAfterIntake(st *schema.WorkflowState) Route {
	if st.DenialDetected {
		return RouteGenerateRebuttal
	}
	return RouteEnd
}

// dictationGraph: scribe → coder → end.
func dictationGraph() *graph {
	return &graph{
		entry: nodeScribe,
		edges: map[nodeID]edge{
			nodeScribe: {next: nodeCoder},
			nodeCoder:  {next: nodeEnd},
		},
	}
}

// denialGraph: intake → (denial?) → rebuttal | end.
func denialGraph() *graph {
	return &graph{
		entry: nodeIntake,
		edges: map[nodeID]edge{
			nodeIntake: {
				router: routeAfterIntake,
				routes: map[Route]nodeID{
					RouteGenerateRebuttal: nodeRebuttal,
					RouteEnd:              nodeEnd,
				},
			},
			nodeRebuttal: {next: nodeEnd},
		},
	}
}

// fullGraph: scribe → coder → (document?) → intake → (denial?) → rebuttal.
func fullGraph() *graph {
	return &graph{
		entry: nodeScribe,
		edges: map[nodeID]edge{
			nodeScribe: {next: nodeCoder},
			nodeCoder: {
				router: routeAfterCoder,
				routes: map[Route]nodeID{
					RouteProcessDenial: nodeIntake,
					RouteEnd:           nodeEnd,
				},
			},
			nodeIntake: {
				router: routeAfterIntake,
				routes: map[Route]nodeID{
					RouteGenerateRebuttal: nodeRebuttal,
					RouteEnd:              nodeEnd,
				},
			},
			nodeRebuttal: {next: nodeEnd},
		},
	}
}

func graphFor(kind schema.WorkflowKind) (*graph, error) {
	switch kind {
	case schema.WorkflowDictation:
		return dictationGraph(), nil
	case schema.WorkflowDenial:
		return denialGraph(), nil
	case schema.WorkflowFull:
		return fullGraph(), nil
	default:
		return nil, fmt.Errorf("unknown workflow kind %q", kind)
	}
}
