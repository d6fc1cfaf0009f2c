package registry

import "dns-ledger-sim/models"

// Predicate selects nodes for a bulk transition.
type Predicate func(models.Node) bool

var (
	All       Predicate = func(models.Node) bool { return true }
	Submitter Predicate = func(n models.Node) bool { return n.IsSubmitter() }
	Peers     Predicate = func(n models.Node) bool { return !n.IsSubmitter() }
)

// ByID matches the node with the given id.
func ByID(id int) Predicate {
	return func(n models.Node) bool { return n.ID == id }
}

// Registry holds the fixed set of participant nodes. Identities and
// positions never change after construction; only decisions do.
type Registry struct {
	nodes []models.Node
}

// DefaultTopology is the five-node layout drawn around the ledger anchor.
func DefaultTopology() []models.Node {
	return []models.Node{
		{ID: 1, Position: models.Point{X: 200, Y: 275}, Decision: models.Stopped},
		{ID: 2, Position: models.Point{X: 500, Y: 100}, Decision: models.Stopped},
		{ID: 3, Position: models.Point{X: 800, Y: 275}, Decision: models.Stopped},
		{ID: 4, Position: models.Point{X: 650, Y: 450}, Decision: models.Stopped},
		{ID: 5, Position: models.Point{X: 350, Y: 450}, Decision: models.Stopped},
	}
}

// LedgerAnchor is the screen point every edge and token flight targets.
var LedgerAnchor = models.Point{X: 500, Y: 275}

// New creates and returns a Registry over a copy of nodes.
func New(nodes []models.Node) *Registry {
	return &Registry{nodes: append([]models.Node(nil), nodes...)}
}

// ApplyTransition sets newState on every node matching pred.
func (r *Registry) ApplyTransition(pred Predicate, newState models.Decision) {
	for i := range r.nodes {
		if pred(r.nodes[i]) {
			r.nodes[i].Decision = newState
		}
	}
}

// ResetAll puts every node into state.
func (r *Registry) ResetAll(state models.Decision) {
	r.ApplyTransition(All, state)
}

// Update sets each node's decision to fn(node); used when the new state
// depends on the node itself.
func (r *Registry) Update(pred Predicate, fn func(models.Node) models.Decision) {
	for i := range r.nodes {
		if pred(r.nodes[i]) {
			r.nodes[i].Decision = fn(r.nodes[i])
		}
	}
}

// Get returns the node with id, if any.
func (r *Registry) Get(id int) (models.Node, bool) {
	for _, n := range r.nodes {
		if n.ID == id {
			return n, true
		}
	}
	return models.Node{}, false
}

// Nodes returns a copy of the current node list.
func (r *Registry) Nodes() []models.Node {
	return append([]models.Node(nil), r.nodes...)
}

// Len is the number of nodes.
func (r *Registry) Len() int {
	return len(r.nodes)
}
