package render

import (
	"strings"
	"sync"
)

// Container is a page region that progress and card rendering write into.
type Container interface {
	// ID is the container's data-id attribute.
	ID() string
	Data(key string) string
	SetData(key, value string)
	ReplaceContents(r Rendered)
	ReplaceNode(r Rendered)
}

// Node is an in-memory page container. It is safe for concurrent use.
type Node struct {
	mu        sync.Mutex
	region    string
	id        string
	data      map[string]string
	html      string
	js        string
	mutations int
}

func (n *Node) ID() string { return n.id }

func (n *Node) Region() string { return n.region }

func (n *Node) Data(key string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.data[key]
}

func (n *Node) SetData(key, value string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.data[key] = value
}

func (n *Node) ReplaceContents(r Rendered) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.html = r.HTML
	n.js = r.JS
	n.mutations++
}

// ReplaceNode swaps the whole node. The new markup owns its own data
// attributes, so those set on the old node are discarded.
func (n *Node) ReplaceNode(r Rendered) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.html = r.HTML
	n.js = r.JS
	n.data = map[string]string{}
	n.mutations++
}

func (n *Node) HTML() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.html
}

func (n *Node) JS() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.js
}

// Mutations counts content replacements since the node was created.
func (n *Node) Mutations() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.mutations
}

// Page is an in-memory stand-in for a rendered course page.
type Page struct {
	mu    sync.RWMutex
	nodes []*Node
}

func NewPage() *Page {
	return &Page{}
}

// Add appends a container to the page. data may be nil.
func (p *Page) Add(region, id string, data map[string]string) *Node {
	n := &Node{region: region, id: id, data: map[string]string{}}
	for k, v := range data {
		n.data[k] = v
	}
	p.mu.Lock()
	p.nodes = append(p.nodes, n)
	p.mu.Unlock()
	return n
}

// Containers returns the containers of a region in insertion order.
func (p *Page) Containers(region string) []Container {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []Container
	for _, n := range p.nodes {
		if n.region == region {
			out = append(out, n)
		}
	}
	return out
}

// Find returns the container with the given region and id.
func (p *Page) Find(region, id string) (*Node, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, n := range p.nodes {
		if n.region == region && n.id == id {
			return n, true
		}
	}
	return nil, false
}

// HTML concatenates the markup of every node in insertion order.
func (p *Page) HTML() string {
	p.mu.RLock()
	nodes := make([]*Node, len(p.nodes))
	copy(nodes, p.nodes)
	p.mu.RUnlock()

	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(n.HTML())
		b.WriteByte('\n')
	}
	return b.String()
}
