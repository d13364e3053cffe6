package triesearch

import (
	"slices"
	"strings"

	"github.com/Aman-CERP/triesearch/pkg/hasharray"
)

type nodeID int32

const root nodeID = 0

// node is one character position in the trie. records holds every record
// whose indexed words pass through the node.
type node struct {
	parent   nodeID
	char     rune
	children map[rune]nodeID
	records  []hasharray.Handle
	live     bool
}

// trie is an arena of nodes addressed by nodeID. Freed nodes are recycled.
type trie struct {
	nodes []node
	free  []nodeID
}

func newTrie() *trie {
	t := &trie{}
	t.reset()
	return t
}

func (t *trie) reset() {
	t.nodes = []node{{parent: root, live: true}}
	t.free = nil
}

// size is the number of live nodes below the root.
func (t *trie) size() int {
	return len(t.nodes) - len(t.free) - 1
}

// childOrCreate returns the child of n keyed by r, allocating it if needed.
func (t *trie) childOrCreate(n nodeID, r rune) nodeID {
	if id, ok := t.nodes[n].children[r]; ok {
		return id
	}

	var id nodeID
	if k := len(t.free); k > 0 {
		id = t.free[k-1]
		t.free = t.free[:k-1]
		t.nodes[id] = node{}
	} else {
		id = nodeID(len(t.nodes))
		t.nodes = append(t.nodes, node{})
	}
	t.nodes[id].parent = n
	t.nodes[id].char = r
	t.nodes[id].live = true

	if t.nodes[n].children == nil {
		t.nodes[n].children = make(map[rune]nodeID)
	}
	t.nodes[n].children[r] = id
	return id
}

// insert walks word from the root and adds h to every node on the path.
// It returns the nodes h was added to.
func (t *trie) insert(word []rune, h hasharray.Handle) []nodeID {
	placed := make([]nodeID, 0, len(word))
	cur := root
	for _, r := range word {
		cur = t.childOrCreate(cur, r)
		if t.attach(cur, h) {
			placed = append(placed, cur)
		}
	}
	return placed
}

// attach adds h to the node's bag unless it was the last record added there.
func (t *trie) attach(n nodeID, h hasharray.Handle) bool {
	recs := t.nodes[n].records
	if k := len(recs); k > 0 && recs[k-1] == h {
		return false
	}
	t.nodes[n].records = append(recs, h)
	return true
}

// walkState is a trie node paired with the byte offset of the query
// consumed to reach it.
type walkState struct {
	n   nodeID
	pos int
}

// search returns the distinct records reachable through word, in the order
// they were first attached to its node. A stored rune c matches any
// string alternatives(c) returns, so the query "ae" reaches a word stored
// with "æ". A query that ends inside a multi-rune alternate stops at the
// node holding c. Equivalence is applied while walking, so each indexed
// word costs one node per rune. Records reached through several nodes are
// merged in handle order.
func (t *trie) search(word string, alternatives func(rune) []string) []hasharray.Handle {
	if word == "" {
		return nil
	}

	var final []nodeID
	reached := make(map[nodeID]struct{})
	finish := func(n nodeID) {
		if _, dup := reached[n]; !dup {
			reached[n] = struct{}{}
			final = append(final, n)
		}
	}

	seen := map[walkState]struct{}{{root, 0}: {}}
	frontier := []walkState{{root, 0}}
	for len(frontier) > 0 {
		st := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		rest := word[st.pos:]

		for c, id := range t.nodes[st.n].children {
			for _, alt := range alternatives(c) {
				switch {
				case strings.HasPrefix(rest, alt):
					next := walkState{id, st.pos + len(alt)}
					if next.pos == len(word) {
						finish(id)
						continue
					}
					if _, dup := seen[next]; !dup {
						seen[next] = struct{}{}
						frontier = append(frontier, next)
					}
				case strings.HasPrefix(alt, rest):
					finish(id)
				}
			}
		}
	}

	if len(final) == 0 {
		return nil
	}
	out := t.collect(final)
	if len(final) > 1 {
		slices.Sort(out)
	}
	return out
}

// collect returns the distinct records held by nodes, in bag order.
func (t *trie) collect(nodes []nodeID) []hasharray.Handle {
	var out []hasharray.Handle
	seen := make(map[hasharray.Handle]struct{})
	for _, n := range nodes {
		for _, h := range t.nodes[n].records {
			if _, dup := seen[h]; dup {
				continue
			}
			seen[h] = struct{}{}
			out = append(out, h)
		}
	}
	return out
}

// detach removes h from every listed node and prunes nodes left empty.
// A node's bag is a superset of every bag below it, so an empty node has an
// empty subtree.
func (t *trie) detach(h hasharray.Handle, nodes []nodeID) {
	for _, n := range nodes {
		if !t.nodes[n].live {
			continue
		}
		t.nodes[n].records = slices.DeleteFunc(t.nodes[n].records, func(x hasharray.Handle) bool {
			return x == h
		})
	}
	for _, n := range nodes {
		if t.nodes[n].live && len(t.nodes[n].records) == 0 {
			t.prune(n)
		}
	}
}

// prune unlinks n from its parent and frees its subtree.
func (t *trie) prune(n nodeID) {
	p := t.nodes[n].parent
	if t.nodes[p].live {
		delete(t.nodes[p].children, t.nodes[n].char)
	}

	stack := []nodeID{n}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range t.nodes[id].children {
			stack = append(stack, c)
		}
		t.nodes[id] = node{}
		t.free = append(t.free, id)
	}
}
