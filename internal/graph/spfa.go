package graph

import (
	"math"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Whisker17/triangular-arbitrage-demo/internal/market"
)

// FindArbitrageCycles runs SPFA negative-cycle detection from the base token
// and converts every surviving cycle into an ArbitragePath. A base token
// that was never added to the graph yields no cycles, not an error.
func (g *TokenGraph) FindArbitrageCycles(maxHops int) []*market.ArbitragePath {
	baseHandle, ok := g.index[g.base.Address]
	if !ok {
		return nil
	}

	var paths []*market.ArbitragePath
	for _, nodePath := range g.detectNegativeCycles(baseHandle, maxHops) {
		if path, ok := g.convertNodePath(nodePath); ok {
			paths = append(paths, path)
		}
	}
	return paths
}

// detectNegativeCycles is the label-correcting core. Unlike Bellman-Ford's
// fixed |V|-1 pass bound, a per-node relaxation counter pinpoints the nodes
// that sit on a negative cycle, which is what cycle extraction needs as a
// starting point.
func (g *TokenGraph) detectNegativeCycles(source, maxHops int) [][]int {
	n := len(g.nodes)
	if n == 0 {
		return nil
	}

	dist := make([]float64, n)
	pred := make([]int, n)
	inQueue := make([]bool, n)
	counts := make([]int, n)
	for i := range dist {
		dist[i] = math.Inf(1)
		pred[i] = -1
	}
	dist[source] = 0

	queue := []int{source}
	inQueue[source] = true
	counts[source] = 1

	flagged := make(map[int]struct{})

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		inQueue[current] = false

		// a node popped more than |V| times can only be fed by a negative
		// cycle; stop relaxing it so the queue drains
		if counts[current] > n {
			flagged[current] = struct{}{}
			continue
		}

		for _, edge := range g.out[current] {
			candidate := dist[current] + edge.weight
			if candidate < dist[edge.to] {
				dist[edge.to] = candidate
				pred[edge.to] = current

				if !inQueue[edge.to] {
					queue = append(queue, edge.to)
					inQueue[edge.to] = true
					counts[edge.to]++
					if counts[edge.to] > n {
						flagged[edge.to] = struct{}{}
					}
				}
			}
		}
	}

	if len(flagged) == 0 {
		return nil
	}
	return g.extractNegativeCycles(flagged, pred, maxHops)
}

// extractNegativeCycles walks predecessors from every flagged node and keeps
// only cycles of valid length that start and end at the base token. Several
// flagged nodes may reconstruct the same cycle; callers see each survivor.
func (g *TokenGraph) extractNegativeCycles(flagged map[int]struct{}, pred []int, maxHops int) [][]int {
	baseHandle, ok := g.index[g.base.Address]
	if !ok {
		return nil
	}

	var cycles [][]int
	for node := range flagged {
		cycle := g.reconstructCycle(node, pred, baseHandle, maxHops)
		if cycle == nil {
			continue
		}
		if len(cycle) >= 4 && len(cycle) <= maxHops+1 &&
			cycle[0] == baseHandle && cycle[len(cycle)-1] == baseHandle {
			cycles = append(cycles, cycle)
		}
	}
	return cycles
}

// reconstructCycle follows predecessors backward until a node repeats, which
// closes the cycle, then anchors the result at the base token.
func (g *TokenGraph) reconstructCycle(start int, pred []int, baseHandle, maxHops int) []int {
	var path []int
	visited := make(map[int]bool)
	current := start

	for {
		if visited[current] {
			pos := -1
			for i, node := range path {
				if node == current {
					pos = i
					break
				}
			}
			if pos < 0 {
				return nil
			}
			cycle := make([]int, 0, len(path)-pos+1)
			cycle = append(cycle, path[pos:]...)
			cycle = append(cycle, current)

			if !containsHandle(cycle, baseHandle) {
				return g.extendCycleToBase(cycle, baseHandle, maxHops)
			}
			return rotateCycleToBase(cycle, baseHandle)
		}

		visited[current] = true
		path = append(path, current)

		if pred[current] < 0 {
			return nil
		}
		current = pred[current]

		if len(path) > maxHops*2 {
			return nil
		}
	}
}

// extendCycleToBase splices the base token onto a cycle that doesn't touch
// it, when a direct edge exists into the cycle and another one back out.
// This is best-effort: cycles only reachable through longer reconnection
// paths are missed, which is a known incompleteness of the extraction.
func (g *TokenGraph) extendCycleToBase(cycle []int, baseHandle, maxHops int) []int {
	for _, cycleNode := range cycle {
		if _, ok := g.edges[edgeKey{from: baseHandle, to: cycleNode}]; !ok {
			continue
		}
		last := cycle[len(cycle)-1]
		if _, ok := g.edges[edgeKey{from: last, to: baseHandle}]; !ok {
			continue
		}
		extended := make([]int, 0, len(cycle)+2)
		extended = append(extended, baseHandle)
		extended = append(extended, cycle...)
		extended = append(extended, baseHandle)
		if len(extended) <= maxHops+1 {
			return extended
		}
	}
	return nil
}

// rotateCycleToBase rotates a closed cycle so it starts at the base token
// and closes back on it.
func rotateCycleToBase(cycle []int, baseHandle int) []int {
	pos := -1
	for i, node := range cycle {
		if node == baseHandle {
			pos = i
			break
		}
	}
	if pos < 0 {
		return nil
	}

	rotated := make([]int, 0, len(cycle)+1)
	rotated = append(rotated, cycle[pos:]...)
	rotated = append(rotated, cycle[:pos]...)
	if rotated[len(rotated)-1] != baseHandle {
		rotated = append(rotated, baseHandle)
	}
	return rotated
}

// convertNodePath maps node handles back to tokens and resolves the pool for
// every consecutive pair. Any unresolvable hop discards the candidate.
func (g *TokenGraph) convertNodePath(nodePath []int) (*market.ArbitragePath, bool) {
	if len(nodePath) < 3 {
		return nil, false
	}

	tokens := make([]market.Token, len(nodePath))
	for i, handle := range nodePath {
		tokens[i] = g.nodes[handle]
	}

	pools := make([]common.Address, 0, len(nodePath)-1)
	for i := 0; i < len(nodePath)-1; i++ {
		edge, ok := g.edges[edgeKey{from: nodePath[i], to: nodePath[i+1]}]
		if !ok {
			return nil, false
		}
		pools = append(pools, edge.poolAddress)
	}

	return market.NewArbitragePath(tokens, pools), true
}

func containsHandle(nodes []int, handle int) bool {
	for _, n := range nodes {
		if n == handle {
			return true
		}
	}
	return false
}
