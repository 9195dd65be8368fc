package flatmapsvg

// unionFind over curve indexes, with path compression.
type unionFind struct {
	parent []int
}

func newUnionFind(size int) *unionFind {
	uf := &unionFind{parent: make([]int, size)}
	for i := range uf.parent {
		uf.parent[i] = -1
	}

	return uf
}

func (uf *unionFind) find(i int) int {
	if uf.parent[i] == -1 {
		return i
	}

	uf.parent[i] = uf.find(uf.parent[i])
	return uf.parent[i]
}

func (uf *unionFind) union(i, j int) int {
	rootI := uf.find(i)
	rootJ := uf.find(j)
	if rootI != rootJ {
		uf.parent[rootI] = rootJ
		return rootJ
	}

	return rootI
}
