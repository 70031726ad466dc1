package element

// TreeNode is a frozen snapshot of one node produced by BuildTree. Index is
// assigned in pre-order during a single walk and does not persist across
// calls - do not cache it beyond the TreeResult that produced it.
type TreeNode struct {
	Index         int
	Role          Role
	Name          string
	Title         string
	Value         string // truncated to 100 chars
	Depth         int
	ChildrenCount int
}

// TreeResult bundles the outcome of one BuildTree call: the owning app
// name, total node count, and the pre-order vector of TreeNode snapshots.
type TreeResult struct {
	AppName string
	Count   int
	Nodes   []TreeNode
}

const maxTreeValueLen = 100

// treeSession keeps the live Element parallel to the TreeResult.Nodes
// vector so ElementByIndex can resolve a snapshot index back to the
// Element that produced it, scoped to the walk that built it.
type treeSession struct {
	elements []*Element
}

// ElementByIndex returns the live Element at the given pre-order index
// from the walk that produced result, or nil if result was not built by
// BuildTree (or idx is out of range).
func (s *treeSession) ElementByIndex(idx int) *Element {
	if s == nil || idx < 0 || idx >= len(s.elements) {
		return nil
	}
	return s.elements[idx]
}

// BuildTree performs one pre-order DFS from root via WalkBounded, truncating
// Value to 100 chars and clamping recursion at maxDepth using strict
// `depth > maxDepth` semantics (maxDepth=0 returns only the root; maxDepth=1
// returns root + immediate children). It returns both the frozen TreeResult
// and a treeSession that lets ElementByIndex resolve a node index back to
// its live Element within this call.
func BuildTree(root *Element, maxDepth int) (TreeResult, *treeSession) {
	session := &treeSession{}
	if root == nil {
		return TreeResult{}, session
	}

	var nodes []TreeNode
	WalkBounded(root, maxDepth, func(e *Element, depth int) bool {
		idx := len(nodes)
		session.elements = append(session.elements, e)
		nodes = append(nodes, TreeNode{
			Index:         idx,
			Role:          e.Role,
			Name:          e.Name,
			Title:         e.Title,
			Value:         truncate(e.Value, maxTreeValueLen),
			Depth:         depth,
			ChildrenCount: len(e.Children),
		})
		return true
	})

	appName := root.Name
	if appName == "" {
		appName = root.Title
	}

	return TreeResult{
		AppName: appName,
		Count:   len(nodes),
		Nodes:   nodes,
	}, session
}
