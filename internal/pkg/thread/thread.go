// Package thread 把按创建时间排好序的扁平回复列表组装成回复树。
package thread

import (
	"github.com/qs3c/forum_server/internal/model"
)

// Node 回复树节点
type Node struct {
	*model.Reply
	Children []*Node `json:"children"`
}

// Build 将扁平回复组装为森林并返回根节点。
//
// 父回复不存在（已删除或属于其他帖子）以及指向自身的回复都作为根节点，
// 保证每条回复恰好出现一次。子节点保持输入顺序。
func Build(replies []*model.Reply) []*Node {
	nodes := make([]*Node, len(replies))
	byID := make(map[int64]*Node, len(replies))
	for i, r := range replies {
		n := &Node{Reply: r, Children: []*Node{}}
		nodes[i] = n
		if _, dup := byID[r.ID]; !dup {
			byID[r.ID] = n
		}
	}

	roots := make([]*Node, 0)
	parentOf := make(map[*Node]*Node, len(replies))
	for _, n := range nodes {
		pid := n.ParentReplyID
		if pid == nil || *pid == n.ID {
			roots = append(roots, n)
			continue
		}
		parent, ok := byID[*pid]
		if !ok {
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
		parentOf[n] = parent
	}

	// 环状引用的节点从根不可达，按输入顺序把环上第一个节点提升为根
	if len(parentOf) == 0 {
		return roots
	}
	reached := make(map[*Node]bool, len(nodes))
	mark := func(n *Node, _ *Node, _ int) { reached[n] = true }
	Walk(roots, mark)
	if len(reached) == len(nodes) {
		return roots
	}
	for _, n := range nodes {
		if reached[n] {
			continue
		}
		detach(parentOf[n], n)
		roots = append(roots, n)
		Walk([]*Node{n}, mark)
	}
	return roots
}

func detach(parent, child *Node) {
	if parent == nil {
		return
	}
	for i, c := range parent.Children {
		if c == child {
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			return
		}
	}
}

// Walk 先序遍历，fn 的 parent 对根节点为 nil，depth 从 0 开始
func Walk(roots []*Node, fn func(n, parent *Node, depth int)) {
	type frame struct {
		node   *Node
		parent *Node
		depth  int
	}
	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: roots[i]})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(f.node, f.parent, f.depth)
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: f.node.Children[i], parent: f.node, depth: f.depth + 1})
		}
	}
}

// Count 森林中的节点总数
func Count(roots []*Node) int {
	total := 0
	Walk(roots, func(*Node, *Node, int) { total++ })
	return total
}
