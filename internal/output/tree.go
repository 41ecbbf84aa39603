package output

import (
	"strings"
)

// TreeRenderOptions configures rendering behavior
type TreeRenderOptions struct {
	// Reverse puts roots at the top instead of the bottom
	Reverse bool
	// Short renders one line per branch
	Short bool
	// Annotations are appended after branch names, e.g. diagnostics for degraded branches
	Annotations map[string]string
}

// ForestRenderer renders branch forests as indented trees
type ForestRenderer struct {
	currentBranch string
	branches      []string
	roots         []string
	getChildren   func(branchName string) []string
	styles        Styles
}

// NewForestRenderer creates a new tree renderer.
// Roots are rendered in the given order; children in the order getChildren returns them.
// Branches not reachable from any root are rendered afterwards, in the order of branches.
func NewForestRenderer(
	currentBranch string,
	branches []string,
	roots []string,
	getChildren func(branchName string) []string,
	styles Styles,
) *ForestRenderer {
	return &ForestRenderer{
		currentBranch: currentBranch,
		branches:      branches,
		roots:         roots,
		getChildren:   getChildren,
		styles:        styles,
	}
}

type treeRenderArgs struct {
	opts        TreeRenderOptions
	branchName  string
	indentLevel int
	seen        map[string]bool
	children    []string
}

// Render renders every root with its descendants, then any branch left unreached
func (r *ForestRenderer) Render(opts TreeRenderOptions) []string {
	var result []string
	seen := make(map[string]bool)
	for _, branchName := range append(append([]string(nil), r.roots...), r.branches...) {
		result = append(result, r.getInclusiveLines(treeRenderArgs{
			opts:       opts,
			branchName: branchName,
			seen:       seen,
		})...)
	}
	return result
}

// getInclusiveLines returns the lines for a branch and everything stacked on it
func (r *ForestRenderer) getInclusiveLines(args treeRenderArgs) []string {
	if args.seen[args.branchName] {
		return nil
	}
	args.seen[args.branchName] = true

	// Children already drawn elsewhere are left out, so every branch appears once
	for _, child := range r.getChildren(args.branchName) {
		if !args.seen[child] {
			args.children = append(args.children, child)
		}
	}

	outputDeep := [][]string{
		r.getExclusiveLines(args),
		r.getBranchLines(args),
	}

	if args.opts.Reverse {
		outputDeep[0], outputDeep[1] = outputDeep[1], outputDeep[0]
	}

	var result []string
	for _, section := range outputDeep {
		result = append(result, section...)
	}
	return result
}

// getExclusiveLines returns the lines for the descendants of a branch
func (r *ForestRenderer) getExclusiveLines(args treeRenderArgs) []string {
	numChildren := len(args.children)

	var result []string
	for i, child := range args.children {
		childIndent := args.indentLevel + i
		if args.opts.Reverse {
			childIndent = args.indentLevel + (numChildren - i - 1)
		}

		result = append(result, r.getInclusiveLines(treeRenderArgs{
			opts:        args.opts,
			branchName:  child,
			indentLevel: childIndent,
			seen:        args.seen,
		})...)
	}
	return result
}

func (r *ForestRenderer) getBranchLines(args treeRenderArgs) []string {
	numChildren := len(args.children)
	isCurrent := args.branchName == r.currentBranch

	symbol := "◯"
	if isCurrent {
		symbol = "◉"
	}
	label := r.styles.BranchName(args.branchName, isCurrent) + r.annotation(args)

	if args.opts.Short {
		line := r.styles.Dim(strings.Repeat("│ ", args.indentLevel))
		if numChildren > 1 {
			if args.opts.Reverse {
				line += r.styles.Dim(strings.Repeat("─┬", numChildren-2) + "─┐")
			} else {
				line += r.styles.Dim(strings.Repeat("─┴", numChildren-2) + "─┘")
			}
		} else if numChildren == 1 {
			if args.opts.Reverse {
				line += r.styles.Dim("─┐")
			} else {
				line += r.styles.Dim("─┘")
			}
		}
		return []string{line + symbol + "▸" + label}
	}

	var result []string
	if numChildren >= 2 {
		result = append(result, r.getBranchingLine(numChildren, args.opts.Reverse, args.indentLevel))
	}

	prefix := r.styles.Dim(strings.Repeat("│  ", args.indentLevel))
	result = append(result, prefix+symbol+" "+label)
	result = append(result, prefix+r.styles.Dim("│"))

	if args.opts.Reverse {
		for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
			result[i], result[j] = result[j], result[i]
		}
	}
	return result
}

func (r *ForestRenderer) getBranchingLine(numChildren int, reverse bool, indentLevel int) string {
	middle, last := "──┴", "──┘"
	if reverse {
		middle, last = "──┬", "──┐"
	}

	line := strings.Repeat("│  ", indentLevel) + "├"
	if numChildren > 2 {
		line += strings.Repeat(middle, numChildren-2)
	}
	return r.styles.Dim(line + last)
}

func (r *ForestRenderer) annotation(args treeRenderArgs) string {
	text := args.opts.Annotations[args.branchName]
	if text == "" {
		return ""
	}
	return " " + r.styles.Warning("("+text+")")
}
