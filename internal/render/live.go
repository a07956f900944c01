package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/glarch/glarch/internal/hierarchy"
	"github.com/pkg/errors"
	"github.com/rivo/tview"
)

// ErrInterrupted is returned by LiveView.Run when the view is closed before
// the walk finished.
var ErrInterrupted = errors.New("tree view closed before the walk finished")

// WalkFunc runs a hierarchy walk, passing observe to hierarchy.WithObserver.
type WalkFunc func(observe func(parent, child *hierarchy.Node)) (*hierarchy.Node, error)

var kindColors = map[hierarchy.Kind]tcell.Color{
	hierarchy.KindRoot:        tcell.ColorFuchsia,
	hierarchy.KindGroup:       tcell.ColorYellow,
	hierarchy.KindProject:     tcell.ColorTeal,
	hierarchy.KindDepthMarker: tcell.ColorGray,
	hierarchy.KindError:       tcell.ColorRed,
}

var kindIcons = map[hierarchy.Kind]string{
	hierarchy.KindGroup:   "📁 ",
	hierarchy.KindProject: "📦 ",
	hierarchy.KindError:   "⚠ ",
}

// LiveView shows a tree that grows while the walk is running. The walk runs
// on its own goroutine; every node it attaches is mirrored into the view
// through QueueUpdateDraw, so view state is only touched by the UI loop.
type LiveView struct {
	app    *tview.Application
	tree   *tview.TreeView
	status *tview.TextView
	root   *tview.TreeNode

	// nodes is owned by the UI goroutine
	nodes map[*hierarchy.Node]*tview.TreeNode
	quit  chan struct{}
}

// NewLiveView builds the view with title as the root line until the root
// group has been resolved.
func NewLiveView(title string) *LiveView {
	v := &LiveView{
		app:    tview.NewApplication(),
		root:   tview.NewTreeNode(title).SetColor(kindColors[hierarchy.KindRoot]),
		status: tview.NewTextView().SetDynamicColors(true),
		nodes:  make(map[*hierarchy.Node]*tview.TreeNode),
		quit:   make(chan struct{}),
	}
	v.tree = tview.NewTreeView().SetRoot(v.root).SetCurrentNode(v.root)
	v.tree.SetSelectedFunc(func(n *tview.TreeNode) {
		n.SetExpanded(!n.IsExpanded())
	})
	v.tree.SetBorder(true).SetTitle(" glarch ")
	v.status.SetText("[green]walking...[white]  q: quit")

	v.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape || event.Rune() == 'q' {
			v.app.Stop()
			return nil
		}
		return event
	})
	return v
}

// SetScreen replaces the terminal screen, used with a simulation screen in
// tests.
func (v *LiveView) SetScreen(screen tcell.Screen) {
	v.app.SetScreen(screen)
}

func (v *LiveView) closed() bool {
	select {
	case <-v.quit:
		return true
	default:
		return false
	}
}

// observe is handed to the walker. It copies what the view needs before
// queueing, the walker keeps appending to parent.Children meanwhile.
func (v *LiveView) observe(parent, child *hierarchy.Node) {
	if v.closed() {
		return
	}
	parentKind, parentLabel := parent.Kind, parent.Label
	text, color := viewText(child), kindColors[child.Kind]
	v.app.QueueUpdateDraw(func() {
		p, ok := v.nodes[parent]
		if !ok && parentKind == hierarchy.KindRoot {
			p = v.root.SetText("Group: " + parentLabel)
			v.nodes[parent] = p
		}
		if p == nil {
			return
		}
		n := tview.NewTreeNode(text).SetColor(color).SetReference(child)
		v.nodes[child] = n
		p.AddChild(n)
	})
}

func viewText(n *hierarchy.Node) string {
	return kindIcons[n.Kind] + n.Label
}

// Run shows the view and starts walk. It returns the walk's result once the
// user closes the view. Closing early returns ErrInterrupted; the walk
// still runs to completion in the background but is no longer displayed.
func (v *LiveView) Run(walk WalkFunc) (*hierarchy.Node, error) {
	type result struct {
		tree *hierarchy.Node
		err  error
	}
	done := make(chan result, 1)

	go func() {
		tree, err := walk(v.observe)
		done <- result{tree, err}
		if v.closed() {
			return
		}
		v.app.QueueUpdateDraw(func() {
			if err != nil {
				v.status.SetText(fmt.Sprintf("[red]%s[white]  q: quit", tview.Escape(err.Error())))
				return
			}
			v.status.SetText(fmt.Sprintf("[green]done:[white] %s  q: quit", Summary(tree)))
		})
	}()

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.tree, 0, 1, true).
		AddItem(v.status, 1, 0, false)
	runErr := v.app.SetRoot(layout, true).Run()
	close(v.quit)
	if runErr != nil {
		return nil, errors.Wrap(runErr, "running tree view")
	}

	select {
	case r := <-done:
		return r.tree, r.err
	default:
		return nil, ErrInterrupted
	}
}
