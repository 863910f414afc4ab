package tree

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/yoshoku/rumale/pkg/errors"
)

// exportFormats maps filename extensions to graphviz render formats.
var exportFormats = map[string]graphviz.Format{
	".png": graphviz.PNG,
	".svg": graphviz.SVG,
	".jpg": graphviz.JPG,
}

func drawNode(g *cgraph.Graph, nd *node, id int, parent *cgraph.Node, featureNames []string) (int, error) {
	current, err := g.CreateNodeByName(fmt.Sprintf("n%d", id))
	if err != nil {
		return id, errors.Wrap(err, "graphviz node creation failed")
	}
	if parent != nil {
		if _, err := g.CreateEdgeByName("", parent, current); err != nil {
			return id, errors.Wrap(err, "graphviz edge creation failed")
		}
	}

	next := id + 1
	if nd.leaf {
		current.Set("label", leafLabel(nd))
		current.Set("shape", "box")
		return next, nil
	}

	name := fmt.Sprintf("x[%d]", nd.splitFeature)
	if nd.splitFeature < len(featureNames) {
		name = featureNames[nd.splitFeature]
	}
	current.Set("label", fmt.Sprintf("%s <= %.4g\nsamples = %d\nimpurity = %.4g",
		name, nd.threshold, nd.samples, nd.impurity))

	next, err = drawNode(g, nd.left, next, current, featureNames)
	if err != nil {
		return next, err
	}
	return drawNode(g, nd.right, next, current, featureNames)
}

func leafLabel(nd *node) string {
	parts := make([]string, len(nd.value))
	for i, v := range nd.value {
		parts[i] = fmt.Sprintf("%.4g", v)
	}
	label := fmt.Sprintf("value = [%s]\nsamples = %d", strings.Join(parts, ", "), nd.samples)
	if nd.classCounts != nil {
		counts := make([]string, len(nd.classCounts))
		for i, c := range nd.classCounts {
			counts[i] = fmt.Sprint(c)
		}
		label += fmt.Sprintf("\ncounts = [%s]", strings.Join(counts, ", "))
	}
	return label
}

// exportTree renders a fitted tree to path. The output format follows the
// filename extension.
func exportTree(root *node, path string, featureNames []string) error {
	const op = "ExportGraphviz"
	if root == nil {
		return errors.NewNotFittedError("tree", op)
	}
	format, ok := exportFormats[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return errors.NewValueError(op, fmt.Sprintf("unsupported output format %q", filepath.Ext(path)))
	}

	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return errors.Wrap(err, "graphviz graph creation failed")
	}
	graph, err := gv.Graph()
	if err != nil {
		return errors.Wrap(err, "graphviz graph creation failed")
	}
	if _, err := drawNode(graph, root, 0, nil, featureNames); err != nil {
		return err
	}
	// graphviz.RenderFilename cannot write host files from the wasm sandbox,
	// so render through the writer API into the target file instead.
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "graphviz render failed")
	}
	if err := gv.Render(ctx, graph, format, f); err != nil {
		f.Close()
		return errors.Wrap(err, "graphviz render failed")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "graphviz render failed")
	}
	return nil
}

// ExportGraphviz renders the fitted tree to path as png, svg or jpg,
// chosen by the filename extension. featureNames label split nodes and may
// be nil.
func (t *DecisionTreeClassifier) ExportGraphviz(path string, featureNames []string) error {
	return exportTree(t.root, path, featureNames)
}

// ExportGraphviz renders the fitted tree to path. See
// DecisionTreeClassifier.ExportGraphviz.
func (t *DecisionTreeRegressor) ExportGraphviz(path string, featureNames []string) error {
	return exportTree(t.root, path, featureNames)
}

// ExportGraphviz renders the fitted tree to path. See
// DecisionTreeClassifier.ExportGraphviz.
func (t *GradientTreeRegressor) ExportGraphviz(path string, featureNames []string) error {
	return exportTree(t.root, path, featureNames)
}
