package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/macrograph/pkg/adapters/file"
	"github.com/aretw0/macrograph/pkg/domain"
	contract "github.com/aretw0/macrograph/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlGraph = `
name: accept-dialog
nodes:
  - id: watch
    kind: observer
    label: dialog appears
    observer:
      type: region
      args:
        region: [100, 100, 400, 300]
        threshold: 50
  - id: accept
    kind: action
    actions:
      - type: click
        args: {x: 320, y: 280}
      - type: wait
        args: {duration: 200ms}
edges:
  - {from: watch, to: accept}
  - {from: accept, to: watch}
`

const jsonGraph = `{
  "nodes": [
    {"id": "watch", "kind": "observer", "observer": {"type": "region", "args": {"region": [0, 0, 5, 5], "threshold": 2.5}}},
    {"id": "accept", "kind": "action", "actions": [{"type": "click", "args": {"x": 3, "y": 4}}]}
  ],
  "edges": [{"from": "watch", "to": "accept"}]
}`

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_YAML(t *testing.T) {
	l := file.NewLoader(write(t, "macro.yaml", yamlGraph))

	g, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "accept-dialog", g.Name)
	require.Len(t, g.Nodes, 2)
	assert.Equal(t, "dialog appears", g.Nodes[0].Label)
	assert.Equal(t, "region", g.Nodes[0].Observer.Type)
	assert.Equal(t, 50, g.Nodes[0].Observer.Args["threshold"])
	assert.Equal(t, "200ms", g.Nodes[1].Actions[1].Args["duration"])

	contract.GraphLoaderContractTest(t, l, g)
}

func TestLoader_JSON(t *testing.T) {
	l := file.NewLoader(write(t, "dialog.json", jsonGraph))

	g, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "dialog", g.Name, "name falls back to the file name")
	assert.Equal(t, []any{0, 0, 5, 5}, g.Nodes[0].Observer.Args["region"])
	assert.Equal(t, 2.5, g.Nodes[0].Observer.Args["threshold"])
	assert.Equal(t, 3, g.Nodes[1].Actions[0].Args["x"])
}

func TestLoader_Errors(t *testing.T) {
	_, err := file.NewLoader(filepath.Join(t.TempDir(), "missing.yaml")).Load(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = file.NewLoader(write(t, "bad.yaml", "nodes: [\n")).Load(context.Background())
	assert.Error(t, err)

	_, err = file.NewLoader(write(t, "typo.yaml", "nodez: []\n")).Load(context.Background())
	assert.Error(t, err, "unknown fields are rejected")
}

func TestLoader_SaveRoundTrip(t *testing.T) {
	for _, name := range []string{"out.yaml", "out.json"} {
		t.Run(name, func(t *testing.T) {
			src, err := file.NewLoader(write(t, "in.yaml", yamlGraph)).Load(context.Background())
			require.NoError(t, err)

			out := file.NewLoader(filepath.Join(t.TempDir(), name))
			require.NoError(t, out.Save(context.Background(), src))

			got, err := out.Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, src.Name, got.Name)
			assert.Equal(t, src.Edges, got.Edges)
			require.Len(t, got.Nodes, len(src.Nodes))
			assert.Equal(t, domain.NodeObserver, got.Nodes[0].Kind)
			assert.Equal(t, 320, got.Nodes[1].Actions[0].Args["x"])
		})
	}
}
