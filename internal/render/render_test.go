package render

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ringData struct {
	Progress, Completed, Total int
	Radius                     float64
	Circumference, DashOffset  float64
}

func TestRender_ProgressRing(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)

	out, err := r.Render(context.Background(), "progress", ringData{
		Progress: 50, Completed: 1, Total: 2, Radius: 35,
		Circumference: 219.91, DashOffset: 109.96,
	})
	require.NoError(t, err)
	assert.Contains(t, out.HTML, `data-progress="50"`)
	assert.Contains(t, out.HTML, `r="35"`)
	assert.Contains(t, out.HTML, `stroke-dasharray="219.91"`)
	assert.Contains(t, out.HTML, `stroke-dashoffset="109.96"`)
	assert.Empty(t, out.JS)
}

func TestRender_UnknownTemplate(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)

	_, err = r.Render(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestRender_CancelledContext(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.Render(ctx, "progress", ringData{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRender_SectionEscapesName(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)

	out, err := r.Render(context.Background(), "section", SectionCard{ID: 4, Number: 1, Name: "<b>Cells</b>"})
	require.NoError(t, err)
	assert.Contains(t, out.HTML, `data-region="courseprogress"`)
	assert.Contains(t, out.HTML, `data-id="4"`)
	assert.Contains(t, out.HTML, "&lt;b&gt;Cells&lt;/b&gt;")
	assert.NotContains(t, out.HTML, "<svg", "no ring without progress data")
}

func TestPage_FindAndContainers(t *testing.T) {
	p := NewPage()
	p.Add("courseprogress", "1", map[string]string{"progress": "10"})
	p.Add("courseprogress", "2", nil)
	p.Add("content", "", nil)

	assert.Len(t, p.Containers("courseprogress"), 2)
	n, ok := p.Find("courseprogress", "1")
	require.True(t, ok)
	assert.Equal(t, "10", n.Data("progress"))

	_, ok = p.Find("courseprogress", "3")
	assert.False(t, ok)
}

func TestNode_ReplaceNodeDropsData(t *testing.T) {
	n := NewPage().Add("courseprogress", "1", map[string]string{"progress": "10"})

	n.ReplaceContents(Rendered{HTML: "<p>a</p>"})
	assert.Equal(t, "10", n.Data("progress"))

	n.ReplaceNode(Rendered{HTML: "<p>b</p>", JS: "x()"})
	assert.Empty(t, n.Data("progress"))
	assert.Equal(t, "<p>b</p>", n.HTML())
	assert.Equal(t, "x()", n.JS())
	assert.Equal(t, 2, n.Mutations())
}

func TestNode_ConcurrentWrites(t *testing.T) {
	n := NewPage().Add("courseprogress", "1", nil)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n.SetData("progress", "5")
			n.ReplaceContents(Rendered{HTML: "x"})
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, n.Mutations())
}
