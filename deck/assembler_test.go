package deck

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"testing"

	"github.com/raushankrgupta/storedeck/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	rendered []PageOptions
	failOn   int
	closed   bool
}

func (f *fakeRenderer) RenderPDF(ctx context.Context, html string, opts PageOptions) ([]byte, error) {
	f.rendered = append(f.rendered, opts)
	if f.failOn > 0 && len(f.rendered) == f.failOn {
		return nil, errors.New("chrome crashed")
	}
	return []byte(html), nil
}

func (f *fakeRenderer) Close() error {
	f.closed = true
	return nil
}

type fakeMerger struct {
	pages int
	parts int
}

func (f *fakeMerger) Merge(pages [][]byte) ([]byte, error) {
	f.parts = len(pages)
	return []byte("merged"), nil
}

func (f *fakeMerger) PageCount(doc []byte) (int, error) {
	if f.pages > 0 {
		return f.pages, nil
	}
	return f.parts, nil
}

func testInput(n int) Input {
	target, _ := models.NewStoreTarget("https://www.Nala.ro/")
	in := Input{Target: target, ToEmail: "buyer@example.com", Content: models.EnglishContent()}
	for i := 0; i < n; i++ {
		in.Products = append(in.Products, &models.ProductRecord{
			Title:      fmt.Sprintf("Product %d", i+1),
			Price:      100,
			NewPrice:   "80.00",
			ImageMain:  fmt.Sprintf("data:image/jpeg;base64,MAIN%d", i+1),
			ImageThumb: fmt.Sprintf("data:image/jpeg;base64,THUMB%d", i+1),
			Link:       fmt.Sprintf("https://nala.ro/products/p%d", i+1),
		})
	}
	return in
}

func newTestAssembler(t *testing.T, r *fakeRenderer, m Merger) *Assembler {
	t.Helper()
	set, err := LoadTemplates()
	require.NoError(t, err)
	return NewAssembler(set, func(ctx context.Context) (Renderer, error) { return r, nil }, m, Options{AppName: "Wishlist Plus"})
}

func TestPages_OrderAndPairing(t *testing.T) {
	a := newTestAssembler(t, &fakeRenderer{}, &fakeMerger{})
	pages, err := a.Pages(testInput(5))
	require.NoError(t, err)
	require.Len(t, pages, PageCount)

	var names, tmpls []string
	for _, p := range pages {
		names = append(names, p.Name)
		tmpls = append(tmpls, p.Template)
	}
	assert.Equal(t, []string{"intro", "price-drop", "low-stock", "back-in-stock", "wishlist-reminder", "wishlist-incentive", "pos", "closing"}, names)
	assert.Equal(t, []string{TemplateIntro, TemplatePriceDrop, TemplateLowStock, TemplateBackInStock, TemplatePriceDrop, TemplatePriceDrop, TemplatePOS, TemplateExtro}, tmpls)

	assert.Contains(t, pages[0].HTML, "nala.ro")
	for i := 1; i <= 5; i++ {
		assert.Contains(t, pages[i].HTML, fmt.Sprintf("Product %d", i))
		assert.Contains(t, pages[i].HTML, fmt.Sprintf("MAIN%d", i))
		assert.Contains(t, pages[i].HTML, "marketing@nala.ro")
		assert.Contains(t, pages[i].HTML, "buyer@example.com")
		assert.Contains(t, pages[i].HTML, "100.00")
	}
	text := models.EnglishContent().UseCases
	assert.Contains(t, pages[4].HTML, template.HTMLEscapeString(text.WishlistReminder.Headline))
	assert.Contains(t, pages[5].HTML, template.HTMLEscapeString(text.WishlistIncentive.Headline))

	assert.Equal(t, optionsA4, pages[0].Options)
	assert.Equal(t, optionsSquare, pages[1].Options)
	assert.Equal(t, optionsPOS, pages[6].Options)
	assert.Equal(t, optionsA4, pages[7].Options)
}

func TestPages_POSGrid(t *testing.T) {
	a := newTestAssembler(t, &fakeRenderer{}, &fakeMerger{})
	pages, err := a.Pages(testInput(5))
	require.NoError(t, err)
	pos := pages[6].HTML

	assert.Equal(t, 7, strings.Count(pos, `class="product-card"`))
	assert.Equal(t, 1, strings.Count(pos, "THUMB1"))
	for _, thumb := range []string{"THUMB2", "THUMB3", "THUMB4"} {
		assert.Equal(t, 2, strings.Count(pos, thumb), thumb)
	}
	assert.NotContains(t, pos, "THUMB5")
	assert.Contains(t, pos, "Wishlist Plus")
}

func TestPages_TooFewProducts(t *testing.T) {
	a := newTestAssembler(t, &fakeRenderer{}, &fakeMerger{})
	_, err := a.Pages(testInput(4))
	assert.ErrorIs(t, err, ErrTooFewProducts)
}

func TestBuild(t *testing.T) {
	r := &fakeRenderer{}
	m := &fakeMerger{}
	a := newTestAssembler(t, r, m)

	doc, err := a.Build(context.Background(), testInput(6))
	require.NoError(t, err)
	assert.Equal(t, []byte("merged"), doc)
	assert.Len(t, r.rendered, PageCount)
	assert.Equal(t, PageCount, m.parts)
	assert.True(t, r.closed)
}

func TestBuild_RenderFailureIsFatal(t *testing.T) {
	r := &fakeRenderer{failOn: 3}
	a := newTestAssembler(t, r, &fakeMerger{})

	_, err := a.Build(context.Background(), testInput(5))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "low-stock")
	assert.Len(t, r.rendered, 3)
	assert.True(t, r.closed)
}

func TestBuild_PageCountMismatch(t *testing.T) {
	a := newTestAssembler(t, &fakeRenderer{}, &fakeMerger{pages: 9})
	_, err := a.Build(context.Background(), testInput(5))
	assert.ErrorIs(t, err, ErrPageCount)
}

func TestBuild_RendererUnavailable(t *testing.T) {
	set, err := LoadTemplates()
	require.NoError(t, err)
	a := NewAssembler(set, func(ctx context.Context) (Renderer, error) {
		return nil, errors.New("no chrome")
	}, &fakeMerger{}, Options{})

	_, err = a.Build(context.Background(), testInput(5))
	assert.ErrorContains(t, err, "no chrome")
}
