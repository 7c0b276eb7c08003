package shopify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/raushankrgupta/storedeck/images"
	"github.com/raushankrgupta/storedeck/scrapers"
	"github.com/raushankrgupta/storedeck/scrapers/base"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeriver struct {
	err   error
	calls []string
}

func (f *fakeDeriver) DeriveVariants(data []byte, baseName string) (*images.Variants, error) {
	f.calls = append(f.calls, baseName)
	if f.err != nil {
		return nil, f.err
	}
	return &images.Variants{Main: []byte("main"), Thumb: []byte("thumb")}, nil
}

func newTestScraper(ceiling int, deriver VariantDeriver) *ShopifyScraper {
	return NewShopifyScraper(base.NewBaseScraper(base.Options{}), Options{
		PlatformSuffix:    ".myshopify.com",
		ExclusionKeywords: []string{"gift", "voucher", "gift-card", "gift-voucher"},
		LinkCeiling:       ceiling,
		DiscountRate:      0.20,
		Images:            deriver,
	})
}

const collectionPage = `<!doctype html><html lang="ro"><body>
<a href="/products/shirt">Blue Shirt</a>
<a href="/products/shirt">Blue Shirt again</a>
<a href="/products/giftcard">Gift Card</a>
<div class="frenzy_product_item"><a href="/products/voucher-50"><img src="x.jpg"></a><span>Store VOUCHER 50</span></div>
<div class="frenzy_product_item"><a href="/products/mug"><img src="m.jpg"></a><span>Coffee Mug</span></div>
<a href="https://cdn.example.com/products/hat">Hat</a>
<a href="/pages/about">About</a>
</body></html>`

func storeServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/collections/new", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	mux.HandleFunc("/collections/all", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, collectionPage)
	})
	mux.HandleFunc("/shop", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html lang="en"><body><a href="/products/socks">Socks</a><a href="/products/mug">Mug</a></body></html>`)
	})
	return httptest.NewServer(mux)
}

func TestDiscoverProducts(t *testing.T) {
	srv := storeServer(t)
	defer srv.Close()

	s := newTestScraper(25, &fakeDeriver{})
	candidates := []string{srv.URL + "/collections/new", srv.URL + "/collections/all", srv.URL + "/shop"}

	got, err := s.DiscoverProducts(context.Background(), candidates)
	require.NoError(t, err)

	assert.Equal(t, "ro", got.Language)
	assert.Equal(t, []string{
		srv.URL + "/products/shirt",
		srv.URL + "/products/mug",
		"https://cdn.example.com/products/hat",
		srv.URL + "/products/socks",
	}, got.URLs())
	require.Len(t, got.Excluded, 2)
	assert.Equal(t, srv.URL+"/products/giftcard", got.Excluded[0].URL)
	assert.Equal(t, srv.URL+"/products/voucher-50", got.Excluded[1].URL)
	assert.True(t, got.Excluded[0].Excluded)
	assert.Equal(t, []string{srv.URL + "/collections/all", srv.URL + "/shop"}, got.Visited)
}

func TestDiscoverProductsIsIdempotent(t *testing.T) {
	srv := storeServer(t)
	defer srv.Close()

	s := newTestScraper(25, &fakeDeriver{})
	candidates := []string{srv.URL + "/collections/all", srv.URL + "/shop"}

	first, err := s.DiscoverProducts(context.Background(), candidates)
	require.NoError(t, err)
	second, err := s.DiscoverProducts(context.Background(), candidates)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDiscoverProductsStopsAtCeiling(t *testing.T) {
	srv := storeServer(t)
	defer srv.Close()

	s := newTestScraper(2, &fakeDeriver{})
	candidates := []string{srv.URL + "/collections/all", srv.URL + "/shop"}

	got, err := s.DiscoverProducts(context.Background(), candidates)
	require.NoError(t, err)
	assert.Len(t, got.Links, 2)
	assert.Equal(t, []string{srv.URL + "/collections/all"}, got.Visited)
}

func TestDiscoverProductsIgnoresQueryAndFragment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
<a href="/products/x?variant=1">X small</a>
<a href="/products/x">X</a>
<a href="/products/y#top">Y</a>
<a href="/products/giftcard?ref=nav">Gift Card</a>
<a href="/products/giftcard">Gift Card</a>
</body></html>`)
	}))
	defer srv.Close()

	got, err := newTestScraper(25, &fakeDeriver{}).DiscoverProducts(context.Background(), []string{srv.URL + "/"})
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/products/x", srv.URL + "/products/y"}, got.URLs())
	require.Len(t, got.Excluded, 1)
	assert.Equal(t, srv.URL+"/products/giftcard", got.Excluded[0].URL)
}

func TestDiscoverProductsLanguageNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><a href="/products/a">A</a></body></html>`)
	}))
	defer srv.Close()

	got, err := newTestScraper(25, &fakeDeriver{}).DiscoverProducts(context.Background(), []string{srv.URL + "/"})
	require.NoError(t, err)
	assert.Equal(t, "Not found", got.Language)
}

func TestJSONEndpoint(t *testing.T) {
	assert.Equal(t, "https://s.com/products/a.json", JSONEndpoint("https://s.com/products/a"))
	assert.Equal(t, "https://s.com/products/a.json", JSONEndpoint("https://s.com/products/a.json"))
	assert.Equal(t, "https://s.com/products/a.json?variant=1", JSONEndpoint("https://s.com/products/a?variant=1"))
}

func productServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	json := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			fmt.Fprint(w, body)
		}
	}
	mux.HandleFunc("/products/ok.json", json(`{"product":{"title":"Blue Shirt","variants":[{"price":"19.99"}],"images":[{"src":"/img/shirt.jpg"}]}}`))
	mux.HandleFunc("/products/free.json", json(`{"product":{"title":"Free","variants":[{"price":"0.00"}],"images":[{"src":"/img/shirt.jpg"}]}}`))
	mux.HandleFunc("/products/untitled.json", json(`{"product":{"title":"","variants":[{"price":"5"}],"images":[{"src":"/img/shirt.jpg"}]}}`))
	mux.HandleFunc("/products/noimage.json", json(`{"product":{"title":"No Image","variants":[{"price":"5"}],"images":[]}}`))
	mux.HandleFunc("/products/noproduct.json", json(`{"products":[]}`))
	mux.HandleFunc("/products/broken.json", json(`{"product":`))
	mux.HandleFunc("/products/html.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html>password page</html>")
	})
	mux.HandleFunc("/products/missing-image.json", json(`{"product":{"title":"Ghost","variants":[{"price":"5"}],"images":[{"src":"/img/404.jpg"}]}}`))
	mux.HandleFunc("/img/shirt.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("jpeg bytes"))
	})
	return httptest.NewServer(mux)
}

func TestScrapeProduct(t *testing.T) {
	srv := productServer(t)
	defer srv.Close()

	deriver := &fakeDeriver{}
	s := newTestScraper(25, deriver)

	rec, err := s.ScrapeProduct(context.Background(), srv.URL+"/products/ok")
	require.NoError(t, err)
	assert.Equal(t, "Blue Shirt", rec.Title)
	assert.Equal(t, 19.99, rec.Price)
	assert.Equal(t, "15.99", rec.NewPrice)
	assert.Equal(t, srv.URL+"/products/ok", rec.Link)
	assert.Equal(t, "data:image/jpeg;base64,bWFpbg==", rec.ImageMain)
	assert.Equal(t, "data:image/jpeg;base64,dGh1bWI=", rec.ImageThumb)
	assert.Equal(t, []string{"Blue Shirt"}, deriver.calls)
}

func TestScrapeProductRejections(t *testing.T) {
	srv := productServer(t)
	defer srv.Close()

	s := newTestScraper(25, &fakeDeriver{})
	for _, name := range []string{"free", "untitled", "noimage", "noproduct", "broken", "html", "does-not-exist"} {
		t.Run(name, func(t *testing.T) {
			_, err := s.ScrapeProduct(context.Background(), srv.URL+"/products/"+name)
			assert.ErrorIs(t, err, scrapers.ErrInvalidProduct)
			assert.NotErrorIs(t, err, scrapers.ErrImage)
		})
	}
}

func TestScrapeProductImageFailures(t *testing.T) {
	srv := productServer(t)
	defer srv.Close()

	_, err := newTestScraper(25, &fakeDeriver{}).ScrapeProduct(context.Background(), srv.URL+"/products/missing-image")
	assert.ErrorIs(t, err, scrapers.ErrInvalidProduct)
	assert.NotErrorIs(t, err, scrapers.ErrImage)

	_, err = newTestScraper(25, &fakeDeriver{err: errors.New("bad jpeg")}).ScrapeProduct(context.Background(), srv.URL+"/products/ok")
	assert.ErrorIs(t, err, scrapers.ErrImage)
}

func TestToneSample(t *testing.T) {
	long := "We make slow fashion for people who care about where their clothes come from and who made them."
	mux := http.NewServeMux()
	mux.HandleFunc("/pages/about", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><p>Too short.</p></body></html>")
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "<html><body><p>%s</p>\n\n   <p>Since 2012.</p></body></html>", long)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	got := newTestScraper(25, &fakeDeriver{}).ToneSample(context.Background(), srv.URL)
	assert.Equal(t, long+"Since 2012....", got)
}

func TestToneSampleFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	got := newTestScraper(25, &fakeDeriver{}).ToneSample(context.Background(), srv.URL)
	assert.Equal(t, "No descriptive text found.", got)
}
