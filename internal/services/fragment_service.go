package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/carslab/funnel-api/config"
	"github.com/carslab/funnel-api/internal/cache"
	"github.com/carslab/funnel-api/internal/models"
	"github.com/carslab/funnel-api/internal/repository"
	"github.com/carslab/funnel-api/pkg/logger"
	"github.com/carslab/funnel-api/pkg/metrics"
)

// fragmentPaths maps fragment names to their files under the fragments dir.
// The set and order is the landing page's render order.
var fragmentPaths = map[string]string{
	"formDialog":   "index-components/form-dialog.html",
	"header":       "index-components/header.html",
	"hero":         "index-components/hero.html",
	"aboutProduct": "index-components/about-product.html",
	"whyItWorks":   "index-components/why-it-works.html",
	"faq":          "index-components/faq.html",
	"bonus":        "index-components/bonus.html",
	"instructor":   "index-components/instructor.html",
	"footer":       "footer.html",
}

// pageOrder is the render order of fragments on the landing page.
var pageOrder = []string{
	"formDialog", "header", "hero", "aboutProduct",
	"whyItWorks", "faq", "bonus", "instructor", "footer",
}

// ErrUnknownFragment is returned when a fragment name is not part of the page
var ErrUnknownFragment = errors.New("unknown fragment")

const primaryButtonClasses = "bg-primary text-white p-6 rounded-md inline-block " +
	"transition-all duration-300 hover:bg-primary-dark hover:shadow-lg " +
	"transform hover:-translate-y-1 cursor-pointer"

// FragmentService delivers landing-page fragments with placeholders
// expanded server-side: primary-button placeholders become real buttons and
// legal-link placeholders get their configured destinations.
type FragmentService struct {
	source repository.FragmentSource
	cache  *cache.FragmentCache
	config *config.Config
}

// NewFragmentService creates a new fragment service instance
func NewFragmentService(source repository.FragmentSource, fragmentCache *cache.FragmentCache, cfg *config.Config) *FragmentService {
	return &FragmentService{
		source: source,
		cache:  fragmentCache,
		config: cfg,
	}
}

// Load returns one fragment by name, rendered and cached
func (s *FragmentService) Load(ctx context.Context, name string) (*models.Fragment, error) {
	path, ok := fragmentPaths[name]
	if !ok {
		metrics.FragmentLoads.WithLabelValues(name, "unknown").Inc()
		return nil, fmt.Errorf("%w: %s", ErrUnknownFragment, name)
	}

	if cached, found := s.cache.Get(name); found {
		return &models.Fragment{Name: name, HTML: string(cached)}, nil
	}

	raw, err := s.source.Fetch(ctx, path)
	if err != nil {
		metrics.FragmentLoads.WithLabelValues(name, "error").Inc()
		return nil, fmt.Errorf("failed to load fragment %s: %w", name, err)
	}

	rendered, err := s.render(raw)
	if err != nil {
		metrics.FragmentLoads.WithLabelValues(name, "error").Inc()
		return nil, fmt.Errorf("failed to render fragment %s: %w", name, err)
	}

	metrics.FragmentLoads.WithLabelValues(name, "success").Inc()
	s.cache.Set(name, rendered)

	return &models.Fragment{Name: name, HTML: string(rendered)}, nil
}

// LoadPage returns every fragment of the landing page in render order.
// Fragments load concurrently; one that fails degrades to empty HTML so the
// rest of the page still renders.
func (s *FragmentService) LoadPage(ctx context.Context) *models.PageResponse {
	fragments := make([]models.Fragment, len(pageOrder))

	var wg sync.WaitGroup
	for i, name := range pageOrder {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()

			fragment, err := s.Load(ctx, name)
			if err != nil {
				logger.Warn("Fragment degraded to empty",
					zap.String("fragment", name),
					zap.Error(err))
				fragments[i] = models.Fragment{Name: name, HTML: ""}
				return
			}
			fragments[i] = *fragment
		}(i, name)
	}
	wg.Wait()

	return &models.PageResponse{Fragments: fragments}
}

// render expands placeholders in raw fragment HTML
func (s *FragmentService) render(raw []byte) ([]byte, error) {
	nodes, err := html.ParseFragment(bytes.NewReader(raw), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	for _, node := range nodes {
		s.expand(node)
		if err := html.Render(&buf, node); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// expand walks the node tree and rewrites known placeholders in place
func (s *FragmentService) expand(n *html.Node) {
	if n.Type == html.ElementNode {
		if attrValue(n, "data-component") == "primary-btn" {
			s.expandPrimaryButton(n)
		}
		if legal := attrValue(n, "data-legal-link"); legal != "" {
			s.expandLegalLink(n, legal)
		}
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		s.expand(child)
	}
}

// expandPrimaryButton turns a placeholder div into the call-to-action
// button, carrying the redirect link and target as data attributes the page
// wiring reads at submit time.
func (s *FragmentService) expandPrimaryButton(n *html.Node) {
	text := attrValue(n, "data-text")
	if text == "" {
		text = "Clique aqui"
	}
	link := attrValue(n, "data-link")
	target := attrValue(n, "data-target")
	if target == "" {
		target = "_blank"
	}
	extraClasses := attrValue(n, "data-classes")
	id := attrValue(n, "data-id")
	useDialog := attrValue(n, "data-use-dialog") != "false"

	classes := primaryButtonClasses
	if extraClasses != "" {
		classes = classes + " " + extraClasses
	}

	attrs := []html.Attribute{
		{Key: "class", Val: classes},
		{Key: "type", Val: "button"},
		{Key: "data-redirect-link", Val: link},
		{Key: "data-redirect-target", Val: target},
	}
	if id != "" {
		attrs = append(attrs, html.Attribute{Key: "id", Val: id})
	}
	if useDialog {
		attrs = append(attrs, html.Attribute{Key: "data-opens-dialog", Val: "true"})
	}

	n.Data = "button"
	n.DataAtom = atom.Button
	n.Attr = attrs

	// Replace any placeholder content with the button label
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// expandLegalLink points a legal-link anchor at the configured document
func (s *FragmentService) expandLegalLink(n *html.Node, kind string) {
	var url, text string
	switch kind {
	case "privacy-policy":
		url = s.config.Funnel.PrivacyPolicyURL
		text = "Política de Privacidade"
	case "terms-of-use":
		url = s.config.Funnel.TermsOfUseURL
		text = "Termos de Uso"
	default:
		return
	}
	if url == "" {
		return
	}

	setAttr(n, "href", url)
	setAttr(n, "title", text)

	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return strings.TrimSpace(attr.Val)
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, attr := range n.Attr {
		if attr.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
