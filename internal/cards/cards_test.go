package cards

import (
	"reflect"
	"strings"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html><body>
<main class="grid">
  <article class="project-item" data-category="Graphic"
           data-title="Poster Series"
           data-desc="Silkscreen posters"
           data-images='["work/posters/a.jpg","work/posters/b.jpg"]'>
    <h3>ignored heading</h3>
  </article>
  <article class="project-item" data-category="editorial"
           data-gallery="work/zine"
           data-youtube="https://youtu.be/dQw4w9WgXcQ">
    <h3>Zine</h3>
    <p>Riso-printed zine</p>
  </article>
  <article class="project-item"
           data-pattern='{"basePath":"work/expo","indexPad":2,"startIndex":1,"extensions":["webp","jpg"],"maxCount":12}'>
    <h3>Exhibition</h3>
  </article>
  <article class="project-item" data-thumb="covers/special.png" data-images='not json'>
    <h3>Broken list</h3>
  </article>
  <article class="project-item" data-pattern='{"basePath":"x"}'>
    <h3>Incomplete pattern</h3>
  </article>
  <div class="not-a-card" data-title="skip me"></div>
</main>
</body></html>`

func TestParse(t *testing.T) {
	cards, err := Parse(strings.NewReader(samplePage))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cards) != 5 {
		t.Fatalf("parsed %d cards, want 5", len(cards))
	}

	t.Run("explicit attributes win over element text", func(t *testing.T) {
		c := cards[0]
		if c.Title != "Poster Series" || c.Description != "Silkscreen posters" {
			t.Errorf("title/desc = %q/%q", c.Title, c.Description)
		}
		want := []string{"work/posters/a.jpg", "work/posters/b.jpg"}
		if !reflect.DeepEqual(c.ExplicitImages, want) {
			t.Errorf("ExplicitImages = %v, want %v", c.ExplicitImages, want)
		}
		if c.Category != "graphic" {
			t.Errorf("Category = %q, want lowercased", c.Category)
		}
	})

	t.Run("title and description fall back to card text", func(t *testing.T) {
		c := cards[1]
		if c.Title != "Zine" || c.Description != "Riso-printed zine" {
			t.Errorf("title/desc = %q/%q", c.Title, c.Description)
		}
		if c.GalleryKey != "work/zine" {
			t.Errorf("GalleryKey = %q", c.GalleryKey)
		}
		if c.YouTubeURL == "" {
			t.Error("YouTubeURL not parsed")
		}
	})

	t.Run("pattern attribute", func(t *testing.T) {
		c := cards[2]
		if c.Pattern == nil {
			t.Fatal("Pattern not parsed")
		}
		if c.Pattern.BasePath != "work/expo" || c.Pattern.IndexPad != 2 ||
			c.Pattern.StartIndex != 1 || c.Pattern.MaxCount != 12 {
			t.Errorf("Pattern = %+v", c.Pattern)
		}
		if !reflect.DeepEqual(c.Pattern.Extensions, []string{"webp", "jpg"}) {
			t.Errorf("Extensions = %v", c.Pattern.Extensions)
		}
	})

	t.Run("malformed explicit list ignored", func(t *testing.T) {
		c := cards[3]
		if c.ExplicitImages != nil {
			t.Errorf("ExplicitImages = %v, want nil", c.ExplicitImages)
		}
		if c.ThumbOverride != "covers/special.png" {
			t.Errorf("ThumbOverride = %q", c.ThumbOverride)
		}
	})

	t.Run("incomplete pattern treated as no pattern", func(t *testing.T) {
		if cards[4].Pattern != nil {
			t.Errorf("Pattern = %+v, want nil", cards[4].Pattern)
		}
	})

	t.Run("document order IDs", func(t *testing.T) {
		for i, c := range cards {
			if c.ID != i {
				t.Errorf("cards[%d].ID = %d", i, c.ID)
			}
		}
	})
}

func TestParseEmptyPage(t *testing.T) {
	cards, err := Parse(strings.NewReader("<html><body><p>no cards</p></body></html>"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cards) != 0 {
		t.Errorf("parsed %d cards, want 0", len(cards))
	}
}
