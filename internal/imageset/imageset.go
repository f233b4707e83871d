package imageset

// #region imports
import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/mkorhonen/emotion-tracking/go-tracker/internal/collector"
)

// #endregion

// #region constants

// pairCount is the fixed number of trials per session.
const pairCount = 5

// maxPairAttempts bounds the random pairing loop so a tiny image set
// cannot spin forever.
const maxPairAttempts = 50

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// #endregion constants

// #region types

// PairImages is the left/right stimulus for one trial.
type PairImages struct {
	Left  collector.ImageRef
	Right collector.ImageRef
}

// Deck holds the loaded images grouped by category and the generated
// trial pairs.
type Deck struct {
	byCategory map[string][]collector.ImageRef
	categories []string // categories with at least one image, load order
	pairs      []PairImages
	rng        *rand.Rand
}

// #endregion types

// #region load

// Load scans category subdirectories of dir and builds the trial pairs.
// Categories without a subdirectory are skipped with a warning.
func Load(dir string, categories []string, rng *rand.Rand) (*Deck, error) {
	if rng == nil {
		return nil, fmt.Errorf("imageset: rng is required")
	}

	d := &Deck{byCategory: make(map[string][]collector.ImageRef), rng: rng}

	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("image directory %s: %w", dir, err)
	}

	for _, category := range categories {
		catDir := filepath.Join(dir, category)
		entries, err := os.ReadDir(catDir)
		if err != nil {
			log.Printf("[IMAGES] category directory %s missing, skipping", catDir)
			continue
		}

		var refs []collector.ImageRef
		for _, e := range entries {
			if e.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
				continue
			}
			refs = append(refs, collector.ImageRef{
				Path:     filepath.Join(catDir, e.Name()),
				Category: category,
				Filename: e.Name(),
			})
		}
		if len(refs) > 0 {
			d.byCategory[category] = refs
			d.categories = append(d.categories, category)
		}
		log.Printf("[IMAGES] loaded %d images for category %q", len(refs), category)
	}

	total := 0
	for _, refs := range d.byCategory {
		total += len(refs)
	}
	if total < 2 {
		return nil, fmt.Errorf("not enough images loaded (%d); add more images under %s", total, dir)
	}

	d.buildPairs()
	return d, nil
}

// #endregion load

// #region build-pairs

// buildPairs draws up to pairCount unique cross-category pairs. Falls back
// to same-category pairs when only one category has images.
func (d *Deck) buildPairs() {
	seen := make(map[[2]string]bool)

	for attempts := 0; len(d.pairs) < pairCount && attempts < maxPairAttempts; attempts++ {
		var leftCat, rightCat string
		if len(d.categories) >= 2 {
			i := d.rng.Intn(len(d.categories))
			j := d.rng.Intn(len(d.categories) - 1)
			if j >= i {
				j++
			}
			leftCat, rightCat = d.categories[i], d.categories[j]
		} else {
			leftCat, rightCat = d.categories[0], d.categories[0]
		}

		left := d.byCategory[leftCat][d.rng.Intn(len(d.byCategory[leftCat]))]
		right := d.byCategory[rightCat][d.rng.Intn(len(d.byCategory[rightCat]))]

		key := [2]string{left.Path, right.Path}
		if seen[key] {
			continue
		}
		seen[key] = true
		d.pairs = append(d.pairs, PairImages{Left: left, Right: right})
	}

	if len(d.pairs) < pairCount {
		log.Printf("[IMAGES] could only create %d unique pairs instead of %d", len(d.pairs), pairCount)
	}
	log.Printf("[IMAGES] created %d image pairs", len(d.pairs))
}

// #endregion build-pairs

// #region accessors

// Pairs returns the trial pairs in presentation order.
func (d *Deck) Pairs() []PairImages {
	return append([]PairImages(nil), d.pairs...)
}

// Categories returns the categories that loaded at least one image.
func (d *Deck) Categories() []string {
	return append([]string(nil), d.categories...)
}

// #endregion accessors
