package corpus

import (
	"fmt"
	"io/fs"
	"math/rand"
	"path/filepath"
	"sort"
	"strings"
)

// Source is an audio file found under an input root. ID is the file name
// without its final extension.
type Source struct {
	Path string
	ID   string
}

var audioExts = map[string]bool{
	".wav":  true,
	".flac": true,
}

// Discover walks root recursively and returns every .wav or .flac file
// (extension matched case-insensitively), sorted by path components.
func Discover(root string) ([]Source, error) {
	var out []Source
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !audioExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		id := StemID(path)
		if id == "" {
			return nil
		}
		out = append(out, Source{Path: path, ID: id})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", root, err)
	}
	SortSources(out)
	return out, nil
}

// StemID strips the directory and the final extension from path.
func StemID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SortSources orders sources by path, comparing one component at a time so
// that "a/x" sorts before "a-b/x".
func SortSources(src []Source) {
	sort.SliceStable(src, func(i, j int) bool {
		return comparePaths(src[i].Path, src[j].Path) < 0
	})
}

func comparePaths(a, b string) int {
	pa := strings.Split(filepath.ToSlash(a), "/")
	pb := strings.Split(filepath.ToSlash(b), "/")
	for i := 0; i < len(pa) && i < len(pb); i++ {
		if c := strings.Compare(pa[i], pb[i]); c != 0 {
			return c
		}
	}
	return len(pa) - len(pb)
}

// ShuffleInputs sorts both lists and shuffles them with a single generator
// seeded by seed: clean list first, RIR list second.
func ShuffleInputs(clean, rirs []Source, seed int64) {
	SortSources(clean)
	SortSources(rirs)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(clean), func(i, j int) { clean[i], clean[j] = clean[j], clean[i] })
	rng.Shuffle(len(rirs), func(i, j int) { rirs[i], rirs[j] = rirs[j], rirs[i] })
}
