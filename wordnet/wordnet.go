// Package wordnet implements sentiscope.Taxonomy over the WordNet 3.0
// database files (the "dict" directory of a WordNet distribution).
package wordnet

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fwojciec/sentiscope"
)

var _ sentiscope.Taxonomy = (*Taxonomy)(nil)

// Parts of speech in the order their senses are preferred.
var partsOfSpeech = []struct {
	tag  byte
	name string
}{
	{'n', "noun"},
	{'v', "verb"},
	{'a', "adj"},
	{'r', "adv"},
}

type synset struct {
	pos    byte
	offset int
}

func (s synset) id() string { return fmt.Sprintf("%c:%08d", s.pos, s.offset) }

func parseID(id string) (synset, bool) {
	if len(id) < 3 || id[1] != ':' {
		return synset{}, false
	}
	offset, err := strconv.Atoi(id[2:])
	if err != nil {
		return synset{}, false
	}
	return synset{pos: id[0], offset: offset}, true
}

// Taxonomy answers sense and similarity questions from the WordNet
// hypernym hierarchy. It is read-only after Open and safe for concurrent use.
type Taxonomy struct {
	lemmas     map[byte]map[string][]int
	exceptions map[byte]map[string][]string
	hypernyms  map[synset][]synset
	depth      map[synset]int
}

// Open loads the index, data and exception files from dir. Nouns and verbs
// carry hypernyms; adjectives and adverbs only contribute senses and their
// files may be absent.
func Open(dir string) (*Taxonomy, error) {
	t := &Taxonomy{
		lemmas:     make(map[byte]map[string][]int),
		exceptions: make(map[byte]map[string][]string),
		hypernyms:  make(map[synset][]synset),
	}

	for _, pos := range partsOfSpeech {
		lemmas, err := readIndex(filepath.Join(dir, "index."+pos.name))
		if errors.Is(err, fs.ErrNotExist) && (pos.tag == 'a' || pos.tag == 'r') {
			lemmas = map[string][]int{}
		} else if err != nil {
			return nil, fmt.Errorf("wordnet: %w", err)
		}
		t.lemmas[pos.tag] = lemmas

		exc, err := readExceptions(filepath.Join(dir, pos.name+".exc"))
		if err != nil {
			return nil, fmt.Errorf("wordnet: %w", err)
		}
		t.exceptions[pos.tag] = exc
	}

	for _, name := range []string{"noun", "verb"} {
		if err := t.readData(filepath.Join(dir, "data."+name)); err != nil {
			return nil, fmt.Errorf("wordnet: %w", err)
		}
	}

	t.depth = make(map[synset]int, len(t.hypernyms))
	for s := range t.hypernyms {
		t.maxDepth(s)
	}
	return t, nil
}

// Sense returns the first sense of word, trying nouns, verbs, adjectives and
// adverbs in that order. Inflected forms are reduced to their base form.
func (t *Taxonomy) Sense(word string) (sentiscope.Sense, bool) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return sentiscope.Sense{}, false
	}
	word = strings.ReplaceAll(word, " ", "_")

	for _, pos := range partsOfSpeech {
		for _, form := range t.morphy(word, pos.tag) {
			offsets := t.lemmas[pos.tag][form]
			if len(offsets) > 0 {
				s := synset{pos: pos.tag, offset: offsets[0]}
				return sentiscope.Sense{Word: word, ID: s.id()}, true
			}
		}
	}
	return sentiscope.Sense{}, false
}

// root stands in for the missing top of the verb, adjective and adverb
// hierarchies. It sits one step above the farthest ancestor of a sense.
var root = synset{offset: -1}

// Similarity returns the Wu-Palmer similarity of two senses:
// 2*depth(lcs) / (len(a) + len(b)), where depth counts nodes from the root
// to the lowest common subsumer and len counts nodes from the root to each
// sense through it.
//
// All nouns share the "entity" root. Unless both senses are nouns a common
// root is simulated, so verbs from different trees still compare. Two nouns
// without a common hypernym are not comparable.
func (t *Taxonomy) Similarity(a, b sentiscope.Sense) (float64, bool) {
	sa, ok := parseID(a.ID)
	if !ok {
		return 0, false
	}
	sb, ok := parseID(b.ID)
	if !ok {
		return 0, false
	}

	da := t.distances(sa)
	db := t.distances(sb)
	if sa.pos != 'n' || sb.pos != 'n' {
		addRoot(da)
		addRoot(db)
	}

	found := false
	var best synset
	var bestDepth, bestLen int
	for s, la := range da {
		lb, ok := db[s]
		if !ok {
			continue
		}
		d := t.depth[s]
		if !found || d > bestDepth || (d == bestDepth && la+lb < bestLen) {
			found, best, bestDepth, bestLen = true, s, d, la+lb
		}
	}
	if !found {
		return 0, false
	}

	depth := t.depth[best] + 1
	la := da[best] + depth
	lb := db[best] + depth
	return 2 * float64(depth) / float64(la+lb), true
}

// distances returns the shortest hypernym distance from s to each of its
// ancestors, s itself included at distance zero.
func (t *Taxonomy) distances(s synset) map[synset]int {
	dist := map[synset]int{s: 0}
	queue := []synset{s}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, h := range t.hypernyms[cur] {
			if _, ok := dist[h]; !ok {
				dist[h] = dist[cur] + 1
				queue = append(queue, h)
			}
		}
	}
	return dist
}

func addRoot(dist map[synset]int) {
	var farthest int
	for _, d := range dist {
		farthest = max(farthest, d)
	}
	dist[root] = farthest + 1
}

// maxDepth returns the length of the longest hypernym path from s to a root.
func (t *Taxonomy) maxDepth(s synset) int {
	if d, ok := t.depth[s]; ok {
		return d
	}
	var d int
	for _, h := range t.hypernyms[s] {
		d = max(d, t.maxDepth(h)+1)
	}
	t.depth[s] = d
	return d
}

// Suffix substitutions applied to inflected forms, per part of speech.
var detachments = map[byte][][2]string{
	'n': {{"s", ""}, {"ses", "s"}, {"xes", "x"}, {"zes", "z"}, {"ches", "ch"}, {"shes", "sh"}, {"men", "man"}, {"ies", "y"}},
	'v': {{"s", ""}, {"ies", "y"}, {"es", "e"}, {"es", ""}, {"ed", "e"}, {"ed", ""}, {"ing", "e"}, {"ing", ""}},
	'a': {{"er", ""}, {"est", ""}, {"er", "e"}, {"est", "e"}},
}

// morphy returns candidate base forms of word for pos, the word itself first.
func (t *Taxonomy) morphy(word string, pos byte) []string {
	forms := []string{word}
	if exc, ok := t.exceptions[pos][word]; ok {
		return append(forms, exc...)
	}
	for _, rule := range detachments[pos] {
		if strings.HasSuffix(word, rule[0]) && len(word) > len(rule[0]) {
			forms = append(forms, strings.TrimSuffix(word, rule[0])+rule[1])
		}
	}
	return forms
}

// readIndex parses an index.<pos> file into lemma -> synset offsets.
func readIndex(path string) (map[string][]int, error) {
	lemmas := make(map[string][]int)
	err := scanLines(path, func(line string) error {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return fmt.Errorf("short index line %q", line)
		}
		n, err := strconv.Atoi(fields[2])
		if err != nil || n > len(fields)-4 {
			return fmt.Errorf("bad synset count in %q", line)
		}
		offsets := make([]int, 0, n)
		for _, f := range fields[len(fields)-n:] {
			off, err := strconv.Atoi(f)
			if err != nil {
				return fmt.Errorf("bad synset offset %q", f)
			}
			offsets = append(offsets, off)
		}
		lemmas[fields[0]] = offsets
		return nil
	})
	return lemmas, err
}

// readExceptions parses a <pos>.exc file. A missing file is not an error.
func readExceptions(path string) (map[string][]string, error) {
	exc := make(map[string][]string)
	err := scanLines(path, func(line string) error {
		fields := strings.Fields(line)
		if len(fields) >= 2 {
			exc[fields[0]] = fields[1:]
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return exc, nil
	}
	return exc, err
}

// readData parses a data.<pos> file and records hypernym and instance
// hypernym pointers.
func (t *Taxonomy) readData(path string) error {
	return scanLines(path, func(line string) error {
		if i := strings.IndexByte(line, '|'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return fmt.Errorf("short data line %q", line)
		}
		offset, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("bad offset in %q", line)
		}
		pos := fields[2][0]
		if pos == 's' {
			pos = 'a'
		}
		self := synset{pos: pos, offset: offset}

		words, err := strconv.ParseInt(fields[3], 16, 32)
		if err != nil {
			return fmt.Errorf("bad word count in %q", line)
		}
		i := 4 + 2*int(words)
		if i >= len(fields) {
			return fmt.Errorf("missing pointer count in %q", line)
		}
		ptrs, err := strconv.Atoi(fields[i])
		if err != nil {
			return fmt.Errorf("bad pointer count in %q", line)
		}
		i++

		hypernyms := t.hypernyms[self]
		for p := 0; p < ptrs; p++ {
			if i+3 >= len(fields) {
				return fmt.Errorf("truncated pointers in %q", line)
			}
			symbol, target, targetPOS := fields[i], fields[i+1], fields[i+2]
			i += 4
			if symbol != "@" && symbol != "@i" {
				continue
			}
			off, err := strconv.Atoi(target)
			if err != nil {
				return fmt.Errorf("bad pointer offset %q", target)
			}
			hypernyms = append(hypernyms, synset{pos: targetPOS[0], offset: off})
		}
		t.hypernyms[self] = hypernyms
		return nil
	})
}

// scanLines calls fn for every line of the file at path, skipping the
// license header lines that begin with a space.
func scanLines(path string, fn func(line string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for n := 1; scanner.Scan(); n++ {
		line := scanner.Text()
		if line == "" || line[0] == ' ' {
			continue
		}
		if err := fn(line); err != nil {
			return fmt.Errorf("%s:%d: %w", filepath.Base(path), n, err)
		}
	}
	return scanner.Err()
}
