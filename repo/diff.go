package repo

import (
	"bytes"
	"errors"
	"iter"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/index"

	"github.com/fieldlex/git-shoebox/clob"
	"github.com/fieldlex/git-shoebox/debug"
)

// DiffClobs compares the decomposed content against the tracked files
// under root and returns the actions needed to bring the tree in line.
// Matching is case-insensitive so that the result stays stable on
// case-preserving filesystems; applied twice, the diff is empty.
func (r *Repository) DiffClobs(root string, clobs iter.Seq[clob.Clob]) ([]clob.Diff, error) {
	idx, err := r.git.Storer.Index()
	if err != nil {
		return nil, err
	}

	// tracked .txt files under root, keyed by lowercased path but
	// remembering the case on record
	existing := map[string]string{}
	prefix := root + "/"
	for _, e := range idx.Entries {
		if !strings.HasPrefix(e.Name, prefix) || !strings.HasSuffix(e.Name, ".txt") {
			continue
		}
		if !isASCII(e.Name) {
			return nil, &InvalidPathError{Path: e.Name}
		}
		existing[strings.ToLower(e.Name)] = e.Name
	}

	var diffs []clob.Diff
	for c := range clobs {
		c = clob.Clob{Path: prefix + c.Path, Content: c.Content}
		delete(existing, strings.ToLower(c.Path))

		entry, err := idx.Entry(c.Path)
		if err != nil {
			if !errors.Is(err, index.ErrEntryNotFound) {
				return nil, err
			}
			diffs = append(diffs, clob.Add(c))
			continue
		}
		changed, err := r.blobChanged(entry.Hash, []byte(c.Content))
		if err != nil {
			return nil, err
		}
		if changed {
			diffs = append(diffs, clob.Update(c))
		}
	}

	// whatever was not claimed by a clob is gone from the dictionary
	for _, path := range existing {
		diffs = append(diffs, clob.Delete(path))
	}

	if debug.Diff() {
		debug.Logf("diff %s: %s", root, clob.Count(diffs))
	}
	return diffs, nil
}

// blobChanged compares staged content with new content, by hash first
// and byte by byte as a guard when the hashes agree.
func (r *Repository) blobChanged(staged plumbing.Hash, content []byte) (bool, error) {
	if plumbing.ComputeHash(plumbing.BlobObject, content) != staged {
		return true, nil
	}
	stored, err := r.blobBytes(staged)
	if err != nil {
		// the hash matched but the object is unreadable; rewrite it
		return true, nil
	}
	return !bytes.Equal(stored, content), nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
