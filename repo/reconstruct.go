package repo

import (
	"errors"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/maruel/natural"
)

// HeaderLine opens every reconstructed dictionary file. The record
// count is fixed; the editors that consume these files ignore it.
const HeaderLine = "\\_sh v3.0  864  Dictionary\n"

// Reconstruct reassembles a managed file from the .txt blobs under the
// given contents root, joined blank-line separated in natural path
// order. An empty rev reads from the index, anything else is resolved
// as a revision.
func (r *Repository) Reconstruct(root, rev string) ([]byte, error) {
	if rev == "" {
		return r.reconstructFromIndex(root)
	}
	return r.reconstructFromRev(root, rev)
}

// reconstructFromIndex walks the index entries directly. The index has
// no tree structure for paths that are only staged, so this is a flat
// scan with a natural sort.
func (r *Repository) reconstructFromIndex(root string) ([]byte, error) {
	idx, err := r.git.Storer.Index()
	if err != nil {
		return nil, err
	}

	prefix := root + "/"
	hashes := map[string]plumbing.Hash{}
	var paths []string
	for _, e := range idx.Entries {
		if !strings.HasPrefix(e.Name, prefix) || !strings.HasSuffix(e.Name, ".txt") {
			continue
		}
		if !isASCII(e.Name) {
			// skip, the artifact cannot have come from a splitter
			continue
		}
		hashes[e.Name] = e.Hash
		paths = append(paths, e.Name)
	}
	if len(paths) == 0 {
		return nil, &NotFoundError{Path: root, Rev: "the index"}
	}
	sort.Slice(paths, func(a, b int) bool { return natural.Less(paths[a], paths[b]) })

	content := []byte(HeaderLine)
	for _, path := range paths {
		blob, err := r.blobBytes(hashes[path])
		if err != nil {
			return nil, err
		}
		content = append(content, '\n')
		content = append(content, blob...)
	}
	return content, nil
}

func (r *Repository) reconstructFromRev(root, rev string) ([]byte, error) {
	hash, err := r.git.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, &RevisionError{Rev: rev}
	}
	commit, err := object.GetCommit(r.git.Storer, *hash)
	if err != nil {
		return nil, &RevisionError{Rev: rev}
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, err
	}
	sub, err := tree.Tree(root)
	if err != nil {
		if errors.Is(err, object.ErrDirectoryNotFound) || errors.Is(err, object.ErrEntryNotFound) {
			return nil, &NotFoundError{Path: root, Rev: rev}
		}
		return nil, err
	}

	content := []byte(HeaderLine)
	if err := r.walkNatural(sub, &content); err != nil {
		return nil, err
	}
	return content, nil
}

// walkNatural appends the .txt blobs of a tree depth-first, each level
// sorted in natural name order.
func (r *Repository) walkNatural(tree *object.Tree, content *[]byte) error {
	entries := make([]object.TreeEntry, len(tree.Entries))
	copy(entries, tree.Entries)
	sort.Slice(entries, func(a, b int) bool {
		return natural.Less(entries[a].Name, entries[b].Name)
	})

	for _, e := range entries {
		switch {
		case e.Mode == filemode.Dir:
			sub, err := object.GetTree(r.git.Storer, e.Hash)
			if err != nil {
				return err
			}
			if err := r.walkNatural(sub, content); err != nil {
				return err
			}
		case strings.HasSuffix(e.Name, ".txt"):
			blob, err := r.blobBytes(e.Hash)
			if err != nil {
				return err
			}
			*content = append(*content, '\n')
			*content = append(*content, blob...)
		}
	}
	return nil
}
