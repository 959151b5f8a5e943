package split

import (
	"iter"
	"regexp"
	"strings"

	"github.com/fieldlex/git-shoebox/clob"
	"github.com/fieldlex/git-shoebox/issue"
	"github.com/fieldlex/git-shoebox/scan"
)

// ID is a parsed record identifier. Full is the id tag value as written;
// Namespace is empty for public records.
type ID struct {
	Full      string
	Namespace string
	ID        string
}

// ParseID matches text against the id pattern. The pattern must consume
// the entire text and yield a non-empty id group.
func ParseID(text string, spec *regexp.Regexp) (ID, bool) {
	loc := spec.FindStringSubmatchIndex(text)
	if loc == nil || loc[0] != 0 || loc[1] != len(text) {
		return ID{}, false
	}
	group := func(name string) string {
		i := spec.SubexpIndex(name)
		if i < 0 || loc[2*i] < 0 {
			return ""
		}
		return strings.TrimSpace(text[loc[2*i]:loc[2*i+1]])
	}
	id := ID{
		Full:      text,
		Namespace: group("namespace"),
		ID:        group("id"),
	}
	if id.ID == "" {
		return ID{}, false
	}
	return id, true
}

// idRecord is one record filed under an id, keeping the lines needed
// for duplicate diagnostics.
type idRecord struct {
	record scan.Line
	idLine scan.Line
	body   string
}

// splitByID produces one content object per record id. Records sharing
// an id are merged into one file and each occurrence is reported as
// ambiguous. Records without a usable id are collected in a reserved
// file, which is emitted even when empty.
func splitByID(d *Dictionary) (iter.Seq[clob.Clob], []issue.Issue) {
	orphans, issues := collectOrphans(d)

	var ids []ID
	records := map[ID][]idRecord{}
	var missing []string

	var (
		recordStart  scan.Line
		recordIDLine scan.Line
		recordID     *ID
	)

	for {
		line, tok, ok := d.sc.Next()
		if !ok {
			break
		}
		switch tok.Kind {
		case scan.Tagged:
			switch tok.Tag {
			case d.cfg.RecordTag:
				recordStart = line
				if strings.TrimSpace(tok.Text) == "" {
					issues = append(issues, issue.Issue{Kind: issue.MissingRecordLabel, Line: line})
				}
			case d.cfg.IDTag:
				if recordID != nil {
					issues = append(issues, issue.Issue{
						Kind:   issue.ExtraneousID,
						Line:   line,
						Record: recordStart,
					})
				}
				text := strings.TrimSpace(tok.Text)
				if id, ok := ParseID(text, d.cfg.IDSpec); ok {
					if recordID == nil {
						recordID = &id
						recordIDLine = line
					}
				} else {
					issues = append(issues, issue.Issue{
						Kind:   issue.InvalidID,
						Line:   line,
						Record: recordStart,
					})
				}
			}
		case scan.Untagged:
			issues = append(issues, issue.Issue{Kind: issue.UntaggedLine, Line: line})
		case scan.RecordEnd:
			if recordID != nil {
				id := *recordID
				recordID = nil
				if _, seen := records[id]; !seen {
					ids = append(ids, id)
				}
				records[id] = append(records[id], idRecord{
					record: recordStart,
					idLine: recordIDLine,
					body:   tok.Body,
				})
			} else {
				missing = append(missing, tok.Body)
				issues = append(issues, issue.Issue{Kind: issue.MissingID, Line: recordStart})
			}
		}
	}

	for _, id := range ids {
		occurrences := records[id]
		if len(occurrences) < 2 {
			continue
		}
		for _, occ := range occurrences {
			issues = append(issues, issue.Issue{
				Kind:   issue.AmbiguousID,
				Line:   occ.idLine,
				Record: occ.record,
			})
		}
	}

	issue.SortByLine(issues)

	seq := func(yield func(clob.Clob) bool) {
		for _, id := range ids {
			path := "public/" + Shard(id.ID) + "/" + id.Full + ".txt"
			if id.Namespace != "" {
				path = "private/" + id.Namespace + "/" + id.Full + ".txt"
			}
			bodies := make([]string, 0, len(records[id]))
			for _, occ := range records[id] {
				bodies = append(bodies, occ.body)
			}
			c := clob.Clob{Path: path, Content: strings.Join(bodies, "\n")}
			if !yield(c.Validated()) {
				return
			}
		}
		bucket := clob.Clob{Path: MissingIDPath, Content: strings.Join(missing, "\n")}
		if !yield(bucket.Validated()) {
			return
		}
		if c, ok := orphanClob(orphans); ok {
			yield(c)
		}
	}
	return seq, issues
}
