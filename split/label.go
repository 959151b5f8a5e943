package split

import (
	"iter"
	"strings"

	"github.com/fieldlex/git-shoebox/clob"
	"github.com/fieldlex/git-shoebox/issue"
	"github.com/fieldlex/git-shoebox/scan"
)

// splitByLabel produces one content object per sanitized record label.
// Distinct records whose labels sanitize to the same name share a file,
// joined by a blank line. Records without a label end up in a reserved
// file.
func splitByLabel(d *Dictionary) (iter.Seq[clob.Clob], []issue.Issue) {
	orphans, issues := collectOrphans(d)

	var labels []string
	records := map[string][]string{}
	label := ""

	for {
		line, tok, ok := d.sc.Next()
		if !ok {
			break
		}
		switch tok.Kind {
		case scan.Tagged:
			if tok.Tag != d.cfg.RecordTag {
				break
			}
			text := strings.TrimSpace(tok.Text)
			if text == "" {
				issues = append(issues, issue.Issue{Kind: issue.MissingRecordLabel, Line: line})
			}
			label = SanitizeLabel(text)
		case scan.Untagged:
			issues = append(issues, issue.Issue{Kind: issue.UntaggedLine, Line: line})
		case scan.RecordEnd:
			if _, seen := records[label]; !seen {
				labels = append(labels, label)
			}
			records[label] = append(records[label], tok.Body)
		}
	}

	seq := func(yield func(clob.Clob) bool) {
		for _, label := range labels {
			path := MissingLabelPath
			if label != "" {
				path = Shard(label) + "/" + label + ".txt"
			}
			c := clob.Clob{
				Path:    path,
				Content: strings.Join(records[label], "\n"),
			}
			if !yield(c.Validated()) {
				return
			}
		}
		if c, ok := orphanClob(orphans); ok {
			yield(c)
		}
	}
	return seq, issues
}
