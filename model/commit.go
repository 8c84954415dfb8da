// Package model contains the commit object data model.
package model

import (
	"strconv"
	"strings"
)

const (
	authorPrefix    = "author "
	committerPrefix = "committer "
)

// Commit is a parsed commit object. It keeps exactly enough structure to
// re-render the original bytes with only the two timestamps changed: header
// lines before the author line are carried as an opaque preamble, and the
// name/email idents are never split apart.
type Commit struct {
	// Preamble is every header line before the author line, trailing
	// newline included. Empty only for a commit with no tree line, which
	// git never produces.
	Preamble string

	Author          string
	AuthorTimestamp int64
	AuthorTimezone  string

	Committer          string
	CommitterTimestamp int64
	CommitterTimezone  string

	// Message is everything after the first blank line, verbatim.
	Message string
}

// ParseError describes commit text that can't be operated on safely.
type ParseError struct {
	Reason string
}

func (e ParseError) Error() string {
	return "model: parse commit: " + e.Reason
}

// ParseCommit parses the raw text of a commit object, as printed by
// `git cat-file commit`. The committer line must directly follow the author
// line and be the last header line: anything after it (a gpg signature, say)
// couldn't be re-rendered byte for byte, so it is rejected rather than
// silently corrupted.
func ParseCommit(text string) (*Commit, error) {
	header, message, ok := strings.Cut(text, "\n\n")
	if !ok {
		return nil, ParseError{Reason: "no blank line after header"}
	}

	lines := strings.Split(header, "\n")
	authorIdx := -1
	for i, line := range lines {
		if strings.HasPrefix(line, authorPrefix) {
			authorIdx = i
			break
		}
	}
	if authorIdx == -1 {
		return nil, ParseError{Reason: "no author line"}
	}
	if authorIdx+1 >= len(lines) || !strings.HasPrefix(lines[authorIdx+1], committerPrefix) {
		return nil, ParseError{Reason: "no committer line after author line"}
	}
	if authorIdx+2 != len(lines) {
		return nil, ParseError{Reason: "unsupported header line after committer"}
	}

	cmt := &Commit{Message: message}
	if authorIdx > 0 {
		cmt.Preamble = strings.Join(lines[:authorIdx], "\n") + "\n"
	}

	var err error
	cmt.Author, cmt.AuthorTimestamp, cmt.AuthorTimezone, err = splitIdent(lines[authorIdx], authorPrefix)
	if err != nil {
		return nil, err
	}
	cmt.Committer, cmt.CommitterTimestamp, cmt.CommitterTimezone, err = splitIdent(lines[authorIdx+1], committerPrefix)
	if err != nil {
		return nil, err
	}
	return cmt, nil
}

// splitIdent splits an author or committer header line from the right, so
// the name/email ident can contain any number of spaces.
func splitIdent(line, prefix string) (string, int64, string, error) {
	name := strings.TrimSpace(prefix)
	i := strings.LastIndexByte(line, ' ')
	if i < 0 {
		return "", 0, "", ParseError{Reason: "malformed " + name + " line"}
	}
	tz := line[i+1:]

	j := strings.LastIndexByte(line[:i], ' ')
	if j < 0 {
		return "", 0, "", ParseError{Reason: "malformed " + name + " line"}
	}

	ident, ok := strings.CutPrefix(line[:j], prefix)
	if !ok {
		return "", 0, "", ParseError{Reason: "malformed " + name + " line"}
	}

	ts, err := strconv.ParseInt(line[j+1:i], 10, 64)
	if err != nil {
		return "", 0, "", ParseError{Reason: name + " timestamp " + strconv.Quote(line[j+1:i]) + " is not an integer"}
	}
	return ident, ts, tz, nil
}

// Render reproduces the bytes of the commit object. Parsing and rendering
// round-trip: with unchanged timestamps the output matches the original text
// byte for byte.
func (c *Commit) Render() string {
	head, mid, tail := c.RenderParts()
	return head + strconv.FormatInt(c.AuthorTimestamp, 10) + mid +
		strconv.FormatInt(c.CommitterTimestamp, 10) + tail
}

// RenderParts returns the rendered object as three chunks: everything up to
// and including the space before the author timestamp, the glue between the
// two timestamps, and everything after the committer timestamp. These are
// the pieces that stay constant while a search varies the timestamps.
func (c *Commit) RenderParts() (head, mid, tail string) {
	head = c.Preamble + authorPrefix + c.Author + " "
	mid = " " + c.AuthorTimezone + "\n" + committerPrefix + c.Committer + " "
	tail = " " + c.CommitterTimezone + "\n\n" + c.Message
	return head, mid, tail
}

// WithTimestamps returns a copy of the commit with the two timestamps
// replaced. Everything else, timezones included, is shared unchanged.
func (c *Commit) WithTimestamps(author, committer int64) *Commit {
	out := *c
	out.AuthorTimestamp = author
	out.CommitterTimestamp = committer
	return &out
}

// AuthorDate returns the author timestamp and timezone in the raw format git
// accepts for GIT_AUTHOR_DATE and --date.
func (c *Commit) AuthorDate() string {
	return strconv.FormatInt(c.AuthorTimestamp, 10) + " " + c.AuthorTimezone
}

// CommitterDate returns the committer timestamp and timezone in the raw
// format git accepts for GIT_COMMITTER_DATE.
func (c *Commit) CommitterDate() string {
	return strconv.FormatInt(c.CommitterTimestamp, 10) + " " + c.CommitterTimezone
}
