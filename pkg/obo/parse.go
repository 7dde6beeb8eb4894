// SPDX-License-Identifier: MPL-2.0

package obo

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const maxLineSize = 4 * 1024 * 1024

var synonymScopes = map[string]string{
	"synonym":         "",
	"exact_synonym":   "EXACT",
	"narrow_synonym":  "NARROW",
	"broad_synonym":   "BROAD",
	"related_synonym": "RELATED",
}

type parser struct {
	doc     *Document
	current *Record
	// inTerm is false inside stanzas of other types.
	inTerm  bool
	started bool
}

// Parse decodes an OBO document.
func Parse(r io.Reader) (*Document, error) {
	p := &parser{doc: &Document{Header: make(map[string][]string)}}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	var pending strings.Builder
	pendingLine := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()

		// A trailing backslash continues the logical line.
		if strings.HasSuffix(raw, `\`) && !strings.HasSuffix(raw, `\\`) {
			if pending.Len() == 0 {
				pendingLine = lineNo
			}
			pending.WriteString(strings.TrimSuffix(raw, `\`))
			continue
		}
		line, at := raw, lineNo
		if pending.Len() > 0 {
			pending.WriteString(raw)
			line, at = pending.String(), pendingLine
			pending.Reset()
		}

		if err := p.line(line, at); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading obo: %w", err)
	}
	if pending.Len() > 0 {
		if err := p.line(pending.String(), pendingLine); err != nil {
			return nil, err
		}
	}
	if err := p.flush(); err != nil {
		return nil, err
	}
	return p.doc, nil
}

func (p *parser) line(raw string, lineNo int) error {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "!") {
		return nil
	}

	if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
		if err := p.flush(); err != nil {
			return err
		}
		p.started = true
		stanza := strings.TrimSpace(line[1 : len(line)-1])
		if stanza == "Term" {
			p.inTerm = true
			p.current = &Record{Line: lineNo}
		} else {
			p.inTerm = false
			p.doc.Skipped++
		}
		return nil
	}

	tag, value, ok := strings.Cut(line, ":")
	if !ok {
		return nil
	}
	tag = strings.TrimSpace(tag)
	value = strings.TrimSpace(value)

	if !p.started {
		p.doc.Header[tag] = append(p.doc.Header[tag], unescape(stripTrailing(value)))
		return nil
	}
	if !p.inTerm {
		return nil
	}
	p.tag(tag, value, lineNo)
	return nil
}

func (p *parser) tag(tag, value string, lineNo int) {
	rec := p.current
	switch tag {
	case "id":
		rec.ID = firstField(value)
	case "name":
		rec.Name = unescape(stripTrailing(value))
	case "namespace":
		rec.Namespace = firstField(value)
	case "def":
		text, _, terminated := quoted(value)
		if !terminated {
			p.warn(lineNo, CodeUnterminatedQuote, "def has an unterminated quoted string")
		}
		rec.Def = text
	case "is_a":
		if target := firstField(value); target != "" {
			rec.IsA = append(rec.IsA, target)
		}
	case "relationship":
		fields := strings.Fields(stripTrailing(value))
		if len(fields) >= 2 {
			rec.Relationships = append(rec.Relationships, Relationship{Type: fields[0], Target: fields[1]})
		}
	case "is_obsolete":
		rec.Obsolete = firstField(value) == "true"
	default:
		if defaultScope, isSynonym := synonymScopes[tag]; isSynonym {
			p.synonym(value, defaultScope, lineNo)
		}
	}
}

func (p *parser) synonym(value, defaultScope string, lineNo int) {
	text, rest, terminated := quoted(value)
	if !terminated {
		p.warn(lineNo, CodeUnterminatedQuote, "synonym has an unterminated quoted string")
	}
	if text == "" {
		p.warn(lineNo, CodeEmptySynonym, fmt.Sprintf("empty synonym on %s ignored", p.current.describe()))
		return
	}

	scope := defaultScope
	if scope == "" {
		scope = "RELATED"
		switch word := firstField(rest); word {
		case "EXACT", "NARROW", "BROAD", "RELATED":
			scope = word
		}
	}
	p.current.Synonyms = append(p.current.Synonyms, Synonym{Text: text, Scope: scope})
}

func (p *parser) flush() error {
	rec := p.current
	p.current = nil
	if rec == nil {
		return nil
	}
	if rec.ID == "" {
		return &SyntaxError{Line: rec.Line, Err: ErrMissingID}
	}
	if rec.Name == "" {
		p.warn(rec.Line, CodeMissingName, fmt.Sprintf("term %s has no name", rec.ID))
	}
	p.doc.Terms = append(p.doc.Terms, *rec)
	return nil
}

func (p *parser) warn(line int, code, msg string) {
	p.doc.Warnings = append(p.doc.Warnings, Warning{Line: line, Code: code, Message: msg})
}

func (r *Record) describe() string {
	if r.ID == "" {
		return fmt.Sprintf("stanza at line %d", r.Line)
	}
	return r.ID
}

// stripTrailing removes an unescaped "!" comment and a trailing "{...}"
// qualifier block, ignoring both inside quoted strings.
func stripTrailing(value string) string {
	inQuote := false
	qualifierAt := -1
	for i := 0; i < len(value); i++ {
		switch value[i] {
		case '\\':
			i++
		case '"':
			inQuote = !inQuote
		case '!':
			if !inQuote {
				return trimQualifier(value[:i], qualifierAt)
			}
		case '{':
			if !inQuote && qualifierAt < 0 {
				qualifierAt = i
			}
		}
	}
	return trimQualifier(value, qualifierAt)
}

func trimQualifier(value string, at int) string {
	value = strings.TrimRight(value, " \t")
	if at >= 0 && at < len(value) && strings.HasSuffix(value, "}") {
		value = value[:at]
	}
	return strings.TrimSpace(value)
}

// quoted reads a leading double-quoted string, returning the unescaped text
// and the remainder after the closing quote. A value without a leading
// quote is returned whole as text.
func quoted(value string) (text, rest string, terminated bool) {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, `"`) {
		return unescape(stripTrailing(value)), "", true
	}
	for i := 1; i < len(value); i++ {
		switch value[i] {
		case '\\':
			i++
		case '"':
			return unescape(value[1:i]), stripTrailing(value[i+1:]), true
		}
	}
	return unescape(stripTrailing(value[1:])), "", false
}

func firstField(value string) string {
	fields := strings.Fields(stripTrailing(value))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i == len(s)-1 {
			sb.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'W':
			sb.WriteByte(' ')
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}
