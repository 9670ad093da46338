package step

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// statementRe matches one complete entity statement. Header records and
// section markers simply fail the match and are skipped; nothing before
// the data section needs dedicated parsing.
var statementRe = regexp.MustCompile(`(?s)^#(\d+)\s*=\s*([A-Z0-9_]+)\s*\((.*)\)\s*;$`)

const maxStatementBytes = 4 * 1024 * 1024

// ParseFile reads and parses an exchange file. A read failure is the
// only fatal condition; malformed statements are counted and dropped.
func ParseFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening exchange file: %w", err)
	}
	defer f.Close()
	store, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return store, nil
}

// Parse accumulates physical lines until a trimmed line ends with `;`,
// then matches the buffered text as a statement. Identical input bytes
// always produce an identical entity table.
func Parse(r io.Reader) (*Store, error) {
	store := newStore()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxStatementBytes)

	var buf strings.Builder
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			continue
		}
		statement := buf.String()
		buf.Reset()
		if e, ok := parseStatement(statement); ok {
			store.add(e)
		} else if strings.HasPrefix(statement, "#") {
			store.dropped++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning statements: %w", err)
	}

	store.index()
	return store, nil
}

func parseStatement(statement string) (*Entity, bool) {
	m := statementRe.FindStringSubmatch(statement)
	if m == nil {
		return nil, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || id <= 0 {
		return nil, false
	}
	return &Entity{
		ID:    id,
		Type:  m[2],
		Attrs: splitAttributes(m[3]),
	}, true
}

// splitAttributes performs one left-to-right scan of an attribute body,
// tracking parenthesis depth and quoted-string mode. A comma at depth
// zero outside a string terminates an attribute. The format escapes a
// quote inside a string by doubling it.
func splitAttributes(body string) []Value {
	if strings.TrimSpace(body) == "" {
		return nil
	}

	var values []Value
	depth := 0
	inString := false
	start := 0

	for i := 0; i < len(body); i++ {
		c := body[i]
		if inString {
			if c == '\'' {
				if i+1 < len(body) && body[i+1] == '\'' {
					i++
					continue
				}
				inString = false
			}
			continue
		}
		switch c {
		case '\'':
			inString = true
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				values = append(values, classifyToken(body[start:i]))
				start = i + 1
			}
		}
	}
	values = append(values, classifyToken(body[start:]))
	return values
}

// classifyToken maps one raw attribute token onto the value model. The
// order is significant; anything unrecognised degrades to raw Text so a
// malformed attribute never aborts its entity.
func classifyToken(token string) Value {
	token = strings.TrimSpace(token)

	if token == "" || token == "$" || token == "*" {
		return Null()
	}
	if strings.HasPrefix(token, "'") && strings.HasSuffix(token, "'") && len(token) >= 2 {
		inner := token[1 : len(token)-1]
		return Text(strings.ReplaceAll(inner, "''", "'"))
	}
	if strings.HasPrefix(token, "#") {
		if id, err := strconv.ParseInt(token[1:], 10, 64); err == nil && id > 0 {
			return Ref(id)
		}
		return Text(token)
	}
	if n, err := strconv.ParseFloat(token, 64); err == nil {
		return Number(n)
	}
	if strings.HasPrefix(token, "(") && strings.HasSuffix(token, ")") {
		return Value{Kind: ListValue, List: splitAttributes(token[1 : len(token)-1])}
	}
	return Text(token)
}
